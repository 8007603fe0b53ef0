package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Noxter68/habit-tracking-sub006/internal/api/dto"
	"github.com/Noxter68/habit-tracking-sub006/internal/api/middleware"
	"github.com/Noxter68/habit-tracking-sub006/internal/domain/habits"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HabitsHandler handles HTTP requests for habits operations
type HabitsHandler struct {
	service habits.Service
}

// NewHabitsHandler creates a new HabitsHandler instance
func NewHabitsHandler(service habits.Service) *HabitsHandler {
	return &HabitsHandler{service: service}
}

func habitStatusCode(err error) int {
	switch err {
	case habits.ErrHabitNotFound, habits.ErrTaskNotFound, habits.ErrPeriodNotFound:
		return http.StatusNotFound
	case habits.ErrInvalidInput, habits.ErrInvalidPeriod:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CreateHabit creates a new habit with its task list.
func (h *HabitsHandler) CreateHabit(c *gin.Context) {
	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	input := habits.CreateHabitInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Frequency:   habits.Frequency(req.Frequency),
		TaskNames:   req.TaskNames,
	}

	createdHabit, err := h.service.CreateHabit(c.Request.Context(), input)
	if err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": HabitToResponse(createdHabit)})
}

// GetHabit returns one habit by id.
func (h *HabitsHandler) GetHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	habit, err := h.service.GetHabit(c.Request.Context(), id)
	if err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(habit)})
}

// ListHabits returns the authenticated user's habits, paginated.
func (h *HabitsHandler) ListHabits(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page number"})
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page size"})
		return
	}

	filter := habits.HabitFilter{
		UserID:   &userID,
		Page:     page,
		PageSize: pageSize,
	}

	habitsData, total, err := h.service.ListHabits(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.HabitResponse, len(habitsData))
	for i := range habitsData {
		responses[i] = *HabitToResponse(&habitsData[i])
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HabitListResponse{
		Habits:     responses,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}})
}

// UpdateHabit updates a habit's title, description or frequency.
func (h *HabitsHandler) UpdateHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	var req dto.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := habits.UpdateHabitInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Frequency != nil {
		frequency := habits.Frequency(*req.Frequency)
		input.Frequency = &frequency
	}

	updatedHabit, err := h.service.UpdateHabit(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(updatedHabit)})
}

// DeleteHabit deletes a habit by id.
func (h *HabitsHandler) DeleteHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	if err := h.service.DeleteHabit(c.Request.Context(), id); err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleTask flips one task's completion for a date and returns the
// re-derived day, streak and reward state.
func (h *HabitsHandler) ToggleTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.ToggleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := habits.ParseDateKey(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	result, err := h.service.ToggleTask(c.Request.Context(), id, userID, req.TaskID, date)
	if err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// MarkDay marks a whole day done or undone for a habit without tasks.
func (h *HabitsHandler) MarkDay(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.MarkDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := habits.ParseDateKey(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	result, err := h.service.MarkDayDone(c.Request.Context(), id, userID, date, *req.Done)
	if err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// GetCalendar returns classified days over [from, to] for calendar
// rendering.
func (h *HabitsHandler) GetCalendar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}

	from, err := habits.ParseDateKey(fromStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := habits.ParseDateKey(toStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
		return
	}

	days, err := h.service.GetCalendar(c.Request.Context(), id, from, to)
	if err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.CalendarResponse{
		HabitID: id,
		From:    fromStr,
		To:      toStr,
		Days:    days,
	}})
}

// GetStreakStatus returns the streak, tier and milestone read model.
func (h *HabitsHandler) GetStreakStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	status, err := h.service.GetStreakStatus(c.Request.Context(), id)
	if err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": status})
}

// GetStreakHistory returns archived streak runs for a habit.
func (h *HabitsHandler) GetStreakHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	history, err := h.service.GetStreakHistory(c.Request.Context(), id)
	if err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.StreakHistoryResponse, len(history))
	for i := range history {
		responses[i] = *StreakHistoryToResponse(&history[i])
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// StartHoliday opens a holiday period for a habit or a subset of its
// tasks.
func (h *HabitsHandler) StartHoliday(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.StartHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := habits.ParseDateKey(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
		return
	}
	endDate, err := habits.ParseDateKey(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, expected YYYY-MM-DD"})
		return
	}

	period, err := h.service.StartHoliday(c.Request.Context(), habits.StartHolidayInput{
		HabitID:   id,
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
		TaskIDs:   req.TaskIDs,
		Message:   req.Message,
	})
	if err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": HolidayToResponse(period)})
}

// EndHoliday closes a holiday period as of yesterday.
func (h *HabitsHandler) EndHoliday(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	periodID, err := uuid.Parse(c.Param("period_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period ID"})
		return
	}

	if err := h.service.EndHoliday(c.Request.Context(), id, periodID); err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "holiday ended"})
}

// ListHolidays returns all holiday periods for a habit.
func (h *HabitsHandler) ListHolidays(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	periods, err := h.service.ListHolidays(c.Request.Context(), id)
	if err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.HolidayResponse, len(periods))
	for i := range periods {
		responses[i] = *HolidayToResponse(&periods[i])
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// GetHabitActivitySummary returns activity counts by action over a time
// range.
func (h *HabitsHandler) GetHabitActivitySummary(c *gin.Context) {
	habitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	startTimeStr := c.Query("start_time")
	endTimeStr := c.Query("end_time")
	if startTimeStr == "" || endTimeStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time and end_time are required"})
		return
	}

	startTime, err := time.Parse(time.RFC3339, startTimeStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time format, expected RFC3339"})
		return
	}
	endTime, err := time.Parse(time.RFC3339, endTimeStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time format, expected RFC3339"})
		return
	}

	summary, err := h.service.GetHabitActivitySummary(c.Request.Context(), habitID, startTime, endTime)
	if err != nil {
		c.JSON(habitStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HabitActivitySummaryResponse{
		HabitID:      summary.HabitID,
		ActionCounts: summary.ActionCounts,
		StartTime:    summary.StartTime,
		EndTime:      summary.EndTime,
		TotalActions: summary.TotalActions,
	}})
}
