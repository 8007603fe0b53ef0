package handlers

import (
	"net/http"

	"github.com/Noxter68/habit-tracking-sub006/internal/api/dto"
	"github.com/Noxter68/habit-tracking-sub006/internal/domain/groups"
	"github.com/Noxter68/habit-tracking-sub006/internal/domain/habits"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GroupsHandler handles HTTP requests for group habit operations
type GroupsHandler struct {
	service groups.Service
}

// NewGroupsHandler creates a new GroupsHandler instance
func NewGroupsHandler(service groups.Service) *GroupsHandler {
	return &GroupsHandler{service: service}
}

func groupStatusCode(err error) int {
	switch err {
	case groups.ErrGroupHabitNotFound, groups.ErrDayNotFound:
		return http.StatusNotFound
	case groups.ErrInvalidInput:
		return http.StatusBadRequest
	case groups.ErrNoSaverAvailable, groups.ErrSaverWindowClosed, groups.ErrDayNotFailed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// CreateGroupHabit creates a shared habit with members and tasks.
func (h *GroupsHandler) CreateGroupHabit(c *gin.Context) {
	var req dto.CreateGroupHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.service.CreateGroupHabit(c.Request.Context(), groups.CreateGroupHabitInput{
		GroupID:     req.GroupID,
		Title:       req.Title,
		Description: req.Description,
		Frequency:   habits.Frequency(req.Frequency),
		TaskNames:   req.TaskNames,
		MemberIDs:   req.MemberIDs,
		Savers:      req.Savers,
	})
	if err != nil {
		c.JSON(groupStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": GroupHabitToResponse(habit)})
}

// GetGroupHabit returns one group habit by id.
func (h *GroupsHandler) GetGroupHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group habit ID"})
		return
	}

	habit, err := h.service.GetGroupHabit(c.Request.Context(), id)
	if err != nil {
		c.JSON(groupStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": GroupHabitToResponse(habit)})
}

// ListGroupHabits returns all group habits.
func (h *GroupsHandler) ListGroupHabits(c *gin.Context) {
	habitsData, err := h.service.ListGroupHabits(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.GroupHabitResponse, len(habitsData))
	for i := range habitsData {
		responses[i] = *GroupHabitToResponse(&habitsData[i])
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// DeleteGroupHabit deletes a group habit by id.
func (h *GroupsHandler) DeleteGroupHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group habit ID"})
		return
	}

	if err := h.service.DeleteGroupHabit(c.Request.Context(), id); err != nil {
		c.JSON(groupStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// AddMember adds a user to a group habit.
func (h *GroupsHandler) AddMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group habit ID"})
		return
	}

	var req dto.AddGroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.AddMember(c.Request.Context(), id, req.UserID); err != nil {
		c.JSON(groupStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusCreated)
}

// RecordCompletion records one member's completion and returns the day
// and XP state.
func (h *GroupsHandler) RecordCompletion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group habit ID"})
		return
	}

	var req dto.RecordGroupCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := habits.ParseDateKey(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	result, err := h.service.RecordCompletion(c.Request.Context(), groups.RecordCompletionInput{
		GroupHabitID: id,
		MemberID:     req.MemberID,
		Date:         date,
		TaskID:       req.TaskID,
	})
	if err != nil {
		c.JSON(groupStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// GetDayStatus returns the validation state for one date.
func (h *GroupsHandler) GetDayStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group habit ID"})
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	date, err := habits.ParseDateKey(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	status, err := h.service.GetDayStatus(c.Request.Context(), id, date)
	if err != nil {
		c.JSON(groupStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": status})
}

// ApplyStreakSaver spends a saver to restore the streak a failed day
// reset.
func (h *GroupsHandler) ApplyStreakSaver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group habit ID"})
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	date, err := habits.ParseDateKey(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	day, err := h.service.ApplyStreakSaver(c.Request.Context(), id, date)
	if err != nil {
		c.JSON(groupStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": day})
}

// GetTierStatus returns the XP-derived tier read model.
func (h *GroupsHandler) GetTierStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group habit ID"})
		return
	}

	status, err := h.service.GetTierStatus(c.Request.Context(), id)
	if err != nil {
		c.JSON(groupStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": status})
}
