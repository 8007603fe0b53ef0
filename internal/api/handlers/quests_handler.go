package handlers

import (
	"net/http"

	"github.com/Noxter68/habit-tracking-sub006/internal/api/dto"
	"github.com/Noxter68/habit-tracking-sub006/internal/api/middleware"
	"github.com/Noxter68/habit-tracking-sub006/internal/domain/quests"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuestsHandler handles HTTP requests for quest operations
type QuestsHandler struct {
	service quests.Service
}

// NewQuestsHandler creates a new QuestsHandler instance
func NewQuestsHandler(service quests.Service) *QuestsHandler {
	return &QuestsHandler{service: service}
}

func questStatusCode(err error) int {
	switch err {
	case quests.ErrQuestNotFound:
		return http.StatusNotFound
	case quests.ErrInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CreateQuest creates a counter-based objective for the authenticated
// user.
func (h *QuestsHandler) CreateQuest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quest, err := h.service.CreateQuest(c.Request.Context(), quests.CreateQuestInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Target:      req.Target,
		RewardType:  quests.RewardType(req.RewardType),
		RewardValue: req.RewardValue,
		RewardTitle: req.RewardTitle,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		c.JSON(questStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": quest})
}

// GetQuest returns one quest with its derived progress.
func (h *QuestsHandler) GetQuest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest ID"})
		return
	}

	view, err := h.service.GetQuest(c.Request.Context(), id)
	if err != nil {
		c.JSON(questStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": QuestViewToResponse(view)})
}

// ListQuests returns the authenticated user's quests with progress.
func (h *QuestsHandler) ListQuests(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	views, err := h.service.ListQuests(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.QuestResponse, len(views))
	for i := range views {
		responses[i] = *QuestViewToResponse(&views[i])
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// DeleteQuest deletes a quest by id.
func (h *QuestsHandler) DeleteQuest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest ID"})
		return
	}

	if err := h.service.DeleteQuest(c.Request.Context(), id); err != nil {
		c.JSON(questStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// AdvanceProgress reports a new raw counter value for a quest.
func (h *QuestsHandler) AdvanceProgress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quest ID"})
		return
	}

	var req dto.AdvanceQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.AdvanceProgress(c.Request.Context(), id, req.Raw)
	if err != nil {
		c.JSON(questStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": QuestViewToResponse(view)})
}
