package routes

import (
	"github.com/Noxter68/habit-tracking-sub006/internal/api/handlers"
	"github.com/Noxter68/habit-tracking-sub006/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

type QuestsRoutes struct {
	handler *handlers.QuestsHandler
}

func NewQuestsRoutes(handler *handlers.QuestsHandler) *QuestsRoutes {
	return &QuestsRoutes{handler: handler}
}

// RegisterRoutes registers all quest routes
func (q *QuestsRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	quests := router.Group("/api/quests")
	quests.Use(middleware.UserIdentity())

	quests.GET("", cache.CacheResponse(), q.handler.ListQuests)
	quests.POST("", cache.CacheInvalidate("quests:*"), q.handler.CreateQuest)

	quests.GET("/:id", cache.CacheResponse(), q.handler.GetQuest)
	quests.DELETE("/:id", cache.CacheInvalidate("quests:*"), q.handler.DeleteQuest)

	quests.POST("/:id/progress", cache.CacheInvalidate("quests:*"), q.handler.AdvanceProgress)
}
