package routes

import (
	"github.com/Noxter68/habit-tracking-sub006/internal/api/handlers"
	"github.com/Noxter68/habit-tracking-sub006/internal/api/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type GroupsRoutes struct {
	handler *handlers.GroupsHandler
}

func NewGroupsRoutes(handler *handlers.GroupsHandler) *GroupsRoutes {
	return &GroupsRoutes{handler: handler}
}

// RegisterRoutes registers all group habit routes
func (g *GroupsRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	groups := router.Group("/api/group-habits")
	groups.Use(middleware.UserIdentity())

	groups.GET("", cache.CacheResponse(), gzip.Gzip(gzip.DefaultCompression), g.handler.ListGroupHabits)
	groups.POST("", cache.CacheInvalidate("group-habits:*"), g.handler.CreateGroupHabit)

	groups.GET("/:id", cache.CacheResponse(), g.handler.GetGroupHabit)
	groups.DELETE("/:id", cache.CacheInvalidate("group-habits:*"), g.handler.DeleteGroupHabit)

	groups.POST("/:id/members", cache.CacheInvalidate("group-habits:*"), g.handler.AddMember)
	groups.POST("/:id/completions", cache.CacheInvalidate("group-habits:*"), g.handler.RecordCompletion)
	groups.GET("/:id/day", g.handler.GetDayStatus)
	groups.POST("/:id/streak-saver", cache.CacheInvalidate("group-habits:*"), g.handler.ApplyStreakSaver)
	groups.GET("/:id/tier", cache.CacheResponse(), g.handler.GetTierStatus)
}
