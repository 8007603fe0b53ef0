package routes

import (
	"github.com/Noxter68/habit-tracking-sub006/internal/api/handlers"
	"github.com/Noxter68/habit-tracking-sub006/internal/api/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type HabitsRoutes struct {
	handler *handlers.HabitsHandler
}

func NewHabitsRoutes(handler *handlers.HabitsHandler) *HabitsRoutes {
	return &HabitsRoutes{handler: handler}
}

// RegisterRoutes registers all habit-related routes
func (h *HabitsRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	habits := router.Group("/api/habits")
	habits.Use(middleware.UserIdentity())

	// List and create
	habits.GET("", cache.CacheResponse(), gzip.Gzip(gzip.DefaultCompression), h.handler.ListHabits)
	habits.POST("", cache.CacheInvalidate("habits:*"), h.handler.CreateHabit)

	// CRUD operations with parameters
	habits.GET("/:id", cache.CacheResponse(), h.handler.GetHabit)
	habits.PUT("/:id", cache.CacheInvalidate("habits:*"), h.handler.UpdateHabit)
	habits.DELETE("/:id", cache.CacheInvalidate("habits:*"), h.handler.DeleteHabit)

	// Completion routes
	habits.POST("/:id/toggle", cache.CacheInvalidate("habits:*"), h.handler.ToggleTask)
	habits.POST("/:id/mark-day", cache.CacheInvalidate("habits:*"), h.handler.MarkDay)

	// Derived read models; the calendar can span a year so it's compressed
	habits.GET("/:id/calendar", cache.CacheResponse(), gzip.Gzip(gzip.DefaultCompression), h.handler.GetCalendar)
	habits.GET("/:id/streak", cache.CacheResponse(), h.handler.GetStreakStatus)
	habits.GET("/:id/streak-history", cache.CacheResponse(), h.handler.GetStreakHistory)

	// Holiday periods
	habits.POST("/:id/holidays", cache.CacheInvalidate("habits:*"), h.handler.StartHoliday)
	habits.DELETE("/:id/holidays/:period_id", cache.CacheInvalidate("habits:*"), h.handler.EndHoliday)
	habits.GET("/:id/holidays", h.handler.ListHolidays)

	// Analytics
	habits.GET("/:id/analytics/summary", h.handler.GetHabitActivitySummary)
}
