package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mfranzen/cadence/internal/adapters/handler/http/middleware"
	"github.com/mfranzen/cadence/internal/core/domain"
	"github.com/mfranzen/cadence/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/stats")
	{
		stats.GET("/streaks", h.Overview)
		stats.GET("/streaks/:id", h.LongestStreak)
		stats.GET("/best", h.Best)
	}
}

// Overview lists every habit of the user with its longest streak.
func (h *StatsHandler) Overview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	overview, err := h.svc.StreakOverview(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute streaks"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *StatsHandler) LongestStreak(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	streak, err := h.svc.LongestStreak(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute streak"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit_id":       c.Param("id"),
		"longest_streak": streak,
	})
}

// Best reports the habit holding the user's longest streak. When no
// habit has a streak above zero there is no winner, which is reported
// explicitly rather than as an error.
func (h *StatsHandler) Best(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	best, err := h.svc.BestStreak(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute best streak"})
		return
	}

	if best == nil {
		c.JSON(http.StatusOK, gin.H{"best": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"best": best})
}
