package controllers

import (
	"net/http"

	"github.com/AveGamers/HolySMP-Website/services"
	"github.com/gin-gonic/gin"
)

// StatsController serves the shop sidebar boards.
type StatsController struct {
	stats services.StatsService
}

// NewStatsController creates a new StatsController.
func NewStatsController(stats services.StatsService) *StatsController {
	return &StatsController{stats: stats}
}

// TopSupporters handles GET /api/stats/top-supporters
func (sc *StatsController) TopSupporters(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "supporters": sc.stats.TopSupporters()})
}

// Goal handles GET /api/stats/goal
func (sc *StatsController) Goal(ctx *gin.Context) {
	goal := sc.stats.Goal()
	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"current":    goal.Current,
		"target":     goal.Target,
		"percentage": goal.Percentage,
	})
}

// RecentPurchases handles GET /api/stats/recent-purchases
func (sc *StatsController) RecentPurchases(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "purchases": sc.stats.RecentPurchases()})
}
