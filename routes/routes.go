package routes

import (
	"github.com/AveGamers/HolySMP-Website/controllers"
	"github.com/AveGamers/HolySMP-Website/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers bundles the HTTP handlers mounted by RegisterRoutes.
type Controllers struct {
	Health *controllers.HealthController
	Shop   *controllers.ShopController
	Stats  *controllers.StatsController
}

// RegisterRoutes sets up the health check, the /api surface and the 404
// fallback. apiMiddleware is applied to /api only.
func RegisterRoutes(r *gin.Engine, c Controllers, apiMiddleware ...gin.HandlerFunc) {
	r.GET("/health", c.Health.Health)

	api := r.Group("/api")
	api.Use(apiMiddleware...)

	api.GET("/categories", c.Shop.Categories)
	api.GET("/packages", c.Shop.Packages)
	api.GET("/packages/:id", c.Shop.PackageByID)
	api.GET("/info", c.Shop.Info)
	api.POST("/basket", c.Shop.CreateBasket)

	stats := api.Group("/stats")
	stats.GET("/top-supporters", c.Stats.TopSupporters)
	stats.GET("/goal", c.Stats.Goal)
	stats.GET("/recent-purchases", c.Stats.RecentPurchases)

	r.NoRoute(middleware.NotFound())
}
