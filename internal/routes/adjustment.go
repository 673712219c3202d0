package routes

import (
	"profitshare/internal/handlers"
	"profitshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAdjustmentRoutes sets up all routes related to share-percent
// adjustments. Proposing needs financial permission (partners file their own
// self-reductions); deciding needs super.
func SetupAdjustmentRoutes(r *gin.Engine) {
	adjustments := r.Group("/adjustments", middleware.ActorAuth())
	{
		financial := adjustments.Group("", middleware.RequirePermission(middleware.PermissionFinancial))
		{
			financial.GET("", handlers.ListAdjustments)
			financial.POST("", handlers.ProposeAdjustment)
		}

		admin := adjustments.Group("", middleware.RequirePermission(middleware.PermissionSuper))
		{
			admin.POST("/:id/decide", handlers.DecideAdjustment)
		}
	}
}
