package routes

import (
	"profitshare/internal/handlers"
	"profitshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSettlementRoutes sets up all routes related to settlement periods.
// Reads require financial permission; finalize and mark-paid require super.
func SetupSettlementRoutes(r *gin.Engine) {
	settlements := r.Group("/settlements", middleware.ActorAuth())
	{
		read := settlements.Group("", middleware.RequirePermission(middleware.PermissionFinancial))
		{
			read.GET("", handlers.ListSettlements)
			read.GET("/:year/:month/allocation", handlers.GetAllocation)
		}

		admin := settlements.Group("", middleware.RequirePermission(middleware.PermissionSuper))
		{
			admin.POST("/:year/:month/finalize", handlers.FinalizeSettlement)
			admin.POST("/:year/:month/mark-paid", handlers.MarkSettlementPaid)
		}
	}
}
