package routes

import (
	"profitshare/internal/handlers"
	"profitshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupLedgerRoutes sets up routes for feed imports and ad-hoc range reports
func SetupLedgerRoutes(r *gin.Engine) {
	ledger := r.Group("/ledger", middleware.ActorAuth())
	{
		ledger.POST("/import", middleware.RequirePermission(middleware.PermissionSuper), handlers.ImportTransactions)
	}

	reports := r.Group("/reports", middleware.ActorAuth(), middleware.RequirePermission(middleware.PermissionFinancial))
	{
		reports.GET("/range", handlers.GetRangeReport)
	}
}
