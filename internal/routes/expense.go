package routes

import (
	"profitshare/internal/handlers"
	"profitshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupExpenseRoutes sets up all routes related to manual expense entry
func SetupExpenseRoutes(r *gin.Engine) {
	expenses := r.Group("/expenses", middleware.ActorAuth())
	{
		financial := expenses.Group("", middleware.RequirePermission(middleware.PermissionFinancial))
		{
			financial.GET("", handlers.ListExpenses)
			financial.POST("", handlers.CreateExpense)
		}

		admin := expenses.Group("", middleware.RequirePermission(middleware.PermissionSuper))
		{
			admin.POST("/:id/review", handlers.ReviewExpense)
		}
	}
}
