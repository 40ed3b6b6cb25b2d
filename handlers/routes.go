package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "API is running",
		})
	}
}

// RegisterRoutes mounts the JSON API under /api.
func RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/health", HealthHandler())

	expenses := api.Group("/expenses")
	// static paths are registered before the :id routes
	expenses.GET("/summary", ExpenseSummaryHandler())
	expenses.GET("/categories", ExpenseCategoriesHandler())
	expenses.GET("/export", ExportExpensesHandler())
	expenses.GET("", ListExpensesHandler())
	expenses.POST("", CreateExpenseHandler())
	expenses.GET("/:id", GetExpenseHandler())
	expenses.PUT("/:id", UpdateExpenseHandler())
	expenses.DELETE("/:id", DeleteExpenseHandler())

	customers := api.Group("/customers")
	customers.GET("", ListCustomersHandler())
	customers.POST("", CreateCustomerHandler())
	customers.GET("/:id", GetCustomerHandler())
	customers.PUT("/:id", UpdateCustomerHandler())
	customers.DELETE("/:id", DeleteCustomerHandler())

	vehicles := api.Group("/vehicles")
	vehicles.GET("", ListVehiclesHandler())
	vehicles.POST("", CreateVehicleHandler())
	vehicles.GET("/:id", GetVehicleHandler())

	rates := api.Group("/exchange-rate")
	rates.GET("/current", CurrentExchangeRateHandler())
	rates.POST("/update-manual", SetExchangeRateHandler())
	rates.GET("/history", ExchangeRateHistoryHandler())
	rates.POST("/convert", ConvertCurrencyHandler())
}

func NotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "route not found"})
}
