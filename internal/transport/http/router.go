package http

import (
	"basti-service/internal/service"

	"github.com/gin-contrib/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

func Router(catalog service.CatalogService, carts service.CartService, orders service.OrderService, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-User-ID", "X-User-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	catalogHandler := NewCatalogHandler(catalog, log)
	cartHandler := NewCartHandler(carts, log)
	orderHandler := NewOrderHandler(orders, log)

	v1 := r.Group("/api/v1")

	// Витрина публичная, идентичность не нужна
	v1.GET("/catalog", catalogHandler.GetCatalog)
	v1.GET("/catalog/regions", catalogHandler.ListRegions)

	authed := v1.Group("")
	authed.Use(Identity())
	{
		authed.GET("/cart", cartHandler.GetCart)
		authed.GET("/cart/saved", cartHandler.GetSaved)
		authed.POST("/cart/lines", cartHandler.AddLine)
		authed.PATCH("/cart/lines/:id/quantity", cartHandler.UpdateQuantity)
		authed.PATCH("/cart/lines/:id/toggle", cartHandler.ToggleInclusion)
		authed.DELETE("/cart/lines/:id", cartHandler.DeleteLine)
		authed.POST("/cart/bulk-delete", cartHandler.BulkDelete)

		authed.POST("/orders", orderHandler.PlaceOrder)
		authed.GET("/orders", orderHandler.ListOrders)
		authed.GET("/orders/:id", orderHandler.GetOrder)
		authed.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
		authed.POST("/orders/:id/cancel", orderHandler.CancelOrder)

		// Ролевая проверка живёт в сервисном слое
		authed.POST("/admin/products", catalogHandler.CreateProduct)
		authed.PUT("/admin/products/:id", catalogHandler.UpdateProduct)
		authed.PATCH("/admin/products/:id/active", catalogHandler.SetProductActive)
		authed.POST("/admin/predesigned", catalogHandler.SavePredesigned)
		authed.PUT("/admin/overrides", catalogHandler.SetOverride)
		authed.DELETE("/admin/overrides", catalogHandler.DeleteOverride)
	}

	return r
}
