package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/01moynul/autoparts-golang/internal/handlers"
	"github.com/01moynul/autoparts-golang/internal/middleware"
)

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	handlers.RegisterValidators()

	router := gin.New()

	// --- Global middleware ---
	// Request id first so every later log line carries it.
	corsOrigin := ""
	if h.Config != nil {
		corsOrigin = h.Config.Server.CORSOrigin
	}
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	if h.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(h.Metrics))
		router.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}
	router.Use(middleware.CORSMiddleware(corsOrigin))
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)

		// --- Vehicle hierarchy (Public) ---
		api.GET("/car-makes", h.GetCarMakes)
		api.GET("/car-makes/:id", h.GetCarMake)
		api.GET("/car-models", h.GetCarModels)
		api.GET("/car-models/:id", h.GetCarModel)
		api.GET("/car-years", h.GetCarYears)
		api.GET("/car-years/:id", h.GetCarYear)
		api.GET("/car-body-types", h.GetCarBodyTypes)
		api.GET("/car-body-types/:id", h.GetCarBodyType)
		api.GET("/car-engines", h.GetCarEngines)
		api.GET("/car-engines/:id", h.GetCarEngine)

		// --- Catalog (Public) ---
		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/products/:id/fits", h.ProductFits)
		api.GET("/compatibilities", h.GetCompatibilities)
		api.GET("/compatibilities/hierarchical", h.GetCompatibilityTree)
		api.GET("/compatibilities/:id", h.GetCompatibility)
		api.GET("/categories", h.GetAllCategories)
		api.GET("/categories/:id", h.GetCategory)
		api.GET("/manufacturers", h.GetAllManufacturers)
		api.GET("/manufacturers/:id", h.GetManufacturer)
		api.GET("/reviews", h.GetReviews)
		api.GET("/search", h.Search)

		// --- Auth Routes (Public) ---
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/logout", h.Logout)

		// --- Protected Routes (Login Required) ---
		auth := api.Group("")
		auth.Use(middleware.AuthMiddleware(h.Store, h.Tokens))
		{
			auth.GET("/profile", h.GetProfile)
			auth.PUT("/profile", h.UpdateProfile)

			auth.GET("/cart", h.GetCart)
			auth.POST("/cart/items", h.AddToCart)
			auth.PUT("/cart/items/:productId", h.UpdateCartItem)
			auth.DELETE("/cart/items/:productId", h.DeleteCartItem)

			auth.POST("/orders", h.Checkout)
			auth.GET("/orders/my", h.GetMyOrders)
			auth.GET("/orders/:id", h.GetOrderDetails)

			auth.POST("/reviews", h.CreateReview)
			auth.DELETE("/reviews/:id", h.DeleteReview)
		}

		// --- Admin-Only Routes ---
		admin := api.Group("")
		admin.Use(middleware.AuthMiddleware(h.Store, h.Tokens))
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/car-makes", h.CreateCarMake)
			admin.PUT("/car-makes/:id", h.UpdateCarMake)
			admin.DELETE("/car-makes/:id", h.DeleteCarMake)
			admin.POST("/car-models", h.CreateCarModel)
			admin.PUT("/car-models/:id", h.UpdateCarModel)
			admin.DELETE("/car-models/:id", h.DeleteCarModel)
			admin.POST("/car-years", h.CreateCarYear)
			admin.PUT("/car-years/:id", h.UpdateCarYear)
			admin.DELETE("/car-years/:id", h.DeleteCarYear)
			admin.POST("/car-body-types", h.CreateCarBodyType)
			admin.PUT("/car-body-types/:id", h.UpdateCarBodyType)
			admin.DELETE("/car-body-types/:id", h.DeleteCarBodyType)
			admin.POST("/car-engines", h.CreateCarEngine)
			admin.PUT("/car-engines/:id", h.UpdateCarEngine)
			admin.DELETE("/car-engines/:id", h.DeleteCarEngine)

			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.POST("/compatibilities", h.CreateCompatibility)
			admin.PUT("/compatibilities/:id", h.UpdateCompatibility)
			admin.DELETE("/compatibilities/:id", h.DeleteCompatibility)

			admin.POST("/categories", h.CreateCategory)
			admin.PUT("/categories/:id", h.UpdateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)

			admin.POST("/manufacturers", h.CreateManufacturer)
			admin.PUT("/manufacturers/:id", h.UpdateManufacturer)
			admin.DELETE("/manufacturers/:id", h.DeleteManufacturer)

			admin.GET("/admin/orders", h.GetAllOrders)
			admin.PATCH("/admin/orders/:id/status", h.UpdateOrderStatus)
		}
	}

	return router
}
