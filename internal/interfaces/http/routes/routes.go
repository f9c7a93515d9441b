// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/fooddelivery-backend/internal/config"
	redisdb "github.com/your-org/fooddelivery-backend/internal/infrastructure/database/redis"
	"github.com/your-org/fooddelivery-backend/internal/interfaces/http/handlers"
	"github.com/your-org/fooddelivery-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every route group under /api/v1
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) {
	v1 := router.Group("/api/v1")

	SetupAuthRoutes(v1, db, cfg)
	SetupUserRoutes(v1, db, cfg)
	SetupCatalogRoutes(v1, db, redisClient, cfg)
	SetupCartRoutes(v1, db, redisClient, cfg)
	SetupOrderRoutes(v1, db, redisClient, cfg)
	SetupEngagementRoutes(v1, db, redisClient, cfg)
	SetupAdminRoutes(v1, db, redisClient, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.PUT("/password", authHandler.ChangePassword)
			protected.GET("/validate", authHandler.ValidateToken)
		}
	}
}

// SetupUserRoutes sets up user related routes
func SetupUserRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	addressHandler := handlers.NewUserAddressHandler(db, cfg)

	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(cfg)) // All user routes require authentication
	{
		users.GET("/addresses", addressHandler.GetAddresses)
		users.POST("/addresses", addressHandler.CreateAddress)
		users.GET("/addresses/:id", addressHandler.GetAddress)
		users.PUT("/addresses/:id", addressHandler.UpdateAddress)
		users.DELETE("/addresses/:id", addressHandler.DeleteAddress)
		users.PUT("/addresses/:id/default", addressHandler.SetDefaultAddress)
	}
}

// SetupCatalogRoutes sets up restaurant and food item routes
func SetupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) {
	restaurantHandler := handlers.NewRestaurantHandler(db, redisClient, cfg)
	foodItemHandler := handlers.NewFoodItemHandler(db, redisClient, cfg)

	restaurants := rg.Group("/restaurants")
	{
		restaurants.GET("", restaurantHandler.ListRestaurants)
		restaurants.GET("/:id", restaurantHandler.GetRestaurant)
		restaurants.GET("/:id/reviews", restaurantHandler.GetRestaurantReviews)
	}

	items := rg.Group("/food-items")
	{
		items.GET("", foodItemHandler.ListFoodItems)
		items.GET("/:id", foodItemHandler.GetFoodItem)
		items.GET("/:id/options", foodItemHandler.GetFoodItemOptions)
	}
}

// SetupCartRoutes sets up cart routes, available to guests via cart key
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(cfg))
	cart.Use(middleware.CartKey())
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartLine)
		cart.DELETE("/items/:id", cartHandler.RemoveCartLine)
		cart.DELETE("", cartHandler.ClearCart)
	}
}

// SetupOrderRoutes sets up checkout, tracking and order chat routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg)
	receiptHandler := handlers.NewReceiptHandler(db, cfg)
	messageHandler := handlers.NewMessageHandler(db, cfg)
	reviewHandler := handlers.NewReviewHandler(db, cfg)

	orders := rg.Group("/orders")
	orders.Use(middleware.OptionalAuthMiddleware(cfg))
	orders.Use(middleware.CartKey())
	{
		orders.POST("", orderHandler.PlaceOrder)
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/track", orderHandler.TrackOrder)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)
		orders.GET("/:id/receipt", receiptHandler.GenerateReceipt)
		orders.GET("/:id/review", reviewHandler.GetOrderReview)
		orders.POST("/:id/messages", messageHandler.SendMessage)
		orders.GET("/:id/messages", messageHandler.GetMessages)
	}
}

// SetupEngagementRoutes sets up favorites, vouchers and reviews
func SetupEngagementRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) {
	favoriteHandler := handlers.NewFavoriteHandler(db, redisClient, cfg)
	voucherHandler := handlers.NewVoucherHandler(db, cfg)
	reviewHandler := handlers.NewReviewHandler(db, cfg)

	favorites := rg.Group("/favorites")
	favorites.Use(middleware.OptionalAuthMiddleware(cfg))
	favorites.Use(middleware.CartKey())
	{
		favorites.GET("", favoriteHandler.GetFavorites)
		favorites.GET("/:itemId", favoriteHandler.CheckFavorite)
		favorites.POST("/:itemId/toggle", favoriteHandler.ToggleFavorite)
	}

	vouchers := rg.Group("/vouchers")
	{
		vouchers.GET("", voucherHandler.ListVouchers)
		vouchers.GET("/:code", voucherHandler.GetVoucher)
		vouchers.POST("/preview", voucherHandler.PreviewDiscount)
	}

	reviews := rg.Group("/reviews")
	reviews.Use(middleware.OptionalAuthMiddleware(cfg))
	reviews.Use(middleware.CartKey())
	{
		reviews.POST("", reviewHandler.CreateReview)
	}
}

// SetupAdminRoutes sets up admin related routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg)) // Require authentication
	admin.Use(middleware.AdminMiddleware())   // Require admin privileges
	{
		// Order management: drive the delivery pipeline
		orders := admin.Group("/orders")
		{
			orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		}
	}
}
