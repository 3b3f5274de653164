package api

import (
	"time" // CORS preflight cache

	"game_store/internal/config"     // Application settings
	"game_store/internal/metrics"    // Prometheus registry
	"game_store/internal/middleware" // Custom package for middleware
	"game_store/internal/shop"       // Business operations
	"game_store/internal/storage"    // Uploaded images
	"game_store/internal/utils"      // Token revocation

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are the shared services handlers are built from
type Deps struct {
	Config  *config.Config      // Settings
	DB      *gorm.DB            // Database handle
	Redis   *redis.Client       // Optional, nil when REDIS_ADDR is empty
	Shop    *shop.Service       // Business operations
	Images  *storage.Images     // Uploaded files
	Revoker *utils.TokenRevoker // Logged-out tokens
}

// NewRouter wires every route of the storefront
func NewRouter(d Deps) *gin.Engine {
	r := gin.New() // Gin router instance

	// Global middleware
	r.Use(
		gin.Recovery(),             // Turn panics into 500s
		middleware.RequestLogger(), // Structured access log
		middleware.Metrics(),       // Prometheus request metrics
		cors.New(cors.Config{
			AllowOrigins:     d.Config.CORSOrigins,                                // Frontend origins
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}, // Used verbs
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"}, // Request headers
			AllowCredentials: true,                                                // Allow Authorization
			MaxAge:           12 * time.Hour,                                      // Preflight cache
		}),
	)

	apiLimit := middleware.RateLimit(middleware.NewLimiter(d.Redis, middleware.PolicyAPI, d.Config.APIRatePerMin), middleware.PolicyAPI)
	loginLimit := middleware.RateLimit(middleware.NewLimiter(d.Redis, middleware.PolicyLogin, d.Config.LoginRatePerMin), middleware.PolicyLogin)
	auth := middleware.JWTAuthMiddleware(d.Config.JWTSecret, d.Revoker)
	admin := middleware.AdminOnlyMiddleware(d.DB)

	// Operational endpoints
	r.GET("/", HelloHandler())
	r.GET("/health", HealthHandler(d.DB, d.Images, d.Redis))
	r.GET("/health/ready", ReadyHandler(d.DB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	public := r.Group("", apiLimit) // Anonymous routes, limited per client IP

	// Auth routes
	public.POST("/auth/signup", SignupHandler(d.Shop, d.Images))
	public.POST("/auth/login", loginLimit, LoginHandler(d.Shop, d.Config.JWTSecret, d.Config.JWTTTL))
	public.GET("/auth/check", CheckAvailabilityHandler(d.Shop))

	// Catalog routes
	public.GET("/game", ListGamesHandler(d.Shop))
	public.GET("/game/categories", ListCategoriesHandler(d.Shop))
	public.GET("/game/latest", LatestGameHandler(d.Shop))
	public.GET("/game/top-sellers", TopSellersHandler(d.Shop))
	public.GET("/game/search", SearchGamesHandler(d.Shop))
	public.GET("/game/:id", GetGameHandler(d.Shop))
	public.GET("/image/:filename", ServeImageHandler(d.Images))
	public.GET("/profile/:id", GetProfileHandler(d.Shop))

	user := r.Group("", auth, apiLimit) // Signed-in routes, limited per user
	user.POST("/auth/logout", LogoutHandler(d.Revoker))
	user.PUT("/profile/:id", UpdateProfileHandler(d.Shop, d.Images))

	// Cart routes
	user.GET("/cart", CartHandler(d.Shop))
	user.GET("/cart/summary", CartSummaryHandler(d.Shop))
	user.POST("/cart/:gameId", AddToCartHandler(d.Shop))
	user.DELETE("/cart/:cartItemId", RemoveFromCartHandler(d.Shop))
	user.DELETE("/cart", ClearCartHandler(d.Shop))

	// Purchase routes
	user.POST("/purchase/checkout", CheckoutHandler(d.Shop))
	user.GET("/purchase/history", PurchaseHistoryHandler(d.Shop))
	user.GET("/purchase/owned-games", OwnedGamesHandler(d.Shop))
	user.GET("/purchase/verify-ownership/:gameId", VerifyOwnershipHandler(d.Shop))

	// Wallet routes
	user.POST("/topup", TopupHandler(d.Shop))
	user.GET("/topup/history", WalletHistoryHandler(d.Shop))
	user.GET("/topup/balance", BalanceHandler(d.Shop))
	user.POST("/coupon/validate", ValidateCouponHandler(d.Shop))

	// Admin routes (protected, admin only)
	staff := r.Group("", auth, admin, apiLimit)
	staff.GET("/coupon", ListCouponsHandler(d.Shop))
	staff.GET("/coupon/:id", GetCouponHandler(d.Shop))
	staff.POST("/coupon", CreateCouponHandler(d.Shop))
	staff.PUT("/coupon/:id", UpdateCouponHandler(d.Shop))
	staff.DELETE("/coupon/:id", DeleteCouponHandler(d.Shop))
	staff.POST("/admin/game", CreateGameHandler(d.Shop, d.Images))
	staff.PUT("/admin/game/:id", UpdateGameHandler(d.Shop, d.Images))
	staff.DELETE("/admin/game/:id", DeleteGameHandler(d.Shop, d.Images))
	staff.GET("/admin/dashboard", DashboardHandler(d.Shop))
	staff.GET("/admin/transactions", ListTransactionsHandler(d.Shop))
	staff.GET("/user/all", ListUsersHandler(d.Shop))
	staff.POST("/image/upload", UploadImageHandler(d.Images))
	staff.DELETE("/image/:filename", DeleteImageHandler(d.Images))

	return r
}
