package api

import (
	"net/http"      // HTTP status codes
	"path/filepath" // Upload folder

	"ecommerce_api/internal/middleware" // Custom package for middleware
	"ecommerce_api/internal/repository" // Persistence
	"ecommerce_api/internal/service"    // Auth and file services
	"ecommerce_api/internal/utils"      // Token settings

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
	"github.com/redis/go-redis/v9"                            // Redis client
	"gorm.io/gorm"                                            // GORM ORM library
)

// Dependencies is everything the router hands to its handlers
type Dependencies struct {
	DB             *gorm.DB
	Redis          *redis.Client // nil disables response caching
	Categories     repository.CategoryRepository
	Products       repository.ProductRepository
	Users          repository.UserRepository
	Auth           *service.AuthService
	Files          *service.FileService
	Tokens         utils.TokenOptions
	RateLimitRPS   float64
	RateLimitBurst int
	TrustedProxies []string
}

// NewRouter builds the gin engine with every route mounted at the root and under
// /api/v1 and /api/v2. Unversioned routes behave as v1.
func NewRouter(d Dependencies) (*gin.Engine, error) {
	r := gin.New() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}
	r.MaxMultipartMemory = 8 << 20
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.RateLimit(d.RateLimitRPS, d.RateLimitBurst),
	)

	r.GET("/health", HealthHandler(d.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/"+service.ProductImagesFolder, filepath.Join(d.Files.Root(), service.ProductImagesFolder)) // Uploaded images

	mountRoutes(r.Group(""), d, 1)
	mountRoutes(r.Group("/api/v1"), d, 1)
	mountRoutes(r.Group("/api/v2"), d, 2)
	return r, nil
}

func mountRoutes(g *gin.RouterGroup, d Dependencies, version int) {
	auth := middleware.JWTAuthMiddleware(d.Tokens)
	admin := middleware.AdminOnlyMiddleware()

	// Category routes, reads are anonymous and carry a cache header
	categories := g.Group("/categories")
	categories.GET("", middleware.CacheControl(middleware.Default20), GetCategoriesHandler(d.Categories, d.Redis, version >= 2))
	categories.GET("/:id", middleware.CacheControl(middleware.Default10), GetCategoryHandler(d.Categories, d.Redis))
	categories.POST("", auth, admin, CreateCategoryHandler(d.Categories, d.Redis))
	categories.PATCH("/:id", auth, admin, UpdateCategoryHandler(d.Categories, d.Redis))
	categories.DELETE("/:id", auth, admin, DeleteCategoryHandler(d.Categories, d.Redis))

	// Product routes
	products := g.Group("/products")
	products.GET("", GetProductsHandler(d.Products))
	products.GET("/Paged", GetProductsInPageHandler(d.Products, d.Redis))
	products.GET("/search/category/:id", auth, admin, GetProductsInCategoryHandler(d.Products, d.Categories))
	products.GET("/search/:searchText", SearchProductsHandler(d.Products))
	products.GET("/:id", GetProductHandler(d.Products))
	products.POST("", auth, admin, CreateProductHandler(d.Products, d.Categories, d.Files, d.Redis))
	products.PATCH("/buy/:id/:quantity", auth, admin, BuyProductHandler(d.Products, d.Redis))
	products.PUT("/:id", auth, admin, UpdateProductHandler(d.Products, d.Categories, d.Files, d.Redis))
	products.DELETE("/:id", auth, admin, DeleteProductHandler(d.Products, d.Files, d.Redis))

	// User routes, registration and login are anonymous
	users := g.Group("/users")
	users.GET("", auth, admin, GetUsersHandler(d.Users))
	users.GET("/:id", auth, admin, GetUserHandler(d.Users))
	users.POST("", RegisterHandler(d.Auth))
	users.POST("/login", LoginHandler(d.Auth))
}

// HealthHandler pings the database
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
