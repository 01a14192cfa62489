package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/bookshelf-backend/config"
	"github.com/ikkim/bookshelf-backend/internal/app/controller"
	"github.com/ikkim/bookshelf-backend/internal/metrics"
	"github.com/ikkim/bookshelf-backend/internal/middleware"
)

type Router struct {
	authController   *controller.AuthController
	bookController   *controller.BookController
	uploadController *controller.UploadController
	authMiddleware   *middleware.AuthMiddleware
	metrics          *metrics.Metrics
	config           *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	bookController *controller.BookController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	m *metrics.Metrics,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:   authController,
		bookController:   bookController,
		uploadController: uploadController,
		authMiddleware:   authMiddleware,
		metrics:          m,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware(r.metrics))
	router.Use(cors.New(corsConfig(r.config.CORS.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Bookshelf API is running",
		})
	})
	if r.metrics != nil {
		router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	auth := router.Group("/auth")
	{
		auth.POST("/signup", r.authController.Signup)
		auth.POST("/login", r.authController.Login)
		auth.POST("/forgot-password", r.authController.ForgotPassword)
		auth.GET("/reset-password/:token", r.authController.VerifyResetToken)
		auth.POST("/reset-password/:token", r.authController.ResetPassword)
		auth.GET("/verify", r.authMiddleware.Authenticate(), r.authController.Verify)
	}

	books := router.Group("/books")
	{
		books.GET("", r.bookController.ListBooks)
		books.GET("/:id", r.bookController.GetBook)
		books.POST("", r.bookController.CreateBook)
		books.PUT("/:id", r.bookController.UpdateBook)
		books.DELETE("/:id", r.bookController.DeleteBook)

		if r.uploadController != nil {
			books.POST("/cover-upload-url",
				r.authMiddleware.Authenticate(),
				r.uploadController.CreateCoverUploadURL,
			)
		}
	}
	router.POST("/book", r.bookController.CreateBook)

	return router
}

// corsConfig allows every origin when the list is empty or contains "*".
func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
		middleware.RequestIDHeader,
	}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}

	allowAll := len(allowedOrigins) == 0
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
	}

	if allowAll {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowedOrigins
	cfg.AllowCredentials = true
	return cfg
}
