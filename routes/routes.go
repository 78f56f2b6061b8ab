package routes

import (
	"net/http"
	"strings"
	"time"

	"devmatch/handlers"
	"devmatch/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Config struct {
	// AllowedOrigins are the browser origins allowed to send credentials.
	AllowedOrigins []string
	Tokens         middleware.TokenParser
	// AuthLimiter guards sign-up and login. Nil disables rate limiting.
	AuthLimiter middleware.Limiter
}

func SetupRouter(h *handlers.Handler, cfg Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandlerMiddleware())
	router.Use(middleware.RequestID())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", handlers.Health)
	router.GET("/api/health", handlers.Health)

	api := router.Group("/api/v1")
	auth := middleware.JWTAuthMiddleware(cfg.Tokens)

	rateLimit := func(c *gin.Context) { c.Next() }
	if cfg.AuthLimiter != nil {
		rateLimit = middleware.RateLimitMiddleware(cfg.AuthLimiter)
	}

	public := api.Group("/users")
	public.POST("/signUp", rateLimit, h.SignUp)
	public.POST("/login", rateLimit, h.Login)

	users := api.Group("/users", auth)
	users.POST("/logout", h.Logout)
	users.GET("/profile", h.GetProfile)
	users.PATCH("/updateUser", h.UpdateUser)
	users.PATCH("/resetPassword", h.ResetPassword)
	users.DELETE("/deleteUser", h.DeleteUser)
	users.POST("/uploadPhoto", h.UploadPhoto)
	users.GET("/getFeed", h.GetFeed)
	users.GET("/requests/received", h.ReceivedRequests)
	users.GET("/myConnections", h.MyConnections)

	connections := api.Group("/connections", auth)
	connections.POST("/send/:status/:toUserId", h.SendConnection)
	connections.POST("/review/:status/:requestId", h.ReviewConnection)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}
