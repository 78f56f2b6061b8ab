package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devmatch/auth"
	"devmatch/config"
	"devmatch/database"
	"devmatch/handlers"
	"devmatch/media"
	"devmatch/middleware"
	"devmatch/routes"
	"devmatch/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	log.Println("Starting devmatch API...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	log.Printf("Running in %s mode", gin.Mode())

	ctx := context.Background()

	store, client, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open storage: ", err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			log.Println("MongoDB disconnect error:", err)
		}
	}()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	opts := handlers.Options{
		Users:          services.NewUserService(store, hasher, tokens),
		Connections:    services.NewConnectionService(store, store),
		Feed:           services.NewFeedService(store, store),
		TokenTTL:       tokens.TTL(),
		SecureCookie:   cfg.CookieSecure,
		RequestTimeout: cfg.RequestTimeout,
	}
	if uploader, err := media.NewCloudinaryUploader(cfg.CloudinaryURL); err == nil {
		opts.Photos = uploader
		log.Println("Photo uploads enabled")
	} else if !errors.Is(err, media.ErrNotConfigured) {
		log.Fatal("Cloudinary setup failed: ", err)
	} else {
		log.Println("CLOUDINARY_URL not set, photo uploads disabled")
	}

	limiter, closeLimiter := newAuthLimiter(ctx, cfg)
	defer closeLimiter()

	router := routes.SetupRouter(handlers.New(opts), routes.Config{
		AllowedOrigins: cfg.ClientURLs,
		Tokens:         tokens,
		AuthLimiter:    limiter,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown:", err)
	}

	log.Println("Server stopped gracefully")
}

// openStore returns the configured storage. The Mongo client is nil for the
// memory driver.
func openStore(ctx context.Context, cfg *config.Config) (database.Store, *mongo.Client, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Println("Using in-memory storage, data will not survive a restart")
		return database.NewMemoryStore(), nil, nil
	}

	log.Println("Connecting to MongoDB...")
	client, err := database.ConnectWithRetry(ctx, cfg.MongoURI, 3, 2*time.Second)
	if err != nil {
		return nil, nil, err
	}

	db := client.Database(cfg.MongoDBName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		_ = database.Disconnect(client)
		return nil, nil, err
	}
	return database.NewMongoStore(db), client, nil
}

// newAuthLimiter prefers a shared Redis limiter and falls back to an
// in-process one when Redis is not configured or not reachable.
func newAuthLimiter(ctx context.Context, cfg *config.Config) (middleware.Limiter, func()) {
	if cfg.RedisURL == "" {
		return middleware.NewIPRateLimiter(cfg.RateLimit, cfg.RateLimitWindow), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("Redis unavailable (%v), using in-memory rate limiter", err)
		_ = client.Close()
		return middleware.NewIPRateLimiter(cfg.RateLimit, cfg.RateLimitWindow), func() {}
	}

	log.Println("Redis connected, using shared rate limiter")
	return middleware.NewRedisRateLimiter(client, "devmatch:ratelimit", cfg.RateLimit, cfg.RateLimitWindow), func() {
		_ = client.Close()
	}
}
