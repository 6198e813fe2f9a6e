package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"umlforge/internal/assist"
	"umlforge/internal/database"
	"umlforge/internal/handlers"
	"umlforge/internal/realtime"
	"umlforge/internal/repositories"
	"umlforge/internal/routes"
	"umlforge/internal/services"
)

func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8000
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	if err := database.EnsureDatabaseExists(); err != nil {
		log.Fatalf("failed to ensure database exists: %v", err)
	}

	pool, err := database.Connect()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", envOr("REDIS_HOST", "localhost"), envOr("REDIS_PORT", "6379")),
	})
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis successfully")
	}

	assistClient, err := assist.NewClient(
		context.Background(),
		os.Getenv("GEMINI_API_KEY"),
		os.Getenv("GEMINI_MODEL"),
		logger,
	)
	if err != nil {
		log.Fatalf("failed to create AI client: %v", err)
	}

	hub := realtime.NewHub(logger)

	// Dependency injection
	userRepo := repositories.NewUserRepository(pool)
	projectRepo := repositories.NewProjectRepository(pool)
	diagramRepo := repositories.NewDiagramRepository(pool)
	shareRepo := repositories.NewShareRepository(pool)
	redisRepo := repositories.NewRedisRepository(rdb)

	authService := services.NewAuthService(userRepo, redisRepo)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, diagramRepo, logger)
	diagramService := services.NewDiagramService(diagramRepo, projectRepo, shareRepo, hub, logger)
	shareService := services.NewShareService(shareRepo, diagramRepo, projectRepo)
	assistService := services.NewAssistService(assistClient, diagramService)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	diagramHandler := handlers.NewDiagramHandler(diagramService, logger)
	streamHandler := handlers.NewStreamHandler(diagramService, hub, logger)
	shareHandler := handlers.NewShareHandler(shareService)
	assistHandler := handlers.NewAssistHandler(assistService)

	router := gin.Default()
	router.Use(corsMiddleware())
	routes.RegisterRoutes(router,
		authHandler,
		userHandler,
		projectHandler,
		diagramHandler,
		streamHandler,
		shareHandler,
		assistHandler,
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     router,
		IdleTimeout: time.Minute,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: the SSE stream endpoint holds connections open.
	}

	return server
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func corsMiddleware() gin.HandlerFunc {
	config := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		config.AllowOrigins = strings.Split(origins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:3000"}
	}
	config.AllowCredentials = true
	config.AddAllowHeaders("Authorization", handlers.SessionHeader)
	return cors.New(config)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
