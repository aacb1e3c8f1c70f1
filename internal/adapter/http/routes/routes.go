package routes

import (
	_ "client_portal/docs" // swag generated
	"client_portal/internal/adapter/http/handlers"
	"client_portal/internal/adapter/http/middleware"
	"client_portal/internal/config"
	"context"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

// Run will start the server
func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET is required")
	}

	setMiddlewares(cfg)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	c, err := buildComponents(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize backends: %v", err)
	}
	defer c.Close()

	getRoutes(router, cfg, c)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes(r *gin.Engine, cfg config.Config, c *components) {
	quoteHandler := handlers.NewQuoteHandler(newQuoteUseCase(cfg, c))

	v1 := r.Group("/v1")
	addPingRoutes(v1)
	addQuoteRoutes(v1, quoteHandler, middleware.Auth([]byte(cfg.JWTSecret)))
}

func setMiddlewares(cfg config.Config) {
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
	router.Use(middleware.RequestTimeout(cfg.RequestTimeout))
}
