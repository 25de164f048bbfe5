package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecommerce-service/cache"
	"ecommerce-service/config"
	"ecommerce-service/consumers"
	"ecommerce-service/controllers"
	"ecommerce-service/database"
	"ecommerce-service/middlewares"
	"ecommerce-service/rabbitmq"
	"ecommerce-service/repository"
	"ecommerce-service/services"
)

func main() {
	cfg := config.LoadConfig()

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer database.CloseDB()

	userRepo := repository.NewUserRepository(database.DB)
	productRepo := repository.NewProductRepository(database.DB)
	orderRepo := repository.NewOrderRepository(database.DB)

	productCache, err := cache.NewProductCache(cfg.ProductCacheSize)
	if err != nil {
		log.Fatalf("Cache initialization failed: %v", err)
	}

	// The broker is optional: without it order events are skipped and the
	// service still takes orders.
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		rmq, err := rabbitmq.NewRabbitMQ(cfg)
		if err != nil {
			log.Fatalf("RabbitMQ initialization failed: %v", err)
		}
		defer rmq.Close()

		if err := rmq.SetupQueues(); err != nil {
			log.Fatalf("Failed to setup RabbitMQ queues: %v", err)
		}

		go consumers.StartOrderConsumer(rmq.Channel, cfg, orderRepo)
		events = rmq
	}

	orderService := services.NewOrderService(database.DB, userRepo, productRepo, orderRepo, productCache, events)
	productService := services.NewProductService(productRepo, productCache)

	orderController := controllers.NewOrderController(orderService)
	productController := controllers.NewProductController(productService)

	r := gin.Default()
	r.Use(middlewares.RequestIDMiddleware())
	r.Use(middlewares.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		orderController.RegisterRoutes(api)
		productController.RegisterRoutes(api)
	}

	log.Printf("E-commerce service starting on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
