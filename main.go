package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"groupbuy-service/auth"
	"groupbuy-service/config"
	"groupbuy-service/consumers"
	"groupbuy-service/controllers"
	"groupbuy-service/database"
	"groupbuy-service/middlewares"
	"groupbuy-service/rabbitmq"
	"groupbuy-service/services"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("Schema migration failed: %v", err)
	}

	rmq, err := rabbitmq.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("RabbitMQ initialization failed: %v", err)
	}
	defer rmq.Close()

	if err := rmq.SetupQueues(); err != nil {
		log.Fatalf("Failed to setup RabbitMQ queues: %v", err)
	}

	consumers.StartNotificationConsumer(rmq.Channel, cfg)

	tokens := auth.NewTokenService(cfg.JWTSecret)
	orderService := services.NewOrderService(db, rmq)

	authController := controllers.NewAuthController(db, tokens)
	productController := controllers.NewProductController(db)
	orderController := controllers.NewOrderController(orderService)
	warehouseController := controllers.NewWarehouseController(db)

	r := gin.Default()
	r.Use(middlewares.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/products", productController.List)
		api.GET("/products/:id", productController.Get)
		api.GET("/warehouses", warehouseController.List)

		api.POST("/auth/login", authController.StaffLogin)
		api.POST("/auth/customer-register", authController.CustomerRegister)
		api.POST("/auth/customer-login", authController.CustomerLogin)
	}

	customer := api.Group("")
	customer.Use(middlewares.AuthMiddleware(tokens), middlewares.RequireCustomer())
	{
		customer.POST("/orders", orderController.Create)
		customer.GET("/orders", orderController.ListMine)
	}

	staff := api.Group("/staff")
	staff.Use(middlewares.AuthMiddleware(tokens), middlewares.RequireOperator())
	{
		staff.GET("/orders", orderController.OperatorList)
		staff.PUT("/orders/:id", orderController.OperatorUpdate)
	}

	admin := api.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(tokens), middlewares.RequireAdmin())
	{
		admin.GET("/orders", orderController.AdminList)
		admin.PUT("/orders/:id", orderController.AdminUpdate)
		admin.GET("/dashboard", orderController.Dashboard)

		admin.POST("/products", productController.Create)
		admin.PUT("/products/:id", productController.Update)
		admin.DELETE("/products/:id", productController.Archive)
	}

	log.Printf("Group-buy service starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
