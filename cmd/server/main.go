package main

import (
	"log"
	"net/http"

	"bistro/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"bistro/internal/auth"
	"bistro/internal/cache"
	"bistro/internal/config"
	"bistro/internal/db"
	"bistro/internal/handler"
	"bistro/internal/mail"
	"bistro/internal/model"
	"bistro/internal/repository"
	"bistro/internal/router"
	"bistro/internal/service"
	"bistro/internal/storage"
)

// @title Bistro Online Ordering API
// @version 1.0
// @description Restaurant online-ordering backend with cookie-based JWT authentication and role-based access control.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.FoodItem{},
		&model.Order{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	foodRepo := repository.NewFoodRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewRefreshTokenStore(cacheClient)
	resolver := auth.NewSessionResolver(jwtService, userRepo)

	// Collaborators
	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom)
	}
	imageStore := storage.NewDiskStore(cfg.MediaRoot)

	// Services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, imageStore, cacheClient)
	foodService := service.NewFoodService(foodRepo, cacheClient)
	orderService := service.NewOrderService(orderRepo, foodRepo, mailer)
	recService := service.NewRecommendationService(orderRepo, foodRepo, cacheClient)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	userHandler := handler.NewUserHandler(userService)
	foodHandler := handler.NewFoodHandler(foodService)
	orderHandler := handler.NewOrderHandler(orderService)
	recHandler := handler.NewRecommendationHandler(recService)

	router.Register(e, resolver, authHandler, userHandler, foodHandler, orderHandler, recHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
