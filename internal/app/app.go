package app

import (
	"fmt"
	"log"
	"time"

	"taskforge/internal/config"
	"taskforge/internal/db"
	"taskforge/internal/handlers"
	"taskforge/internal/pdf"
	"taskforge/internal/repositories"
	"taskforge/internal/routes"
	"taskforge/internal/services"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "taskforge/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(database)
	taskRepo := repositories.NewTaskRepository(database)
	commentRepo := repositories.NewCommentRepository(database)
	fileRepo := repositories.NewFileRepository(database)
	analyticsRepo := repositories.NewAnalyticsRepository(database)

	// === Services ===
	signingKey := []byte(cfg.Auth.SigningKey)
	authService := services.NewAuthService(signingKey, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	// Почта опциональна: без smtp_host письма просто не шлём
	var emailService services.EmailService
	if cfg.Email.SMTPHost != "" {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}

	userService := services.NewUserService(userRepo, authService, emailService)
	taskService := services.NewTaskService(taskRepo)
	commentService := services.NewCommentService(commentRepo, taskRepo)
	fileService := services.NewFileService(fileRepo, taskRepo, cfg.Files.RootDir)
	analyticsService := services.NewAnalyticsService(analyticsRepo)

	// Незавершённые загрузки прошлого запуска
	if err := fileService.SweepStaging(); err != nil {
		log.Printf("[files][sweep][err] %v", err)
	}

	pdfGen := pdf.NewReportGenerator()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	fileHandler := handlers.NewFileHandler(fileService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, userService, pdfGen)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		signingKey,
		authHandler,
		taskHandler,
		commentHandler,
		fileHandler,
		analyticsHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
