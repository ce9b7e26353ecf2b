package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TiredBeer/tgBot/internal/bot"
	"github.com/TiredBeer/tgBot/internal/config"
	"github.com/TiredBeer/tgBot/internal/handlers"
	"github.com/TiredBeer/tgBot/internal/repository"
	"github.com/TiredBeer/tgBot/internal/services"
	"github.com/TiredBeer/tgBot/pkg/database"
	"github.com/TiredBeer/tgBot/pkg/storage"
	"github.com/TiredBeer/tgBot/pkg/telegram"
)

func main() {
	ctx := context.Background()

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Подключаемся к базе данных
	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Инициализируем объектное хранилище
	store, err := storage.NewB2Storage(ctx, cfg.B2AccountID, cfg.B2AppKey, cfg.B2BucketName)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Инициализируем Telegram бота
	telegramBot, err := telegram.NewBot(cfg.TelegramBotToken, cfg.TelegramWebhookURL)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram bot: %v", err)
	}

	// Устанавливаем команды бота
	if err := telegramBot.SetCommands(); err != nil {
		log.Printf("Failed to set bot commands: %v", err)
	}

	// Создаем репозитории
	studentRepo := repository.NewStudentRepository(db.DB)
	taskRepo := repository.NewTaskRepository(db.DB)
	submissionRepo := repository.NewSubmissionRepository(db.DB)
	changeRepo := repository.NewChangeRepository(db.DB)
	teacherRepo := repository.NewTeacherRepository(db.DB)

	// Создаем сервисы
	authService := services.NewAuthService(studentRepo, teacherRepo, cfg.JWTSecret, cfg.JWTExpiration)
	submissionService := services.NewSubmissionService(submissionRepo, store)
	reviewService := services.NewReviewService(submissionRepo, changeRepo)
	alertService := services.NewAlertService(changeRepo, telegramBot, cfg.AlertInterval, cfg.AlertBatch)

	// Создаем машину состояний
	stateMachine := bot.New(telegramBot, authService, submissionService, studentRepo, taskRepo)

	// Запускаем рассыльщик уведомлений о проверенных работах
	go alertService.Run(ctx)

	// Источник обновлений: webhook если задан URL, иначе long polling
	if cfg.TelegramWebhookURL != "" {
		if err := telegramBot.SetWebhook(); err != nil {
			log.Printf("Failed to set webhook: %v", err)
		}
	} else {
		go stateMachine.Run(ctx, telegramBot.GetUpdates())
	}

	// Создаем обработчики API проверки
	reviewHandler := handlers.NewReviewHandler(authService, reviewService)
	webhookHandler := handlers.NewWebhookHandler(stateMachine)

	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/webhook", webhookHandler.Handle)

	api := router.Group("/api")
	{
		api.POST("/auth/login", reviewHandler.Login)

		protected := api.Group("/")
		protected.Use(handlers.AuthMiddleware(authService))
		{
			protected.GET("/submissions/pending", reviewHandler.ListPending)
			protected.POST("/submissions/:id/review", reviewHandler.Review)
		}
	}

	// Запускаем сервер
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Printf("Starting homework bot server on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
