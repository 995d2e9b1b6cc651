package main

// @title Gmail Reader API
// @version 1.0
// @description Чтение, список и удаление писем Gmail с извлечением текста из вложений

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /

// @schemes http https

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"gmailreader/internal/attachment"
	"gmailreader/internal/auth"
	"gmailreader/internal/config"
	"gmailreader/internal/gmail"
	"gmailreader/internal/handler"
	"gmailreader/internal/logger"
	"gmailreader/internal/service"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Ошибка загрузки конфигурации:", err)
	}

	logr, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal("Ошибка настройки логирования:", err)
	}
	defer logr.Sync()

	logr.Info("=== Gmail Reader ===")

	// Firebase инициализируется один раз на весь процесс
	ctx := context.Background()
	verifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase)
	if err != nil {
		logr.Fatalw("Ошибка инициализации Firebase", "error", err)
	}

	// Клиент Gmail и статистика
	gmailClient := gmail.NewClient(cfg.Gmail, logr)
	stats := service.NewStats()

	// Создаём сервисы
	authService := service.NewAuthService(verifier, gmailClient, cfg.Gmail, stats, logr)
	messageService := service.NewMessageService(
		gmailClient,
		attachment.NewDecoder(),
		cfg.Gmail,
		cfg.Limits,
		stats,
		logr,
	)

	// Создаём обработчики
	authHandler := handler.NewAuthHandler(authService, logr)
	messageHandler := handler.NewMessageHandler(messageService, logr)

	// Создаём Fiber-приложение
	app := fiber.New(fiber.Config{
		AppName:     "Gmail Reader API",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})

	// Настраиваем маршруты
	handler.SetupRoutes(app, authHandler, messageHandler, stats, gmailClient, cfg.Server.PublicDir)

	// Запускаем HTTP-сервер в отдельной горутине
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
		if err := app.Listen(addr); err != nil {
			logr.Errorw("HTTP-сервер остановлен", "error", err)
		}
	}()

	logr.Infof("Сервер запущен на http://localhost:%d", cfg.Server.HTTPPort)

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("Остановка сервера...")
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		logr.Errorw("Ошибка остановки сервера", "error", err)
	}
}
