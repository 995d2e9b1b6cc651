package handler

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"

	"gmailreader/internal/service"
)

// BreakerReporter сообщает состояние предохранителя почтового API
type BreakerReporter interface {
	BreakerState() string
}

// SetupRoutes настраивает все маршруты приложения
func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	messageHandler *MessageHandler,
	stats *service.Stats,
	breaker BreakerReporter,
	publicDir string,
) {
	// Middleware
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, X-Requested-With, Content-Type, Accept",
	}))

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Страница входа
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendFile(filepath.Join(publicDir, "login.html"))
	})

	// Почта
	app.Post("/login", authHandler.Login)
	app.Post("/emails", messageHandler.List)
	app.Post("/email-details", messageHandler.GetDetails)
	app.Post("/delete-email", messageHandler.Delete)

	// Health check
	// @Summary Проверка здоровья
	// @Description Возвращает статус сервера
	// @Tags system
	// @Produce json
	// @Success 200 {object} map[string]string "Статус сервера"
	// @Router /health [get]
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Stats
	// @Summary Статистика сервиса
	// @Description Возвращает статистику работы сервиса
	// @Tags system
	// @Produce json
	// @Success 200 {object} map[string]interface{} "Статистика"
	// @Router /stats [get]
	app.Get("/stats", func(c *fiber.Ctx) error {
		s := stats.GetStats()
		return c.JSON(fiber.Map{
			"logins":              s.Logins,
			"messages_listed":     s.MessagesListed,
			"messages_read":       s.MessagesRead,
			"messages_deleted":    s.MessagesDeleted,
			"attachments_decoded": s.AttachmentsDecoded,
			"attachment_failures": s.AttachmentFailures,
			"mark_read_failures":  s.MarkReadFailures,
			"started_at":          s.StartedAt.Format("2006-01-02 15:04:05"),
			"gmail_breaker":       breaker.BreakerState(),
		})
	})

	// Остальные статические файлы (скрипты и стили страницы входа)
	app.Static("/", publicDir)
}
