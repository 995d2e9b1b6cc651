package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"gmailreader/internal/domain"
	"gmailreader/internal/service"
)

// MessageHandler — обработчик запросов для писем
type MessageHandler struct {
	service *service.MessageService
	log     *zap.SugaredLogger
}

// NewMessageHandler создаёт новый обработчик
func NewMessageHandler(svc *service.MessageService, log *zap.SugaredLogger) *MessageHandler {
	return &MessageHandler{service: svc, log: log}
}

// EmailsRequest — запрос списка писем
type EmailsRequest struct {
	AccessToken string `json:"accessToken"`
}

// EmailsResponse — список писем
type EmailsResponse struct {
	Success  bool                `json:"success"`
	Messages []domain.MessageRef `json:"messages"`
}

// EmailDetailsRequest — запрос содержимого письма
type EmailDetailsRequest struct {
	AccessToken string `json:"accessToken"`
	MessageID   string `json:"messageId"`
}

// EmailDetailsResponse — содержимое письма
type EmailDetailsResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Subject string `json:"subject"`
	From    string `json:"from"`
	Body    string `json:"body"` // Текст письма и вложений
}

// DeleteEmailRequest — запрос на удаление письма
type DeleteEmailRequest struct {
	AccessToken string `json:"accessToken"`
	EmailID     string `json:"emailId"`
}

// SuccessResponse — ответ без данных
type SuccessResponse struct {
	Success bool `json:"success"`
}

// List возвращает последние письма
// @Summary Список писем
// @Description Возвращает ссылки на последние письма из Gmail
// @Tags messages
// @Accept json
// @Produce json
// @Param request body EmailsRequest true "OAuth-токен"
// @Success 200 {object} EmailsResponse "Список писем"
// @Failure 500 {object} ErrorResponse "Не удалось получить письма"
// @Router /emails [post]
func (h *MessageHandler) List(c *fiber.Ctx) error {
	var req EmailsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: msgMissingParameters})
	}

	refs, err := h.service.List(c.UserContext(), req.AccessToken)
	if err != nil {
		h.log.Errorw("ошибка получения списка писем", "request_id", c.Locals("requestid"), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: msgFetchFailed})
	}

	return c.JSON(EmailsResponse{Success: true, Messages: refs})
}

// GetDetails возвращает текст письма вместе с текстом вложений
// @Summary Прочитать письмо
// @Description Возвращает тему, отправителя и текст письма вместе с текстом вложений (txt, csv, pdf, docx). Помечает письмо как прочитанное.
// @Tags messages
// @Accept json
// @Produce json
// @Param request body EmailDetailsRequest true "OAuth-токен и ID письма"
// @Success 200 {object} EmailDetailsResponse "Содержимое письма"
// @Failure 400 {object} ErrorResponse "Письмо без структуры или не хватает параметров"
// @Failure 500 {object} ErrorResponse "Не удалось прочитать письмо"
// @Router /email-details [post]
func (h *MessageHandler) GetDetails(c *fiber.Ctx) error {
	var req EmailDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: msgMissingParameters})
	}

	details, err := h.service.GetDetails(c.UserContext(), req.AccessToken, req.MessageID)
	if err != nil {
		if errors.Is(err, domain.ErrMissingParameters) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: msgMissingParameters})
		}
		if errors.Is(err, domain.ErrMalformedMessage) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: msgInvalidPayload})
		}
		h.log.Errorw("ошибка чтения письма",
			"request_id", c.Locals("requestid"),
			"message_id", req.MessageID,
			"error", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: msgReadFailed})
	}

	return c.JSON(EmailDetailsResponse{
		Success: true,
		ID:      details.ID,
		Subject: details.Subject,
		From:    details.From,
		Body:    details.Body,
	})
}

// Delete безвозвратно удаляет письмо
// @Summary Удалить письмо
// @Description Удаляет письмо из Gmail без помещения в корзину. Требует право gmail.modify.
// @Tags messages
// @Accept json
// @Produce json
// @Param request body DeleteEmailRequest true "OAuth-токен и ID письма"
// @Success 200 {object} SuccessResponse "Письмо удалено"
// @Failure 400 {object} ErrorResponse "Не хватает параметров или Gmail отклонил запрос"
// @Failure 403 {object} ErrorResponse "Нужна повторная авторизация"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /delete-email [post]
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	var req DeleteEmailRequest
	if err := c.BodyParser(&req); err != nil || req.AccessToken == "" || req.EmailID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgMissingParameters})
	}

	err := h.service.Delete(c.UserContext(), req.AccessToken, req.EmailID)
	if err == nil {
		return c.JSON(SuccessResponse{Success: true})
	}

	h.log.Errorw("ошибка удаления письма",
		"request_id", c.Locals("requestid"),
		"email_id", req.EmailID,
		"error", err,
	)

	// Любой 403 от Gmail, в том числе превышение квоты, ведёт на повторную авторизацию
	var upstream *domain.UpstreamError
	isUpstream := errors.As(err, &upstream)
	if errors.Is(err, domain.ErrPermissionDenied) || (isUpstream && upstream.Status == fiber.StatusForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   msgPermissionDenied,
			AuthURL: reauthURL,
		})
	}

	// Остальные ответы Gmail передаём клиенту как есть
	if isUpstream {
		message := upstream.Message
		if message == "" {
			message = msgDeleteFailed
		}
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: message})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
}
