package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"gmailreader/internal/domain"
	"gmailreader/internal/service"
)

// AuthHandler — обработчик входа
type AuthHandler struct {
	service *service.AuthService
	log     *zap.SugaredLogger
}

// NewAuthHandler создаёт новый обработчик
func NewAuthHandler(svc *service.AuthService, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{service: svc, log: log}
}

// LoginRequest — запрос на вход
type LoginRequest struct {
	IDToken     string `json:"idToken"`     // ID-токен Firebase
	AccessToken string `json:"accessToken"` // OAuth-токен Google с доступом к Gmail
}

// LoginResponse — ответ на успешный вход
type LoginResponse struct {
	Success      bool                `json:"success"`
	Firebase     domain.Identity     `json:"firebase"`     // Данные пользователя
	GmailPreview []domain.MessageRef `json:"gmailPreview"` // Несколько последних писем
}

// Login проверяет пользователя и доступ к почте
// @Summary Вход
// @Description Проверяет ID-токен Firebase и возвращает несколько последних писем из Gmail
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Токены пользователя"
// @Success 200 {object} LoginResponse "Пользователь и превью писем"
// @Failure 401 {object} ErrorResponse "Токен недействителен или нет доступа к Gmail"
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Message: msgLoginFailed})
	}

	res, err := h.service.Login(c.UserContext(), req.IDToken, req.AccessToken)
	if err != nil {
		h.log.Warnw("ошибка входа", "request_id", c.Locals("requestid"), "error", err)
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Message: msgLoginFailed})
	}

	return c.JSON(LoginResponse{
		Success:      true,
		Firebase:     *res.Identity,
		GmailPreview: res.Preview,
	})
}
