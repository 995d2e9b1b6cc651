// Package gmail — доступ к почте пользователя через Gmail API
package gmail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"gmailreader/internal/config"
	"gmailreader/internal/domain"
	"gmailreader/internal/service"
)

// Client создаёт почтовые ящики Gmail по OAuth-токенам пользователей
// Один Client на процесс: предохранитель общий для всех запросов
type Client struct {
	cfg     config.GmailConfig
	breaker *gobreaker.CircuitBreaker
	opts    []option.ClientOption // Дополнительные опции (адрес API, HTTP-клиент)
	log     *zap.SugaredLogger
}

// NewClient создаёт новый клиент Gmail API
func NewClient(cfg config.GmailConfig, log *zap.SugaredLogger, opts ...option.ClientOption) *Client {
	settings := gobreaker.Settings{
		Name:        "gmail-api",
		MaxRequests: 3,                // Запросов в полуоткрытом состоянии
		Interval:    60 * time.Second, // Сброс счётчиков в закрытом состоянии
		Timeout:     30 * time.Second, // Сколько держать предохранитель открытым
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		// Ошибки клиента (4xx) считаются успешными вызовами: сервис отвечает
		IsSuccessful: func(err error) bool {
			var ce *clientError
			return err == nil || errors.As(err, &ce)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("предохранитель сменил состояние", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker(settings),
		opts:    opts,
		log:     log,
	}
}

// Mailbox открывает ящик пользователя с указанным токеном доступа
func (c *Client) Mailbox(ctx context.Context, accessToken string) (service.Mailbox, error) {
	if accessToken == "" {
		return nil, domain.ErrUnauthorized
	}

	// Токен только на время запроса, без обновления
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})

	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, c.opts...)
	svc, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("создание клиента Gmail: %w", err)
	}

	return &mailbox{client: c, svc: svc}, nil
}

// BreakerState возвращает состояние предохранителя для /stats
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// execute выполняет вызов API под предохранителем
// Ошибки клиента (4xx) не размыкают предохранитель
func (c *Client) execute(op string, fn func() error) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		err := fn()
		if err == nil {
			return nil, nil
		}

		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case 400, 401, 403, 404:
				return nil, &clientError{err: err}
			}
		}
		return nil, err
	})

	var ce *clientError
	if errors.As(err, &ce) {
		return ce.err
	}

	if err != nil {
		c.log.Warnw("ошибка вызова Gmail API",
			"operation", op,
			"breaker", c.breaker.State().String(),
			"error", err,
		)
	}

	return err
}

// clientError — ошибка, которая не должна размыкать предохранитель
type clientError struct {
	err error
}

func (e *clientError) Error() string {
	return e.err.Error()
}

// wrapError переводит ошибку Gmail API в ошибку предметной области
func wrapError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrUpstreamUnavailable, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", op, &domain.UpstreamError{
			Status:  apiErr.Code,
			Message: apiErr.Message,
			Kind:    errorKind(apiErr),
		})
	}

	return fmt.Errorf("%s: %w: %v", op, domain.ErrUpstreamUnavailable, err)
}

// errorKind определяет категорию ошибки по HTTP-коду
func errorKind(apiErr *googleapi.Error) error {
	switch {
	case apiErr.Code == 401:
		return domain.ErrUnauthorized
	case apiErr.Code == 403 && isRateLimit(apiErr):
		return domain.ErrUpstreamUnavailable
	case apiErr.Code == 403:
		return domain.ErrPermissionDenied
	case apiErr.Code == 404:
		return domain.ErrMessageNotFound
	case apiErr.Code == 429, apiErr.Code >= 500:
		return domain.ErrUpstreamUnavailable
	default:
		return domain.ErrUpstreamRejected
	}
}

func isRateLimit(apiErr *googleapi.Error) bool {
	for _, item := range apiErr.Errors {
		if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
			return true
		}
	}
	return false
}
