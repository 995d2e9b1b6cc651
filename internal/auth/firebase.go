// Package auth проверяет ID-токены Firebase
package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"gmailreader/internal/config"
	"gmailreader/internal/domain"
)

// TokenVerifier — то, что нужно от Firebase Auth
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// Verifier проверяет ID-токены пользователей
type Verifier struct {
	tokens TokenVerifier
}

// NewFirebaseVerifier инициализирует Firebase по ключу сервисного аккаунта
// Вызывается один раз при запуске процесса
func NewFirebaseVerifier(ctx context.Context, cfg config.FirebaseConfig) (*Verifier, error) {
	var fbConfig *firebase.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("инициализация Firebase: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("клиент Firebase Auth: %w", err)
	}

	return NewVerifier(client), nil
}

// NewVerifier создаёт проверяющего поверх готового клиента
func NewVerifier(tokens TokenVerifier) *Verifier {
	return &Verifier{tokens: tokens}
}

// Verify проверяет ID-токен и возвращает данные пользователя
func (v *Verifier) Verify(ctx context.Context, idToken string) (*domain.Identity, error) {
	if idToken == "" {
		return nil, domain.ErrUnauthorized
	}

	token, err := v.tokens.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	return &domain.Identity{
		UID:     token.UID,
		Email:   claim(token.Claims, "email"),
		Name:    claim(token.Claims, "name"),
		Picture: claim(token.Claims, "picture"),
	}, nil
}

// claim достаёт строковое поле из claims токена
func claim(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
