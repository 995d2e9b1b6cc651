package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gmailreader/internal/config"
	"gmailreader/internal/domain"
)

// AuthService — вход пользователя
type AuthService struct {
	verifier  IdentityVerifier
	mailboxes MailboxProvider
	gmail     config.GmailConfig
	stats     *Stats
	log       *zap.SugaredLogger
}

// NewAuthService создаёт новый сервис
func NewAuthService(
	verifier IdentityVerifier,
	mailboxes MailboxProvider,
	gmailCfg config.GmailConfig,
	stats *Stats,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		verifier:  verifier,
		mailboxes: mailboxes,
		gmail:     gmailCfg,
		stats:     stats,
		log:       log,
	}
}

// LoginResult — пользователь и несколько последних писем
type LoginResult struct {
	Identity *domain.Identity
	Preview  []domain.MessageRef
}

// Login проверяет ID-токен и убеждается, что OAuth-токен даёт доступ к почте
func (s *AuthService) Login(ctx context.Context, idToken, accessToken string) (*LoginResult, error) {
	if idToken == "" || accessToken == "" {
		return nil, domain.ErrMissingParameters
	}

	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("проверка ID-токена: %w", err)
	}

	s.log.Infow("пользователь вошёл", "uid", identity.UID, "email", identity.Email)

	mailbox, err := s.mailboxes.Mailbox(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	preview, err := mailbox.ListMessages(ctx, s.gmail.LoginPreviewSize)
	if err != nil {
		return nil, fmt.Errorf("превью писем: %w", err)
	}

	s.stats.IncrementLogins()
	return &LoginResult{
		Identity: identity,
		Preview:  preview,
	}, nil
}
