package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"gmailreader/internal/config"
	"gmailreader/internal/domain"
)

type fakeVerifier struct {
	identity *domain.Identity
	err      error
}

func (v *fakeVerifier) Verify(_ context.Context, _ string) (*domain.Identity, error) {
	return v.identity, v.err
}

func TestLogin(t *testing.T) {
	mb := newFakeMailbox()
	mb.refs = []domain.MessageRef{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}
	stats := NewStats()
	provider := &fakeProvider{mailbox: mb}

	svc := NewAuthService(
		&fakeVerifier{identity: &domain.Identity{UID: "u1", Email: "alice@example.com"}},
		provider,
		config.GmailConfig{LoginPreviewSize: 3},
		stats,
		zap.NewNop().Sugar(),
	)

	res, err := svc.Login(context.Background(), "id-token", "access-token")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.Identity.UID != "u1" {
		t.Errorf("UID = %q, want u1", res.Identity.UID)
	}
	if len(res.Preview) != 3 {
		t.Errorf("len(Preview) = %d, want 3", len(res.Preview))
	}
	if len(provider.tokens) != 1 || provider.tokens[0] != "access-token" {
		t.Errorf("tokens = %v", provider.tokens)
	}
	if s := stats.GetStats(); s.Logins != 1 {
		t.Errorf("Logins = %d, want 1", s.Logins)
	}
}

func TestLogin_InvalidIDToken(t *testing.T) {
	mb := newFakeMailbox()
	svc := NewAuthService(
		&fakeVerifier{err: domain.ErrUnauthorized},
		&fakeProvider{mailbox: mb},
		config.GmailConfig{LoginPreviewSize: 3},
		NewStats(),
		zap.NewNop().Sugar(),
	)

	_, err := svc.Login(context.Background(), "bad", "access-token")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if len(mb.listLimits) != 0 {
		t.Error("mailbox must not be queried when the ID token is invalid")
	}
}

func TestLogin_GmailFailure(t *testing.T) {
	mb := newFakeMailbox()
	mb.listErr = &domain.UpstreamError{Status: 401, Message: "Invalid Credentials", Kind: domain.ErrUnauthorized}
	svc := NewAuthService(
		&fakeVerifier{identity: &domain.Identity{UID: "u1"}},
		&fakeProvider{mailbox: mb},
		config.GmailConfig{LoginPreviewSize: 3},
		NewStats(),
		zap.NewNop().Sugar(),
	)

	if _, err := svc.Login(context.Background(), "id", "expired"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}
