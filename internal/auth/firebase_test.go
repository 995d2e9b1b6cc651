package auth

import (
	"context"
	"errors"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"

	"gmailreader/internal/domain"
)

type fakeTokens struct {
	token *fbauth.Token
	err   error
	seen  []string
}

func (f *fakeTokens) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	f.seen = append(f.seen, idToken)
	return f.token, f.err
}

func TestVerifier_Verify(t *testing.T) {
	tokens := &fakeTokens{token: &fbauth.Token{
		UID: "uid-1",
		Claims: map[string]interface{}{
			"email":   "alice@example.com",
			"name":    "Alice",
			"picture": "https://example.com/a.png",
		},
	}}

	identity, err := NewVerifier(tokens).Verify(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	want := domain.Identity{UID: "uid-1", Email: "alice@example.com", Name: "Alice", Picture: "https://example.com/a.png"}
	if *identity != want {
		t.Errorf("identity = %+v, want %+v", *identity, want)
	}
}

func TestVerifier_MissingClaims(t *testing.T) {
	tokens := &fakeTokens{token: &fbauth.Token{UID: "uid-2", Claims: map[string]interface{}{"email": 42}}}

	identity, err := NewVerifier(tokens).Verify(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if identity.Email != "" || identity.Name != "" {
		t.Errorf("identity = %+v, want empty claims", identity)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	tokens := &fakeTokens{err: errors.New("ID token has expired")}
	v := NewVerifier(tokens)

	if _, err := v.Verify(context.Background(), "expired"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}

	if _, err := v.Verify(context.Background(), ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("empty token: error = %v, want ErrUnauthorized", err)
	}
	if len(tokens.seen) != 1 {
		t.Errorf("empty token must not reach Firebase, seen = %v", tokens.seen)
	}
}
