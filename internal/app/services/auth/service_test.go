package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	authsvc "staybook/internal/app/services/auth"
	domainauth "staybook/internal/domain/auth"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/storage/memory"
)

// plainHasher avoids bcrypt cost in tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type seqTokens struct{ n int }

func (g *seqTokens) NewToken() (domainauth.Token, error) {
	g.n++
	return domainauth.Token(fmt.Sprintf("tok-%d", g.n)), nil
}

func newService(t *testing.T, now func() time.Time) *authsvc.Service {
	t.Helper()
	if now == nil {
		now = time.Now
	}
	return authsvc.NewService(authsvc.ServiceParams{
		Users:      memory.NewUserRepository(memory.NewStore()),
		Sessions:   memory.NewSessionStore(),
		Hasher:     plainHasher{},
		Tokens:     &seqTokens{},
		SessionTTL: time.Hour,
		Now:        now,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)
	ctx := context.Background()

	account, err := svc.Register(ctx, authsvc.RegisterParams{
		Email:    "Ada@Example.com",
		Name:     "Ada",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if account.Email != "ada@example.com" {
		t.Errorf("email = %q, want normalized lowercase", account.Email)
	}

	result, err := svc.Login(ctx, "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Session.Token == "" {
		t.Error("login returned empty token")
	}

	resolved, err := svc.ResolveToken(ctx, result.Session.Token)
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if resolved.ID != account.ID {
		t.Errorf("resolved user = %s, want %s", resolved.ID, account.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)
	ctx := context.Background()

	params := authsvc.RegisterParams{Email: "ada@example.com", Name: "Ada", Password: "secret"}
	if _, err := svc.Register(ctx, params); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, params); !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Errorf("second register: err = %v, want ErrEmailAlreadyUsed", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, authsvc.RegisterParams{
		Email: "ada@example.com", Name: "Ada", Password: "secret",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, authsvc.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "secret"); !errors.Is(err, authsvc.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, authsvc.RegisterParams{
		Email: "ada@example.com", Name: "Ada", Password: "secret",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	result, err := svc.Login(ctx, "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, result.Session.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.ResolveToken(ctx, result.Session.Token); !errors.Is(err, authsvc.ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated after logout", err)
	}
	// repeated logout is a no-op
	if err := svc.Logout(ctx, result.Session.Token); err != nil {
		t.Errorf("second logout: %v", err)
	}
}

func TestResolveTokenExpiredSession(t *testing.T) {
	t.Parallel()

	current := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	svc := newService(t, func() time.Time { return current })
	ctx := context.Background()

	if _, err := svc.Register(ctx, authsvc.RegisterParams{
		Email: "ada@example.com", Name: "Ada", Password: "secret",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	result, err := svc.Login(ctx, "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	current = current.Add(2 * time.Hour)
	if _, err := svc.ResolveToken(ctx, result.Session.Token); !errors.Is(err, authsvc.ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated for expired session", err)
	}
}
