package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain/auth"
	"staybook/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUnauthenticated    = errors.New("auth: unauthenticated")
)

// PasswordHasher abstracts the hash scheme so tests can swap in a cheap one.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (auth.Token, error)
}

// AvatarStorage stores an uploaded avatar and returns its public URL.
type AvatarStorage interface {
	PutAvatar(ctx context.Context, userID user.ID, contentType string, size int64, body io.Reader) (string, error)
}

type Service struct {
	users      user.Repository
	sessions   auth.SessionStore
	hasher     PasswordHasher
	tokens     TokenGenerator
	avatars    AvatarStorage
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

type ServiceParams struct {
	Users      user.Repository
	Sessions   auth.SessionStore
	Hasher     PasswordHasher
	Tokens     TokenGenerator
	Avatars    AvatarStorage
	SessionTTL time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

func NewService(params ServiceParams) *Service {
	if params.Users == nil || params.Sessions == nil || params.Hasher == nil || params.Tokens == nil {
		panic("auth: users, sessions, hasher and tokens are required")
	}
	ttl := params.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := params.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Service{
		users:      params.Users,
		sessions:   params.Sessions,
		hasher:     params.Hasher,
		tokens:     params.Tokens,
		avatars:    params.Avatars,
		sessionTTL: ttl,
		logger:     logger,
		now:        nowFn,
	}
}

type RegisterParams struct {
	Email    string
	Name     string
	Password string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, user.ErrEmailRequired
	}
	if existing, err := s.users.ByEmail(ctx, email); err == nil && existing != nil {
		return nil, user.ErrEmailAlreadyUsed
	} else if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}
	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	account, err := user.New(user.CreateParams{
		ID:           user.ID(uuid.NewString()),
		Email:        email,
		Name:         params.Name,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", account.ID)
	return account, nil
}

type LoginResult struct {
	User    *user.User
	Session *auth.Session
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.users.ByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.NewToken()
	if err != nil {
		return nil, err
	}
	session, err := auth.NewSession(auth.CreateSessionParams{
		Token:  token,
		UserID: account.ID,
		TTL:    s.sessionTTL,
		Now:    s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", "user_id", account.ID)
	return &LoginResult{User: account, Session: session}, nil
}

func (s *Service) Logout(ctx context.Context, token auth.Token) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// ResolveToken maps a bearer token to its user, rejecting expired or
// unknown sessions with ErrUnauthenticated.
func (s *Service) ResolveToken(ctx context.Context, token auth.Token) (*user.User, error) {
	if strings.TrimSpace(string(token)) == "" {
		return nil, ErrUnauthenticated
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrUnauthenticated
	}
	account, err := s.users.ByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return account, nil
}

// UpdateAvatar uploads the image and records its URL on the profile.
func (s *Service) UpdateAvatar(ctx context.Context, userID user.ID, contentType string, size int64, body io.Reader) (*user.User, error) {
	if s.avatars == nil {
		return nil, errors.New("auth: avatar storage not configured")
	}
	account, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.avatars.PutAvatar(ctx, userID, contentType, size, body)
	if err != nil {
		return nil, err
	}
	account.SetAvatarURL(url, s.now())
	if err := s.users.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
