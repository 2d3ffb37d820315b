package memory

import (
	"context"
	"strings"
	"sync"

	"staybook/internal/domain/auth"
	"staybook/internal/domain/user"
)

type UserRepository struct{ store *Store }

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) ByID(_ context.Context, id user.ID) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	row, ok := r.store.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := row
	return &copied, nil
}

func (r *UserRepository) ByEmail(_ context.Context, email string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.emails[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, user.ErrNotFound
	}
	row := r.store.users[id]
	copied := row
	return &copied, nil
}

func (r *UserRepository) Save(_ context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if owner, taken := r.store.emails[u.Email]; taken && owner != u.ID {
		return user.ErrEmailAlreadyUsed
	}
	if prev, ok := r.store.users[u.ID]; ok && prev.Email != u.Email {
		delete(r.store.emails, prev.Email)
	}
	r.store.users[u.ID] = *u
	r.store.emails[u.Email] = u.ID
	return nil
}

// SessionStore keeps bearer sessions in process memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[auth.Token]auth.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[auth.Token]auth.Session)}
}

func (s *SessionStore) Save(_ context.Context, session *auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = *session
	return nil
}

func (s *SessionStore) Get(_ context.Context, token auth.Token) (*auth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.sessions[token]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	copied := row
	return &copied, nil
}

func (s *SessionStore) Delete(_ context.Context, token auth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return auth.ErrSessionNotFound
	}
	delete(s.sessions, token)
	return nil
}

func (s *SessionStore) DeleteByUser(_ context.Context, userID user.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}
