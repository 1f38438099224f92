package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/users"
)

// Users is a users.Repository keyed by id with a unique email index.
type Users struct {
	mu      sync.RWMutex
	byID    map[string]*users.User
	byEmail map[string]string
}

var _ users.Repository = (*Users)(nil)

func NewUsers() *Users {
	return &Users{
		byID:    make(map[string]*users.User),
		byEmail: make(map[string]string),
	}
}

func cloneUser(u *users.User) *users.User {
	c := *u
	if u.Resume != nil {
		r := *u.Resume
		c.Resume = &r
	}
	return &c
}

func (s *Users) Insert(_ context.Context, u *users.User) (*users.User, error) {
	stored := cloneUser(u)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[stored.Email]; taken {
		return nil, apperr.Conflict("user with this email already exists")
	}
	s.byID[stored.ID] = stored
	s.byEmail[stored.Email] = stored.ID

	return cloneUser(stored), nil
}

func (s *Users) Get(_ context.Context, id string) (*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, apperr.NotFound("user %s not found", id)
	}
	return cloneUser(u), nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return cloneUser(s.byID[id]), nil
}

func (s *Users) SetResume(_ context.Context, id string, ref *users.ResumeRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return apperr.NotFound("user %s not found", id)
	}
	if ref == nil {
		u.Resume = nil
		return nil
	}
	r := *ref
	u.Resume = &r
	return nil
}
