package users

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/logger"
)

const (
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
	minNameLength    = 2
	maxNameLength    = 100
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

	errInvalidCredentials = apperr.Unauthenticated("invalid email or password")
)

// SignupInput is the payload of a new account.
type SignupInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"userType" binding:"required"`
}

type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
	cost   int
}

type Option func(*Service)

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger.Component(log, "users"),
		now:    func() time.Time { return time.Now().UTC() },
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup validates in and creates a new account.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*User, error) {
	email := NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	if err := validateSignup(email, in.Password, name); err != nil {
		return nil, err
	}
	role, err := ParseRole(in.Role)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "hash password")
	}

	user, err := s.repo.Insert(ctx, &User{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login returns the user owning email when password matches.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperr.Validation("email and password must be provided")
	}

	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errInvalidCredentials
		}
		return nil, apperr.Wrap(apperr.KindInternal, err, "compare password")
	}

	return user, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("user id is required")
	}
	return s.repo.Get(ctx, id)
}

// SetResume records the resume stored for the user.
func (s *Service) SetResume(ctx context.Context, id string, ref *ResumeRef) error {
	return s.repo.SetResume(ctx, id, ref)
}

func validateSignup(email, password, name string) error {
	switch {
	case email == "":
		return apperr.Validation("email is required")
	case !emailPattern.MatchString(email):
		return apperr.Validation("please enter a valid email address")
	case utf8.RuneCountInString(password) < minPasswordLength:
		return apperr.Validation("password must be at least %d characters long", minPasswordLength)
	case len(password) > maxPasswordBytes:
		return apperr.Validation("password must be at most %d bytes", maxPasswordBytes)
	case utf8.RuneCountInString(name) < minNameLength:
		return apperr.Validation("name must be at least %d characters long", minNameLength)
	case utf8.RuneCountInString(name) > maxNameLength:
		return apperr.Validation("name must be less than %d characters", maxNameLength)
	case !namePattern.MatchString(name):
		return apperr.Validation("name can only contain letters, spaces, hyphens, and apostrophes")
	}
	return nil
}
