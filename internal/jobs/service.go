package jobs

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/users"
)

// Employers resolves the owner of a new job.
type Employers interface {
	Get(ctx context.Context, id string) (*users.User, error)
}

// Service implements job queries and mutations over a Repository.
type Service struct {
	repo      Repository
	employers Employers
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, employers Employers, log *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		employers: employers,
		logger:    logger.Component(log, "jobs"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source used for createdAt and updatedAt.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Create stores a new job owned by the calling employer.
func (s *Service) Create(ctx context.Context, caller users.Identity, in CreateInput) (*Job, error) {
	if !caller.IsEmployer() {
		return nil, apperr.Authorization("only employers can create jobs")
	}

	employerID := strings.TrimSpace(in.EmployerID)
	if employerID == "" {
		employerID = caller.UserID
	}
	if employerID != caller.UserID {
		return nil, apperr.Authorization("cannot create jobs for another employer")
	}

	jobType, err := normalizeCreate(&in)
	if err != nil {
		return nil, err
	}

	employer, err := s.employers.Get(ctx, employerID)
	if err != nil {
		return nil, err
	}
	if employer.Role != users.RoleEmployer {
		return nil, apperr.Authorization("user %s is not an employer", employerID)
	}

	now := s.now()
	job, err := s.repo.Insert(ctx, &Job{
		EmployerID:  employerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Field:       strings.TrimSpace(in.Field),
		Skills:      append([]string{}, in.Skills...),
		Type:        jobType,
		Location:    strings.TrimSpace(in.Location),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job created",
		zap.String("job_id", job.ID),
		zap.String("employer_id", job.EmployerID),
		zap.String("type", string(job.Type)),
	)
	return job, nil
}

// Get returns a single job.
func (s *Service) Get(ctx context.Context, id string) (*Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("job id is required")
	}
	return s.repo.Get(ctx, id)
}

// Query returns every job matching f, newest first. An empty result is not an
// error.
func (s *Service) Query(ctx context.Context, f Filter) ([]*Job, error) {
	f, err := NormalizeFilter(f)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Job{}
	}
	return list, nil
}

// Update applies patch to a job owned by the caller.
func (s *Service) Update(ctx context.Context, caller users.Identity, id string, patch Patch) (*Job, error) {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return nil, err
	}
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	job, err := s.repo.Update(ctx, id, patch, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("job updated", zap.String("job_id", job.ID))
	return job, nil
}

// Delete removes a job owned by the caller and returns its final state.
func (s *Service) Delete(ctx context.Context, caller users.Identity, id string) (*Job, error) {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return nil, err
	}

	job, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("job deleted", zap.String("job_id", job.ID))
	return job, nil
}

func (s *Service) owned(ctx context.Context, caller users.Identity, id string) (*Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsEmployer() || job.EmployerID != caller.UserID {
		return nil, apperr.Authorization("job %s belongs to another employer", id)
	}
	return job, nil
}
