// Package memory keeps jobs and users in process memory. It backs tests, the
// CLI and single-node deployments without external stores.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/filtering"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
)

type index map[string]map[string]struct{}

func (ix index) add(key, id string) {
	if key == "" {
		return
	}
	set, ok := ix[key]
	if !ok {
		set = make(map[string]struct{})
		ix[key] = set
	}
	set[id] = struct{}{}
}

func (ix index) remove(key, id string) {
	set, ok := ix[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(ix, key)
	}
}

// Jobs is a jobs.Repository with facet indexes on type, field and employer.
type Jobs struct {
	mu      sync.RWMutex
	records map[string]*jobs.Job
	// seq keeps insertion order for stable ties on createdAt.
	seq        map[string]uint64
	next       uint64
	byType     index
	byField    index
	byEmployer index
	logger     *zap.Logger
}

var _ jobs.Repository = (*Jobs)(nil)

func NewJobs(log *zap.Logger) *Jobs {
	return &Jobs{
		records:    make(map[string]*jobs.Job),
		seq:        make(map[string]uint64),
		byType:     make(index),
		byField:    make(index),
		byEmployer: make(index),
		logger:     logger.WithFields(log, zap.String("store", "memory")),
	}
}

func parseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation("malformed job id %q", id)
	}
	return nil
}

// reindex moves the index entries of a job from old to next. Either side may
// be nil for inserts and deletes.
func (s *Jobs) reindex(old, next *jobs.Job) {
	if old != nil {
		s.byType.remove(string(old.Type), old.ID)
		s.byField.remove(old.Field, old.ID)
		s.byEmployer.remove(old.EmployerID, old.ID)
	}
	if next != nil {
		s.byType.add(string(next.Type), next.ID)
		s.byField.add(next.Field, next.ID)
		s.byEmployer.add(next.EmployerID, next.ID)
	}
}

func (s *Jobs) Insert(_ context.Context, job *jobs.Job) (*jobs.Job, error) {
	stored := job.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[stored.ID]; exists {
		return nil, apperr.Conflict("job %s already exists", stored.ID)
	}
	s.records[stored.ID] = stored
	s.next++
	s.seq[stored.ID] = s.next
	s.reindex(nil, stored)

	return stored.Clone(), nil
}

func (s *Jobs) Get(_ context.Context, id string) (*jobs.Job, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.records[id]
	if !ok {
		return nil, apperr.NotFound("job %s not found", id)
	}
	return job.Clone(), nil
}

func (s *Jobs) Update(_ context.Context, id string, patch jobs.Patch, at time.Time) (*jobs.Job, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.records[id]
	if !ok {
		return nil, apperr.NotFound("job %s not found", id)
	}

	updated := patch.Apply(old, at)
	s.records[id] = updated
	s.reindex(old, updated)

	return updated.Clone(), nil
}

func (s *Jobs) Delete(_ context.Context, id string) (*jobs.Job, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.records[id]
	if !ok {
		return nil, apperr.NotFound("job %s not found", id)
	}

	delete(s.records, id)
	delete(s.seq, id)
	s.reindex(old, nil)

	return old, nil
}

// Query narrows candidates with the facet indexes and runs the remaining
// facets as filtering steps.
func (s *Jobs) Query(ctx context.Context, f jobs.Filter) ([]*jobs.Job, error) {
	steps := filtering.ForFilter(f)

	s.mu.RLock()
	candidates := s.candidates(f, steps)
	s.mu.RUnlock()

	list, err := filtering.Run(ctx, filtering.Deps{Logger: s.logger}, steps, candidates)
	if err != nil {
		return nil, err
	}

	jobs.SortNewestFirst(list)
	return list, nil
}

// candidates must be called with the read lock held. Indexed facets are
// disabled in steps once resolved.
func (s *Jobs) candidates(f jobs.Filter, steps []filtering.Filter) []*jobs.Job {
	var sets []map[string]struct{}
	if f.Type != nil {
		sets = append(sets, s.byType[string(*f.Type)])
		filtering.DisableByName(steps, filtering.NameType, "resolved by index")
	}
	if f.Field != nil {
		sets = append(sets, s.byField[*f.Field])
		filtering.DisableByName(steps, filtering.NameField, "resolved by index")
	}
	if f.EmployerID != nil {
		sets = append(sets, s.byEmployer[*f.EmployerID])
		filtering.DisableByName(steps, filtering.NameEmployer, "resolved by index")
	}

	out := make([]*jobs.Job, 0)
	for id, job := range s.records {
		if !inAll(sets, id) {
			continue
		}
		out = append(out, job.Clone())
	}

	// Map iteration is random; restore insertion order before the stable sort.
	sort.Slice(out, func(i, j int) bool {
		return s.seq[out[i].ID] < s.seq[out[j].ID]
	})
	return out
}

func inAll(sets []map[string]struct{}, id string) bool {
	for _, set := range sets {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
