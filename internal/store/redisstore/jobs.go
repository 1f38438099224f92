package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/filtering"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
)

const (
	// keyAll is a sorted set of job ids scored by insertion sequence.
	keyAll = "jobs:all"
	keySeq = "jobs:seq"
)

func keyJob(id string) string      { return "job:" + id }
func keyType(t jobs.Type) string   { return "jobs:type:" + string(t) }
func keyField(field string) string { return "jobs:field:" + field }
func keyEmployer(id string) string { return "employer:" + id + ":jobs" }

// Jobs is a jobs.Repository on top of Redis.
type Jobs struct {
	rdb    redis.UniversalClient
	logger *zap.Logger
}

var _ jobs.Repository = (*Jobs)(nil)

func NewJobs(rdb redis.UniversalClient, log *zap.Logger) *Jobs {
	return &Jobs{rdb: rdb, logger: logger.WithFields(log, zap.String("store", "redis"))}
}

func parseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation("malformed job id %q", id)
	}
	return nil
}

func unavailable(err error, op string) error {
	return apperr.Dependency(err, "redis %s", op)
}

// reindex queues the index changes moving a job from old to next. Either side
// may be nil for inserts and deletes.
func reindex(ctx context.Context, pipe redis.Pipeliner, old, next *jobs.Job) {
	if old != nil {
		pipe.SRem(ctx, keyType(old.Type), old.ID)
		pipe.SRem(ctx, keyField(old.Field), old.ID)
		pipe.SRem(ctx, keyEmployer(old.EmployerID), old.ID)
	}
	if next != nil {
		pipe.SAdd(ctx, keyType(next.Type), next.ID)
		pipe.SAdd(ctx, keyField(next.Field), next.ID)
		pipe.SAdd(ctx, keyEmployer(next.EmployerID), next.ID)
	}
}

func (s *Jobs) load(ctx context.Context, id string) (*jobs.Job, error) {
	raw, err := s.rdb.Get(ctx, keyJob(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("job %s not found", id)
	}
	if err != nil {
		return nil, unavailable(err, "get job")
	}

	var job jobs.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (s *Jobs) Insert(ctx context.Context, job *jobs.Job) (*jobs.Job, error) {
	stored := job.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode job: %w", err)
	}

	seq, err := s.rdb.Incr(ctx, keySeq).Result()
	if err != nil {
		return nil, unavailable(err, "next sequence")
	}

	exists, err := s.rdb.Exists(ctx, keyJob(stored.ID)).Result()
	if err != nil {
		return nil, unavailable(err, "check job")
	}
	if exists > 0 {
		return nil, apperr.Conflict("job %s already exists", stored.ID)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyJob(stored.ID), raw, 0)
		pipe.ZAdd(ctx, keyAll, redis.Z{Score: float64(seq), Member: stored.ID})
		reindex(ctx, pipe, nil, stored)
		return nil
	})
	if err != nil {
		return nil, unavailable(err, "store job")
	}

	return stored, nil
}

func (s *Jobs) Get(ctx context.Context, id string) (*jobs.Job, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *Jobs) Update(ctx context.Context, id string, patch jobs.Patch, at time.Time) (*jobs.Job, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(old, at)
	raw, err := json.Marshal(updated)
	if err != nil {
		return nil, fmt.Errorf("encode job: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyJob(id), raw, 0)
		reindex(ctx, pipe, old, updated)
		return nil
	})
	if err != nil {
		return nil, unavailable(err, "update job")
	}

	return updated, nil
}

func (s *Jobs) Delete(ctx context.Context, id string) (*jobs.Job, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keyJob(id))
		pipe.ZRem(ctx, keyAll, id)
		reindex(ctx, pipe, old, nil)
		return nil
	})
	if err != nil {
		return nil, unavailable(err, "delete job")
	}

	return old, nil
}

// Query intersects the facet sets for type, field and employer, loads the
// candidates in insertion order and runs the remaining facets as filtering
// steps.
func (s *Jobs) Query(ctx context.Context, f jobs.Filter) ([]*jobs.Job, error) {
	steps := filtering.ForFilter(f)

	ids, err := s.candidateIDs(ctx, f, steps)
	if err != nil {
		return nil, err
	}

	candidates, err := s.loadMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	list, err := filtering.Run(ctx, filtering.Deps{Logger: s.logger}, steps, candidates)
	if err != nil {
		return nil, err
	}

	jobs.SortNewestFirst(list)
	return list, nil
}

func (s *Jobs) candidateIDs(ctx context.Context, f jobs.Filter, steps []filtering.Filter) ([]string, error) {
	ordered, err := s.rdb.ZRange(ctx, keyAll, 0, -1).Result()
	if err != nil {
		return nil, unavailable(err, "list jobs")
	}

	var keys []string
	if f.Type != nil {
		keys = append(keys, keyType(*f.Type))
		filtering.DisableByName(steps, filtering.NameType, "resolved by index")
	}
	if f.Field != nil {
		keys = append(keys, keyField(*f.Field))
		filtering.DisableByName(steps, filtering.NameField, "resolved by index")
	}
	if f.EmployerID != nil {
		keys = append(keys, keyEmployer(*f.EmployerID))
		filtering.DisableByName(steps, filtering.NameEmployer, "resolved by index")
	}
	if len(keys) == 0 {
		return ordered, nil
	}

	members, err := s.rdb.SInter(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable(err, "intersect indexes")
	}

	allowed := make(map[string]struct{}, len(members))
	for _, id := range members {
		allowed[id] = struct{}{}
	}

	ids := make([]string, 0, len(members))
	for _, id := range ordered {
		if _, ok := allowed[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *Jobs) loadMany(ctx context.Context, ids []string) ([]*jobs.Job, error) {
	if len(ids) == 0 {
		return []*jobs.Job{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyJob(id)
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable(err, "load jobs")
	}

	out := make([]*jobs.Job, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Deleted between the index read and the load.
			continue
		}
		var job jobs.Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			s.logger.Warn("skipping undecodable job", zap.String("job_id", ids[i]), zap.Error(err))
			continue
		}
		out = append(out, &job)
	}
	return out, nil
}
