package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/ai/gemini"
	"github.com/spigell/jobmatch/internal/auth"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/resume"
	"github.com/spigell/jobmatch/internal/secrets"
	"github.com/spigell/jobmatch/internal/store/memory"
	"github.com/spigell/jobmatch/internal/store/mongostore"
	"github.com/spigell/jobmatch/internal/store/redisstore"
	"github.com/spigell/jobmatch/internal/users"

	"github.com/redis/go-redis/v9"
)

const (
	backendMemory = "memory"
	backendRedis  = "redis"
	backendMongo  = "mongo"
)

// services holds the wired core of the job board and the connections behind
// it.
type services struct {
	jobs     *jobs.Service
	users    *users.Service
	sessions *auth.Sessions
	resumes  *resume.Service

	closers []func() error
	logger  *zap.Logger
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn("closing connection", zap.Error(err))
		}
	}
}

func backend(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func newServices(ctx context.Context, cfg *Config, log *zap.Logger) (_ *services, err error) {
	svc := &services{logger: log}
	defer func() {
		if err != nil {
			svc.Close()
		}
	}()

	jobsBackend := backend(cfg.Storage.Jobs)
	usersBackend := backend(cfg.Storage.Users)
	sessionsBackend := backend(cfg.Storage.Sessions)

	var rdb *redis.Client
	if jobsBackend == backendRedis || sessionsBackend == backendRedis {
		rdb, err = redisstore.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, rdb.Close)
		log.Info("connected to redis")
	}

	var db *mongo.Database
	if jobsBackend == backendMongo || usersBackend == backendMongo {
		client, cerr := mongostore.Connect(ctx, cfg.Mongo.URI)
		if cerr != nil {
			return nil, cerr
		}
		svc.closers = append(svc.closers, func() error { return mongostore.Disconnect(client) })
		db = client.Database(cfg.Mongo.Database)
		log.Info("connected to mongo", zap.String("database", cfg.Mongo.Database))
	}

	var userRepo users.Repository
	switch usersBackend {
	case backendMemory:
		userRepo = memory.NewUsers()
	case backendMongo:
		repo := mongostore.NewUsers(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		userRepo = repo
	default:
		return nil, fmt.Errorf("unsupported users storage %q", cfg.Storage.Users)
	}

	var jobRepo jobs.Repository
	switch jobsBackend {
	case backendMemory:
		jobRepo = memory.NewJobs(log)
	case backendRedis:
		jobRepo = redisstore.NewJobs(rdb, log)
	case backendMongo:
		repo := mongostore.NewJobs(db, log)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		jobRepo = repo
	default:
		return nil, fmt.Errorf("unsupported jobs storage %q", cfg.Storage.Jobs)
	}

	var sessionStore auth.Store
	switch sessionsBackend {
	case backendMemory:
		sessionStore = auth.NewMemoryStore()
	case backendRedis:
		sessionStore = auth.NewRedisStore(rdb)
	default:
		return nil, fmt.Errorf("unsupported sessions storage %q", cfg.Storage.Sessions)
	}

	svc.users = users.NewService(userRepo, log)
	svc.jobs = jobs.NewService(jobRepo, userRepo, log)
	svc.sessions = auth.NewSessions(sessionStore, cfg.Sessions.TTL, log)

	if cfg.S3.Bucket != "" {
		presigner, err := newPresigner(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		svc.resumes = resume.NewService(presigner, userRepo, log)
	} else {
		log.Warn("resume storage disabled", zap.String("hint", "set s3.bucket or JOBMATCH_S3_BUCKET"))
	}

	log.Debug("services wired",
		zap.String("jobs_storage", jobsBackend),
		zap.String("users_storage", usersBackend),
		zap.String("sessions_storage", sessionsBackend),
	)
	return svc, nil
}

func newPresigner(ctx context.Context, cfg S3Config) (*resume.S3Presigner, error) {
	s3cfg := resume.S3Config{
		Bucket:      cfg.Bucket,
		Region:      cfg.Region,
		Endpoint:    cfg.Endpoint,
		AccessKeyID: cfg.AccessKeyID,
	}

	if cfg.AccessKeyID != "" {
		secret, err := secrets.Load(secrets.Source{
			Name: "s3 secret access key",
			File: cfg.SecretAccessKeyFile,
			Env:  envPrefix + "_S3_SECRET_ACCESS_KEY",
		})
		if err != nil {
			return nil, err
		}
		s3cfg.SecretAccessKey = secret
	}

	return resume.NewS3Presigner(ctx, s3cfg)
}

func newExtractor(ctx context.Context, cfg AIConfig, log *zap.Logger) (ai.SkillExtractor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, log)
	if err != nil {
		return nil, err
	}

	extractorLogger := log.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)
	return gemini.NewExtractor(generator, extractorLogger, cfg.Gemini.MaxLogLength), nil
}
