// Package seed fills an empty job board with generated employers and
// postings for demos and local development.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/users"
)

const (
	DefaultEmployers = 20
	DefaultJobs      = 200
	DefaultPassword  = "password123"

	// inactiveRatio of generated jobs are closed after creation.
	inactiveRatio = 0.1
)

type Options struct {
	Employers int
	Jobs      int
	Password  string
	// Seed makes the generated data reproducible.
	Seed uint64
}

type Result struct {
	Employers []*users.User
	Jobs      []*jobs.Job
}

// Seeder creates accounts and postings through the regular services so every
// record passes the same validation and indexing as user input.
type Seeder struct {
	users  *users.Service
	jobs   *jobs.Service
	logger *zap.Logger
}

func New(userSvc *users.Service, jobSvc *jobs.Service, log *zap.Logger) *Seeder {
	return &Seeder{users: userSvc, jobs: jobSvc, logger: logger.Component(log, "seed")}
}

func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Employers <= 0 {
		opts.Employers = DefaultEmployers
	}
	if opts.Jobs < 0 {
		opts.Jobs = 0
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	res := &Result{}

	for i := 0; i < opts.Employers; i++ {
		first, last := pick(rng, firstNames), pick(rng, lastNames)
		company := companies[i%len(companies)]

		user, err := s.users.Signup(ctx, users.SignupInput{
			Email:    fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), i, domain(company)),
			Password: opts.Password,
			Name:     first + " " + last,
			Role:     string(users.RoleEmployer),
		})
		if err != nil {
			return res, fmt.Errorf("seed employer %d: %w", i, err)
		}
		res.Employers = append(res.Employers, user)
	}

	types := jobs.Types()
	for i := 0; i < opts.Jobs; i++ {
		idx := rng.IntN(len(res.Employers))
		employer := res.Employers[idx]
		company := companies[idx%len(companies)]
		field := pick(rng, fields)
		title := pick(rng, titlesByField[field])
		caller := employer.Identity()

		job, err := s.jobs.Create(ctx, caller, jobs.CreateInput{
			Title:       title,
			Description: describe(rng, title, company),
			Field:       field,
			Skills:      sample(rng, skillsByField[field], 3, 8),
			Type:        string(types[rng.IntN(len(types))]),
			Location:    pick(rng, locations),
		})
		if err != nil {
			return res, fmt.Errorf("seed job %d: %w", i, err)
		}

		if rng.Float64() < inactiveRatio {
			job, err = s.jobs.Update(ctx, caller, job.ID, jobs.Patch{Active: jobs.Ptr(false)})
			if err != nil {
				return res, fmt.Errorf("close seeded job %d: %w", i, err)
			}
		}
		res.Jobs = append(res.Jobs, job)
	}

	s.logger.Info("seeded job board",
		zap.Int("employers", len(res.Employers)),
		zap.Int("jobs", len(res.Jobs)),
	)
	return res, nil
}

func pick(rng *rand.Rand, list []string) string {
	return list[rng.IntN(len(list))]
}

// sample returns between lo and hi distinct entries of list.
func sample(rng *rand.Rand, list []string, lo, hi int) []string {
	if hi > len(list) {
		hi = len(list)
	}
	n := lo + rng.IntN(hi-lo+1)
	shuffled := append([]string(nil), list...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:n]
}

func describe(rng *rand.Rand, title, company string) string {
	return fmt.Sprintf(pick(rng, intros), title, company) + "\n\n" + pick(rng, bodies)
}

func domain(company string) string {
	return strings.ToLower(strings.ReplaceAll(company, " ", "")) + ".com"
}
