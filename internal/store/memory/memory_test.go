package memory

import (
	"context"
	"testing"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/store/storetest"
	"github.com/spigell/jobmatch/internal/users"
)

func TestJobs(t *testing.T) {
	storetest.RunJobs(t, func(*testing.T) jobs.Repository { return NewJobs(nil) })
}

func TestUsers(t *testing.T) {
	storetest.RunUsers(t, func(*testing.T) users.Repository { return NewUsers() })
}

func TestJobsReturnsCopies(t *testing.T) {
	t.Parallel()

	repo := NewJobs(nil)
	ctx := context.Background()

	stored, err := repo.Insert(ctx, &jobs.Job{Title: "Original", Skills: []string{"Go"}, Type: jobs.TypeFullTime})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	stored.Title = "Mutated"
	stored.Skills[0] = "Rust"

	got, err := repo.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Original" || got.Skills[0] != "Go" {
		t.Fatalf("stored job was mutated through returned value: %+v", got)
	}
}

func TestReindexDropsEmptySets(t *testing.T) {
	t.Parallel()

	repo := NewJobs(nil)
	ctx := context.Background()

	stored, err := repo.Insert(ctx, &jobs.Job{EmployerID: "e", Title: "t", Field: "Data", Type: jobs.TypeContract})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.Update(ctx, stored.ID, jobs.Patch{Field: jobs.Ptr("Ops")}, stored.CreatedAt); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, ok := repo.byField["Data"]; ok {
		t.Fatalf("stale field index entry left behind")
	}
	if _, ok := repo.byField["Ops"][stored.ID]; !ok {
		t.Fatalf("job missing from new field index")
	}
}
