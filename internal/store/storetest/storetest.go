// Package storetest holds behaviour checks shared by every jobs.Repository
// and users.Repository adapter.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/users"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newJob(employer, title string, jobType jobs.Type, field string, created time.Time, skillList ...string) *jobs.Job {
	return &jobs.Job{
		EmployerID:  employer,
		Title:       title,
		Description: title + " wanted for a growing team",
		Field:       field,
		Skills:      skillList,
		Type:        jobType,
		Active:      true,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func mustInsert(t *testing.T, repo jobs.Repository, job *jobs.Job) *jobs.Job {
	t.Helper()
	stored, err := repo.Insert(context.Background(), job)
	if err != nil {
		t.Fatalf("insert %q: %v", job.Title, err)
	}
	if stored.ID == "" {
		t.Fatalf("insert %q: empty id", job.Title)
	}
	return stored
}

func mustQuery(t *testing.T, repo jobs.Repository, f jobs.Filter) []*jobs.Job {
	t.Helper()
	list, err := repo.Query(context.Background(), f)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	return list
}

func titles(list []*jobs.Job) []string {
	out := make([]string, 0, len(list))
	for _, j := range list {
		out = append(out, j.Title)
	}
	return out
}

func expectTitles(t *testing.T, got []*jobs.Job, want ...string) {
	t.Helper()
	names := titles(got)
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func expectKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

// RunJobs exercises a jobs.Repository. newRepo must return an empty store.
func RunJobs(t *testing.T, newRepo func(t *testing.T) jobs.Repository) {
	t.Helper()

	t.Run("query ordering and facets", func(t *testing.T) {
		repo := newRepo(t)

		mustInsert(t, repo, newJob("emp-1", "Frontend Engineer", jobs.TypeFullTime, "Engineering", base, "ReactJS", "CSS"))
		mustInsert(t, repo, newJob("emp-2", "Data Analyst", jobs.TypeContract, "Data", base.Add(time.Hour), "SQL"))
		third := newJob("emp-1", "Backend Engineer", jobs.TypePartTime, "Engineering", base.Add(2*time.Hour), "react", "Go")
		third.Location = "New York, NY"
		mustInsert(t, repo, third)

		expectTitles(t, mustQuery(t, repo, jobs.Filter{}), "Backend Engineer", "Data Analyst", "Frontend Engineer")

		byEmployer := mustQuery(t, repo, jobs.Filter{EmployerID: jobs.Ptr("emp-1")})
		for _, j := range byEmployer {
			if j.EmployerID != "emp-1" {
				t.Fatalf("employer facet returned job of %s", j.EmployerID)
			}
		}
		expectTitles(t, byEmployer, "Backend Engineer", "Frontend Engineer")

		expectTitles(t, mustQuery(t, repo, jobs.Filter{Type: jobs.Ptr(jobs.TypeContract)}), "Data Analyst")
		expectTitles(t, mustQuery(t, repo, jobs.Filter{Field: jobs.Ptr("Engineering"), Type: jobs.Ptr(jobs.TypeFullTime)}), "Frontend Engineer")
		expectTitles(t, mustQuery(t, repo, jobs.Filter{Location: jobs.Ptr("new york")}), "Backend Engineer")
		expectTitles(t, mustQuery(t, repo, jobs.Filter{SearchTerm: jobs.Ptr("ANALYST")}), "Data Analyst")
		expectTitles(t, mustQuery(t, repo, jobs.Filter{SearchTerm: jobs.Ptr("growing")}), "Backend Engineer", "Data Analyst", "Frontend Engineer")
		expectTitles(t, mustQuery(t, repo, jobs.Filter{Skills: []string{"react"}}), "Backend Engineer", "Frontend Engineer")
		expectTitles(t, mustQuery(t, repo, jobs.Filter{Skills: []string{"ReactJS"}}), "Backend Engineer", "Frontend Engineer")
		expectTitles(t, mustQuery(t, repo, jobs.Filter{Active: jobs.Ptr(false)}))
		expectTitles(t, mustQuery(t, repo, jobs.Filter{EmployerID: jobs.Ptr("nobody")}))
	})

	t.Run("ties keep insertion order", func(t *testing.T) {
		repo := newRepo(t)

		mustInsert(t, repo, newJob("emp-1", "First", jobs.TypeFullTime, "Ops", base))
		mustInsert(t, repo, newJob("emp-1", "Second", jobs.TypeFullTime, "Ops", base))
		mustInsert(t, repo, newJob("emp-1", "Third", jobs.TypeFullTime, "Ops", base))

		expectTitles(t, mustQuery(t, repo, jobs.Filter{}), "First", "Second", "Third")
	})

	t.Run("update reindexes facets", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		job := mustInsert(t, repo, newJob("emp-1", "Contractor", jobs.TypeContract, "Data", base))

		at := base.Add(time.Minute)
		updated, err := repo.Update(ctx, job.ID, jobs.Patch{
			Type:   jobs.Ptr(jobs.TypeFullTime),
			Field:  jobs.Ptr("Engineering"),
			Active: jobs.Ptr(false),
		}, at)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Type != jobs.TypeFullTime || updated.Field != "Engineering" || updated.Active {
			t.Fatalf("patch not applied: %+v", updated)
		}
		if !updated.UpdatedAt.Equal(at) {
			t.Fatalf("expected updatedAt %v, got %v", at, updated.UpdatedAt)
		}
		if updated.Title != "Contractor" || updated.EmployerID != "emp-1" || !updated.CreatedAt.Equal(base) {
			t.Fatalf("unpatched fields changed: %+v", updated)
		}

		expectTitles(t, mustQuery(t, repo, jobs.Filter{Type: jobs.Ptr(jobs.TypeContract)}))
		expectTitles(t, mustQuery(t, repo, jobs.Filter{Field: jobs.Ptr("Data")}))
		expectTitles(t, mustQuery(t, repo, jobs.Filter{Type: jobs.Ptr(jobs.TypeFullTime)}), "Contractor")
		expectTitles(t, mustQuery(t, repo, jobs.Filter{Field: jobs.Ptr("Engineering"), Active: jobs.Ptr(false)}), "Contractor")

		got, err := repo.Get(ctx, job.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Type != jobs.TypeFullTime {
			t.Fatalf("expected stored type full-time, got %s", got.Type)
		}
	})

	t.Run("delete removes record and index entries", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		job := mustInsert(t, repo, newJob("emp-1", "Temporary", jobs.TypeInternship, "Design", base))
		mustInsert(t, repo, newJob("emp-2", "Permanent", jobs.TypeFullTime, "Design", base))

		deleted, err := repo.Delete(ctx, job.ID)
		if err != nil {
			t.Fatalf("delete: %v", err)
		}
		if deleted.ID != job.ID || deleted.Title != "Temporary" {
			t.Fatalf("expected final state of deleted job, got %+v", deleted)
		}

		_, err = repo.Get(ctx, job.ID)
		expectKind(t, err, apperr.KindNotFound)

		expectTitles(t, mustQuery(t, repo, jobs.Filter{Type: jobs.Ptr(jobs.TypeInternship)}))
		expectTitles(t, mustQuery(t, repo, jobs.Filter{EmployerID: jobs.Ptr("emp-1")}))
		expectTitles(t, mustQuery(t, repo, jobs.Filter{Field: jobs.Ptr("Design")}), "Permanent")

		_, err = repo.Delete(ctx, job.ID)
		expectKind(t, err, apperr.KindNotFound)

		_, err = repo.Update(ctx, job.ID, jobs.Patch{Title: jobs.Ptr("Back again")}, base)
		expectKind(t, err, apperr.KindNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Get(context.Background(), "not a valid id!")
		expectKind(t, err, apperr.KindValidation)
	})
}

// RunUsers exercises a users.Repository. newRepo must return an empty store.
func RunUsers(t *testing.T, newRepo func(t *testing.T) users.Repository) {
	t.Helper()

	t.Run("insert and lookup", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		stored, err := repo.Insert(ctx, &users.User{
			Email: "ada@example.com", Name: "Ada", Role: users.RoleEmployer, PasswordHash: "hash", CreatedAt: base,
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}

		byID, err := repo.Get(ctx, stored.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if byID.Email != "ada@example.com" || byID.Role != users.RoleEmployer || byID.PasswordHash != "hash" {
			t.Fatalf("unexpected user: %+v", byID)
		}

		byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
		if err != nil {
			t.Fatalf("get by email: %v", err)
		}
		if byEmail.ID != stored.ID {
			t.Fatalf("expected id %s, got %s", stored.ID, byEmail.ID)
		}

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		expectKind(t, err, apperr.KindNotFound)

		_, err = repo.Insert(ctx, &users.User{Email: "ada@example.com", Name: "Other", Role: users.RoleSeeker})
		expectKind(t, err, apperr.KindConflict)
	})

	t.Run("set resume", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		stored, err := repo.Insert(ctx, &users.User{Email: "sam@example.com", Name: "Sam", Role: users.RoleSeeker, CreatedAt: base})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}

		ref := &users.ResumeRef{Key: "resumes/x/cv.pdf", OriginalFilename: "cv.pdf", ContentType: "application/pdf", UploadedAt: base}
		if err := repo.SetResume(ctx, stored.ID, ref); err != nil {
			t.Fatalf("set resume: %v", err)
		}

		got, err := repo.Get(ctx, stored.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Resume == nil || got.Resume.Key != ref.Key || got.Resume.ContentType != ref.ContentType {
			t.Fatalf("unexpected resume: %+v", got.Resume)
		}
	})
}
