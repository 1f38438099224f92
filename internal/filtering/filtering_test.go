package filtering

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/jobmatch/internal/jobs"
)

func fixtureJobs() []*jobs.Job {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*jobs.Job{
		{
			ID: "1", EmployerID: "e1", Title: "Frontend Engineer", Description: "Build UI in React",
			Field: "Engineering", Skills: []string{"React.js", "TypeScript"}, Type: jobs.TypeFullTime,
			Location: "New York, NY", Active: true, CreatedAt: base,
		},
		{
			ID: "2", EmployerID: "e2", Title: "Data Analyst", Description: "SQL dashboards",
			Field: "Data", Skills: []string{"SQL", "Python"}, Type: jobs.TypeContract,
			Location: "Remote", Active: false, CreatedAt: base.Add(time.Hour),
		},
		{
			ID: "3", EmployerID: "e1", Title: "Backend Engineer", Description: "Go services",
			Field: "Engineering", Skills: []string{"Go", "PostgreSQL"}, Type: jobs.TypeFullTime,
			Active: true, CreatedAt: base.Add(2 * time.Hour),
		},
	}
}

func ids(list []*jobs.Job) []string {
	out := make([]string, 0, len(list))
	for _, j := range list {
		out = append(out, j.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunFacets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter jobs.Filter
		want   []string
	}{
		{name: "no facets", filter: jobs.Filter{}, want: []string{"1", "2", "3"}},
		{name: "type", filter: jobs.Filter{Type: jobs.Ptr(jobs.TypeContract)}, want: []string{"2"}},
		{name: "field", filter: jobs.Filter{Field: jobs.Ptr("Engineering")}, want: []string{"1", "3"}},
		{name: "field is exact", filter: jobs.Filter{Field: jobs.Ptr("engineering")}, want: []string{}},
		{name: "employer", filter: jobs.Filter{EmployerID: jobs.Ptr("e1")}, want: []string{"1", "3"}},
		{name: "inactive", filter: jobs.Filter{Active: jobs.Ptr(false)}, want: []string{"2"}},
		{name: "location ignores case", filter: jobs.Filter{Location: jobs.Ptr("new york")}, want: []string{"1"}},
		{name: "missing location never matches", filter: jobs.Filter{Location: jobs.Ptr("e")}, want: []string{"1", "2"}},
		{name: "search title", filter: jobs.Filter{SearchTerm: jobs.Ptr("engineer")}, want: []string{"1", "3"}},
		{name: "search description", filter: jobs.Filter{SearchTerm: jobs.Ptr("DASHBOARDS")}, want: []string{"2"}},
		{name: "skill contained in job skill", filter: jobs.Filter{Skills: []string{"react"}}, want: []string{"1"}},
		{name: "job skill contained in skill", filter: jobs.Filter{Skills: []string{"ReactJS.Native"}}, want: []string{}},
		{name: "every skill required", filter: jobs.Filter{Skills: []string{"sql", "python"}}, want: []string{"2"}},
		{name: "sql overlaps postgresql", filter: jobs.Filter{Skills: []string{"sql"}}, want: []string{"2", "3"}},
		{
			name:   "facets are combined",
			filter: jobs.Filter{EmployerID: jobs.Ptr("e1"), Active: jobs.Ptr(true), SearchTerm: jobs.Ptr("go")},
			want:   []string{"3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Run(context.Background(), Deps{}, ForFilter(tt.filter), fixtureJobs())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalIDs(ids(got), tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, ids(got))
			}
		})
	}
}

func TestSkillsFacetIsSymmetric(t *testing.T) {
	t.Parallel()

	list := []*jobs.Job{
		{ID: "a", Skills: []string{"ReactJS"}},
		{ID: "b", Skills: []string{"react"}},
	}

	got, err := Run(context.Background(), Deps{}, []Filter{NewSkills([]string{"react"})}, list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(got), []string{"a", "b"}) {
		t.Fatalf("facet react: got %v", ids(got))
	}

	got, err = Run(context.Background(), Deps{}, []Filter{NewSkills([]string{"ReactJS"})}, list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(got), []string{"a", "b"}) {
		t.Fatalf("facet ReactJS: got %v", ids(got))
	}
}

func TestRunLogsSteps(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	steps := ForFilter(jobs.Filter{Type: jobs.Ptr(jobs.TypeFullTime), Active: jobs.Ptr(true)})
	DisableByName(steps, NameType, "resolved by index")

	got, err := Run(context.Background(), Deps{Logger: logger}, steps, fixtureJobs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(got))
	}

	disabled := observed.FilterMessage("filter disabled").All()
	if len(disabled) != 1 || disabled[0].ContextMap()["name"] != NameType {
		t.Fatalf("expected type step to be reported as disabled, got %+v", disabled)
	}

	applied := observed.FilterMessage("filter step").All()
	if len(applied) != 1 {
		t.Fatalf("expected 1 applied step, got %d", len(applied))
	}
	fields := applied[0].ContextMap()
	if fields["name"] != NameActive || fields["initial"] != int64(3) || fields["dropped"] != int64(1) || fields["left"] != int64(2) {
		t.Fatalf("unexpected step fields: %+v", fields)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, Deps{}, ForFilter(jobs.Filter{Active: jobs.Ptr(true)}), fixtureJobs()); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	steps := ForFilter(jobs.Filter{Field: jobs.Ptr("Data"), Skills: []string{" go ", "GO", "sql"}})
	DisableByName(steps, NameField, "resolved by index")

	statuses := Describe(steps)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Enabled || statuses[0].Reason != "resolved by index" {
		t.Fatalf("unexpected field status: %+v", statuses[0])
	}
	if statuses[1].Details["value"] != "go,sql" {
		t.Fatalf("expected normalised skills, got %q", statuses[1].Details["value"])
	}
}
