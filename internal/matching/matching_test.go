package matching

import (
	"fmt"
	"testing"

	"github.com/spigell/jobmatch/internal/jobs"
)

func jobWithSkills(id string, skillList ...string) *jobs.Job {
	return &jobs.Job{ID: id, Skills: skillList}
}

func numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%02d", prefix, i)
	}
	return out
}

func TestScoreJob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		seeker      []string
		job         *jobs.Job
		wantScore   int
		wantMatched int
	}{
		{
			name:        "half of job skills",
			seeker:      []string{"React", "SQL"},
			job:         jobWithSkills("1", "React", "Node.js", "SQL", "AWS"),
			wantScore:   50,
			wantMatched: 2,
		},
		{
			name:        "job without skills matches its text",
			seeker:      []string{"React"},
			job:         &jobs.Job{ID: "1", Title: "Frontend developer", Description: "Work on our ReactJS app"},
			wantScore:   100,
			wantMatched: 1,
		},
		{
			name:        "job without skills scored against seeker skills",
			seeker:      []string{"react", "go", "rust", "sql"},
			job:         &jobs.Job{ID: "1", Title: "Go developer", Field: "SQL"},
			wantScore:   50,
			wantMatched: 2,
		},
		{
			name:        "both empty",
			seeker:      nil,
			job:         jobWithSkills("1"),
			wantScore:   0,
			wantMatched: 0,
		},
		{
			name:        "no seeker skills",
			seeker:      nil,
			job:         jobWithSkills("1", "Go"),
			wantScore:   0,
			wantMatched: 0,
		},
		{
			name:        "rounds half away from zero",
			seeker:      []string{"go"},
			job:         jobWithSkills("1", "Go", "Rust", "C", "Zig", "Odin", "Nim", "D", "Ada"),
			wantScore:   13,
			wantMatched: 1,
		},
		{
			name:        "clamped to 100",
			seeker:      []string{"java", "javascript", "script"},
			job:         jobWithSkills("1", "JavaScript"),
			wantScore:   100,
			wantMatched: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			score, matched := ScoreJob(tt.seeker, tt.job)
			if score != tt.wantScore {
				t.Fatalf("expected score %d, got %d", tt.wantScore, score)
			}
			if len(matched) != tt.wantMatched {
				t.Fatalf("expected %d matched skills, got %v", tt.wantMatched, matched)
			}
		})
	}
}

func TestScoreExample(t *testing.T) {
	t.Parallel()

	got := Score([]string{"React", "SQL"}, []*jobs.Job{jobWithSkills("1", "React", "Node.js", "SQL", "AWS")})
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].MatchScore != 50 {
		t.Fatalf("expected score 50, got %d", got[0].MatchScore)
	}
	if len(got[0].MatchedSkills) != 2 || got[0].MatchedSkills[0] != "React" || got[0].MatchedSkills[1] != "SQL" {
		t.Fatalf("unexpected matched skills: %v", got[0].MatchedSkills)
	}
}

func TestScoreJobWithoutSkills(t *testing.T) {
	t.Parallel()

	job := &jobs.Job{ID: "1", Title: "React developer"}

	got := Score([]string{"React"}, []*jobs.Job{job})
	if len(got) != 1 || got[0].MatchScore != 100 {
		t.Fatalf("expected a single match scoring 100, got %+v", got)
	}

	got = Score(nil, []*jobs.Job{jobWithSkills("2")})
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestScoreThreshold(t *testing.T) {
	t.Parallel()

	// 1/5 = 20 is dropped, 4/19 rounds to 21 and is kept.
	atThreshold := jobWithSkills("twenty", append([]string{"Go"}, numbered("x", 4)...)...)
	aboveThreshold := jobWithSkills("twenty-one", append([]string{"Go", "Rust", "Zig", "Nim"}, numbered("y", 15)...)...)

	got := Score([]string{"Go", "Rust", "Zig", "Nim"}, []*jobs.Job{atThreshold, aboveThreshold})
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].ID != "twenty-one" || got[0].MatchScore != 21 {
		t.Fatalf("unexpected match: %s scored %d", got[0].ID, got[0].MatchScore)
	}
}

func TestScoreOrderingAndCap(t *testing.T) {
	t.Parallel()

	seeker := []string{"Go"}
	list := make([]*jobs.Job, 0, 14)
	// Scores 100, 50, 33, 25 repeating; ties must keep input order.
	for i := 0; i < 14; i++ {
		extra := numbered(fmt.Sprintf("j%d-", i), i%4)
		list = append(list, jobWithSkills(fmt.Sprintf("job-%02d", i), append([]string{"Go"}, extra...)...))
	}

	got := Score(seeker, list)
	if len(got) != MaxResults {
		t.Fatalf("expected %d matches, got %d", MaxResults, len(got))
	}

	want := []string{"job-00", "job-04", "job-08", "job-12", "job-01", "job-05", "job-09", "job-13", "job-02", "job-06"}
	for i, m := range got {
		if m.ID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], m.ID)
		}
		if i > 0 && got[i-1].MatchScore < m.MatchScore {
			t.Fatalf("matches are not sorted by score: %d before %d", got[i-1].MatchScore, m.MatchScore)
		}
	}
}

func TestScoreTruncatesMatchedSkills(t *testing.T) {
	t.Parallel()

	seeker := []string{"Go", "Rust", "Zig", "Nim", "Odin", "Ada", "Elixir"}
	job := jobWithSkills("1", seeker...)

	got := Score(seeker, []*jobs.Job{job})
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].MatchScore != 100 {
		t.Fatalf("score must use every matched skill, got %d", got[0].MatchScore)
	}
	if len(got[0].MatchedSkills) != MaxMatchedSkills {
		t.Fatalf("expected %d matched skills, got %v", MaxMatchedSkills, got[0].MatchedSkills)
	}
	if got[0].MatchedSkills[0] != "Go" || got[0].MatchedSkills[4] != "Odin" {
		t.Fatalf("matched skills must keep seeker order, got %v", got[0].MatchedSkills)
	}
}

func TestScoreEmptyInput(t *testing.T) {
	t.Parallel()

	if got := Score([]string{"Go"}, nil); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}
