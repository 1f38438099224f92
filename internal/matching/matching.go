// Package matching ranks jobs by how well their skills overlap a seeker's
// skills.
package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/skills"
)

const (
	// MinScore is exclusive: a job scoring exactly MinScore is dropped.
	MinScore         = 20
	MaxResults       = 10
	MaxMatchedSkills = 5
)

// Match is a job annotated with its score.
type Match struct {
	*jobs.Job
	MatchScore    int      `json:"matchScore"`
	MatchedSkills []string `json:"matchedSkills"`
}

// ScoreJob returns the percentage of job skills covered by seekerSkills and the
// seeker skills that matched. Jobs without skills are matched against their
// text and scored against the seeker's list instead.
func ScoreJob(seekerSkills []string, job *jobs.Job) (int, []string) {
	var matched []string
	if len(job.Skills) > 0 {
		matched = skills.Matched(seekerSkills, job.Skills)
	} else {
		matched = matchedInText(seekerSkills, job)
	}

	var denominator int
	switch {
	case len(job.Skills) > 0:
		denominator = len(job.Skills)
	case len(seekerSkills) > 0:
		denominator = len(seekerSkills)
	default:
		return 0, matched
	}

	score := int(math.Round(100 * float64(len(matched)) / float64(denominator)))
	return clamp(score, 0, 100), matched
}

// Score ranks jobs against seekerSkills. Jobs scoring MinScore or less are
// dropped, the rest are ordered by score descending with ties keeping input
// order, and at most MaxResults are returned.
func Score(seekerSkills []string, list []*jobs.Job) []Match {
	matches := make([]Match, 0, len(list))
	for _, job := range list {
		if job == nil {
			continue
		}

		score, matched := ScoreJob(seekerSkills, job)
		if score <= MinScore {
			continue
		}
		if len(matched) > MaxMatchedSkills {
			matched = matched[:MaxMatchedSkills]
		}

		matches = append(matches, Match{Job: job, MatchScore: score, MatchedSkills: matched})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches
}

func matchedInText(seekerSkills []string, job *jobs.Job) []string {
	matched := make([]string, 0, len(seekerSkills))
	for _, s := range seekerSkills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if jobs.ContainsFold(job.Title, s) || jobs.ContainsFold(job.Description, s) || jobs.ContainsFold(job.Field, s) {
			matched = append(matched, s)
		}
	}
	return matched
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
