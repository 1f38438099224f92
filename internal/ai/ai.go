// Package ai declares the language model capabilities the job board relies on.
package ai

import "context"

// SkillExtractor reads free-form resume text and lists the skills it mentions.
// Implementations return skills trimmed and deduplicated ignoring case, and
// report provider failures as dependency errors.
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, text string) ([]string, error)
}
