package jobs

import (
	"fmt"
	"strings"
	"time"
)

// Type is the employment type of a job posting.
type Type string

const (
	TypeFullTime   Type = "full-time"
	TypePartTime   Type = "part-time"
	TypeContract   Type = "contract"
	TypeInternship Type = "internship"

	DefaultType = TypeFullTime
)

var allTypes = []Type{TypeFullTime, TypePartTime, TypeContract, TypeInternship}

// Types returns every valid job type.
func Types() []Type {
	return append([]Type(nil), allTypes...)
}

// ParseType converts a raw string into a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range allTypes {
		if t == valid {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown job type %q", s)
}

// Job is a single posting owned by one employer.
type Job struct {
	ID          string    `json:"id"`
	EmployerID  string    `json:"employerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Field       string    `json:"field"`
	Skills      []string  `json:"skills"`
	Type        Type      `json:"type"`
	Location    string    `json:"location,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy so callers cannot mutate stored records.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	c.Skills = append([]string(nil), j.Skills...)
	return &c
}

// CreateInput holds the caller supplied fields of a new job.
type CreateInput struct {
	EmployerID  string   `json:"employerId"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Field       string   `json:"field" binding:"required"`
	Skills      []string `json:"skills"`
	Type        string   `json:"type"`
	Location    string   `json:"location"`
}

// Patch is a partial update. Nil fields keep their previous value.
type Patch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Field       *string   `json:"field"`
	Skills      *[]string `json:"skills"`
	Type        *Type     `json:"type"`
	Location    *string   `json:"location"`
	Active      *bool     `json:"active"`
}

// IsEmpty reports whether the patch changes nothing besides updatedAt.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Field == nil && p.Skills == nil &&
		p.Type == nil && p.Location == nil && p.Active == nil
}

// Apply returns a copy of j with the patch applied and UpdatedAt set to at.
func (p Patch) Apply(j *Job, at time.Time) *Job {
	next := j.Clone()
	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
	}
	if p.Field != nil {
		next.Field = strings.TrimSpace(*p.Field)
	}
	if p.Skills != nil {
		next.Skills = append([]string(nil), (*p.Skills)...)
	}
	if p.Type != nil {
		next.Type = *p.Type
	}
	if p.Location != nil {
		next.Location = strings.TrimSpace(*p.Location)
	}
	if p.Active != nil {
		next.Active = *p.Active
	}
	next.UpdatedAt = at
	return next
}
