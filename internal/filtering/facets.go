package filtering

import (
	"context"
	"strconv"
	"strings"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/skills"
)

// Step names, one per facet of jobs.Filter.
const (
	NameType     = "type"
	NameField    = "field"
	NameEmployer = "employer"
	NameActive   = "active"
	NameLocation = "location"
	NameSkills   = "skills"
	NameSearch   = "search"
)

// facetFilter keeps the jobs accepted by match.
type facetFilter struct {
	name     string
	value    string
	disabled bool
	reason   string
	match    func(*jobs.Job) bool
}

func (f *facetFilter) Name() string { return f.name }

func (f *facetFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *facetFilter) IsEnabled() bool { return !f.disabled }

func (f *facetFilter) Apply(_ context.Context, _ Deps, list []*jobs.Job) ([]*jobs.Job, Step, error) {
	initial := len(list)
	kept := make([]*jobs.Job, 0, initial)
	for _, job := range list {
		if f.match(job) {
			kept = append(kept, job)
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *facetFilter) Status() Status {
	return Status{
		Name:    f.name,
		Enabled: !f.disabled,
		Reason:  f.reason,
		Details: map[string]string{"value": f.value},
	}
}

// NewType keeps jobs of exactly type t.
func NewType(t jobs.Type) Filter {
	return &facetFilter{name: NameType, value: string(t), match: func(j *jobs.Job) bool {
		return j.Type == t
	}}
}

// NewField keeps jobs whose field equals field.
func NewField(field string) Filter {
	return &facetFilter{name: NameField, value: field, match: func(j *jobs.Job) bool {
		return j.Field == field
	}}
}

// NewEmployer keeps jobs owned by employerID.
func NewEmployer(employerID string) Filter {
	return &facetFilter{name: NameEmployer, value: employerID, match: func(j *jobs.Job) bool {
		return j.EmployerID == employerID
	}}
}

func NewActive(active bool) Filter {
	return &facetFilter{name: NameActive, value: strconv.FormatBool(active), match: func(j *jobs.Job) bool {
		return j.Active == active
	}}
}

// NewLocation keeps jobs whose location contains location, ignoring case. A job
// without a location never matches a non-empty facet.
func NewLocation(location string) Filter {
	location = strings.TrimSpace(location)
	return &facetFilter{name: NameLocation, value: location, match: func(j *jobs.Job) bool {
		if location == "" {
			return true
		}
		return j.Location != "" && jobs.ContainsFold(j.Location, location)
	}}
}

// NewSkills keeps jobs where every wanted skill overlaps at least one job skill.
func NewSkills(wanted []string) Filter {
	wanted = skills.Normalize(wanted)
	return &facetFilter{name: NameSkills, value: strings.Join(wanted, ","), match: func(j *jobs.Job) bool {
		for _, s := range wanted {
			if !skills.OverlapsAny(s, j.Skills) {
				return false
			}
		}
		return true
	}}
}

// NewSearch keeps jobs whose title or description contains term, ignoring case.
func NewSearch(term string) Filter {
	term = strings.TrimSpace(term)
	return &facetFilter{name: NameSearch, value: term, match: func(j *jobs.Job) bool {
		return jobs.ContainsFold(j.Title, term) || jobs.ContainsFold(j.Description, term)
	}}
}

// ForFilter builds one step per facet set on f. Cheap exact-match facets come
// first so the substring steps see fewer jobs.
func ForFilter(f jobs.Filter) []Filter {
	var steps []Filter
	if f.EmployerID != nil {
		steps = append(steps, NewEmployer(*f.EmployerID))
	}
	if f.Type != nil {
		steps = append(steps, NewType(*f.Type))
	}
	if f.Field != nil {
		steps = append(steps, NewField(*f.Field))
	}
	if f.Active != nil {
		steps = append(steps, NewActive(*f.Active))
	}
	if f.Location != nil {
		steps = append(steps, NewLocation(*f.Location))
	}
	if f.SearchTerm != nil {
		steps = append(steps, NewSearch(*f.SearchTerm))
	}
	if len(f.Skills) > 0 {
		steps = append(steps, NewSkills(f.Skills))
	}
	return steps
}
