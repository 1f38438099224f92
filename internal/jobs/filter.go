package jobs

import (
	"sort"
	"strings"
)

// Filter is a set of optional facets. A nil facet (or empty Skills) places no
// constraint on that dimension.
type Filter struct {
	Type       *Type    `json:"type,omitempty"`
	Field      *string  `json:"field,omitempty"`
	EmployerID *string  `json:"employerId,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Location   *string  `json:"location,omitempty"`
	Active     *bool    `json:"active,omitempty"`
	SearchTerm *string  `json:"searchTerm,omitempty"`
}

// IsEmpty reports whether the filter has no facet set.
func (f Filter) IsEmpty() bool {
	return f.Type == nil && f.Field == nil && f.EmployerID == nil && len(f.Skills) == 0 &&
		f.Location == nil && f.Active == nil && f.SearchTerm == nil
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// SortNewestFirst orders jobs by creation time descending. Equal timestamps
// keep their relative order.
func SortNewestFirst(list []*Job) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

// Ptr is a small helper for building filters and patches.
func Ptr[T any](v T) *T { return &v }
