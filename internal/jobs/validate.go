package jobs

import (
	"strings"
	"unicode/utf8"

	"github.com/spigell/jobmatch/internal/apperr"
)

type lengthRule struct {
	name     string
	min, max int
}

var (
	titleRule       = lengthRule{name: "title", min: 3, max: 200}
	descriptionRule = lengthRule{name: "description", min: 10, max: 5000}
	fieldRule       = lengthRule{name: "field", min: 2, max: 100}
	locationRule    = lengthRule{name: "location", min: 0, max: 200}
)

func (r lengthRule) check(value string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if r.min > 0 && n == 0 {
		return apperr.Validation("%s is required", r.name)
	}
	if n < r.min {
		return apperr.Validation("%s must be at least %d characters long", r.name, r.min)
	}
	if n > r.max {
		return apperr.Validation("%s must be less than %d characters", r.name, r.max)
	}
	return nil
}

// normalizeCreate validates in and returns the job type to use.
func normalizeCreate(in *CreateInput) (Type, error) {
	for _, c := range []struct {
		rule  lengthRule
		value string
	}{
		{titleRule, in.Title},
		{descriptionRule, in.Description},
		{fieldRule, in.Field},
		{locationRule, in.Location},
	} {
		if err := c.rule.check(c.value); err != nil {
			return "", err
		}
	}

	if strings.TrimSpace(in.Type) == "" {
		return DefaultType, nil
	}
	t, err := ParseType(in.Type)
	if err != nil {
		return "", apperr.Validation("%s", err.Error())
	}
	return t, nil
}

func validatePatch(p *Patch) error {
	if p.Title != nil {
		if err := titleRule.check(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := descriptionRule.check(*p.Description); err != nil {
			return err
		}
	}
	if p.Field != nil {
		if err := fieldRule.check(*p.Field); err != nil {
			return err
		}
	}
	if p.Location != nil {
		if err := locationRule.check(*p.Location); err != nil {
			return err
		}
	}
	if p.Type != nil {
		t, err := ParseType(string(*p.Type))
		if err != nil {
			return apperr.Validation("%s", err.Error())
		}
		p.Type = &t
	}
	return nil
}

// NormalizeFilter canonicalises the type facet and rejects malformed facets,
// such as an unknown job type.
func NormalizeFilter(f Filter) (Filter, error) {
	if f.Type != nil {
		t, err := ParseType(string(*f.Type))
		if err != nil {
			return f, apperr.Validation("%s", err.Error())
		}
		f.Type = &t
	}
	return f, nil
}
