package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"ctfarena/model"
)

// Filter selects a view of the catalog. Category and Difficulty take either
// model.FilterAll or an exact enumerated value; anything else matches every
// challenge, like model.FilterAll. Aliases are resolved by utils.NormalizeCategory.
type Filter struct {
	Category   string
	Difficulty string
	Search     string
}

// AllFilter matches every challenge.
var AllFilter = Filter{Category: model.FilterAll, Difficulty: model.FilterAll}

// Query returns the challenges that satisfy all three predicates, in input order.
// It never returns nil.
func Query(challenges []model.Challenge, f Filter) []model.Challenge {
	// cases.Caser keeps state between calls and must not be shared.
	fold := cases.Fold()
	term := fold.String(f.Search)

	out := make([]model.Challenge, 0, len(challenges))
	for _, c := range challenges {
		if !matchesCategory(c, f.Category) || !matchesDifficulty(c, f.Difficulty) {
			continue
		}
		if !matchesSearch(fold, c, term) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesCategory(c model.Challenge, want string) bool {
	return !model.Category(want).Valid() || string(c.Category) == want
}

func matchesDifficulty(c model.Challenge, want string) bool {
	return !model.Difficulty(want).Valid() || string(c.Difficulty) == want
}

func matchesSearch(fold cases.Caser, c model.Challenge, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(fold.String(c.Title), term) || strings.Contains(fold.String(c.Description), term) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(fold.String(tag), term) {
			return true
		}
	}
	return false
}
