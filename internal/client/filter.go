package client

import (
	"strings"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
)

// UsedFilter is the tri-state condition filter. The zero value matches all.
type UsedFilter string

const (
	UsedAll  UsedFilter = ""
	UsedOnly UsedFilter = "used"
	NewOnly  UsedFilter = "new"
)

// Filter narrows the loaded products. Empty fields do not constrain; set
// fields are combined with AND.
type Filter struct {
	SearchTerm string
	Section    model.Section
	Used       UsedFilter
}

func (f Filter) Match(p model.Product) bool {
	if f.Section != "" && p.Section != f.Section {
		return false
	}

	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}

	switch f.Used {
	case UsedOnly:
		return p.Used
	case NewOnly:
		return !p.Used
	default:
		return true
	}
}

// Apply returns the products matching f, in their original order.
func (f Filter) Apply(products []model.Product) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// DistinctSections returns the sections used by products in first-seen order.
func DistinctSections(products []model.Product) []model.Section {
	seen := make(map[model.Section]struct{}, len(products))
	sections := make([]model.Section, 0)
	for _, p := range products {
		if _, ok := seen[p.Section]; ok {
			continue
		}
		seen[p.Section] = struct{}{}
		sections = append(sections, p.Section)
	}
	return sections
}
