package gallery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rpupo63/photo-portfolio/models"
)

type FilterType string

const (
	FilterTag      FilterType = "tag"
	FilterLocation FilterType = "location"
)

// Filter is one active narrowing criterion.
type Filter struct {
	Type  FilterType `json:"type"`
	Value string     `json:"value"`
	Label string     `json:"label"`
	Count int        `json:"count"`
}

// TagFilter builds a tag filter labelled the way the tag bar shows it.
func TagFilter(name string) Filter {
	return Filter{Type: FilterTag, Value: name, Label: Capitalize(name)}
}

func LocationFilter(value string) Filter {
	return Filter{Type: FilterLocation, Value: value, Label: value}
}

// Matches reports whether a photo satisfies a single filter. Tag filters
// compare names case-insensitively; location filters match a case-insensitive
// substring of a non-null location.
func (f Filter) Matches(p *models.Photo) bool {
	switch f.Type {
	case FilterTag:
		for _, t := range p.Tags {
			if strings.EqualFold(t.Name, f.Value) {
				return true
			}
		}
		return false
	case FilterLocation:
		if p.Location == nil {
			return false
		}
		return strings.Contains(strings.ToLower(*p.Location), strings.ToLower(f.Value))
	default:
		return false
	}
}

func (f Filter) sameAs(other Filter) bool {
	return f.Type == other.Type && strings.EqualFold(f.Value, other.Value)
}

// Apply keeps the photos matching every filter. No filters keeps everything.
func Apply(photos []*models.Photo, filters []Filter) []*models.Photo {
	out := make([]*models.Photo, 0, len(photos))
	for _, p := range photos {
		if matchesAll(p, filters) {
			out = append(out, p)
		}
	}
	return out
}

func matchesAll(p *models.Photo, filters []Filter) bool {
	for _, f := range filters {
		if !f.Matches(p) {
			return false
		}
	}
	return true
}

// AddFilter appends f. Duplicates are not rejected here; callers that care
// use Suggest, which never proposes an active value.
func AddFilter(filters []Filter, f Filter) []Filter {
	out := make([]Filter, 0, len(filters)+1)
	out = append(out, filters...)
	return append(out, f)
}

// RemoveFilter drops the filter at index i. Out of range indexes leave the list as is.
func RemoveFilter(filters []Filter, i int) []Filter {
	out := make([]Filter, 0, len(filters))
	for j, f := range filters {
		if j != i {
			out = append(out, f)
		}
	}
	return out
}

// ToggleTag removes an active tag filter with the given name, or adds one.
func ToggleTag(filters []Filter, name string) []Filter {
	target := TagFilter(name)
	for i, f := range filters {
		if f.sameAs(target) {
			return RemoveFilter(filters, i)
		}
	}
	return AddFilter(filters, target)
}

// IsActive reports whether an equivalent filter is already in the list.
func IsActive(filters []Filter, f Filter) bool {
	for _, a := range filters {
		if a.sameAs(f) {
			return true
		}
	}
	return false
}

// FiltersFromQuery turns repeated tag and location query values into filters.
func FiltersFromQuery(tags, locations []string) []Filter {
	var filters []Filter
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			filters = append(filters, TagFilter(t))
		}
	}
	for _, l := range locations {
		if l = strings.TrimSpace(l); l != "" {
			filters = append(filters, LocationFilter(l))
		}
	}
	return filters
}

// Capitalize upper-cases the first letter and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
