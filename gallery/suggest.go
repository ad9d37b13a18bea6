package gallery

import (
	"strings"
	"unicode/utf8"

	"github.com/rpupo63/photo-portfolio/models"
)

const (
	MaxSuggestions     = 8
	MinSuggestionQuery = 2
)

// Suggest proposes filters whose value contains the query, ordered tags,
// then countries, then full locations, capped at MaxSuggestions. Each
// suggestion carries the number of photos it would leave when added to the
// active filters; values already active or matching nothing are skipped.
func Suggest(photos []*models.Photo, query string, active []Filter) []Filter {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < MinSuggestionQuery {
		return []Filter{}
	}

	tags, countries, locations := suggestionSources(photos)
	out := make([]Filter, 0, MaxSuggestions)

	offer := func(f Filter) bool {
		if len(out) >= MaxSuggestions {
			return false
		}
		if !strings.Contains(strings.ToLower(f.Value), q) || IsActive(active, f) {
			return false
		}
		f.Count = len(Apply(photos, AddFilter(active, f)))
		if f.Count == 0 {
			return false
		}
		out = append(out, f)
		return true
	}

	for _, name := range tags {
		offer(TagFilter(name))
	}

	emittedCountries := make(map[string]bool)
	for _, country := range countries {
		if offer(LocationFilter(country)) {
			emittedCountries[strings.ToLower(country)] = true
		}
	}

	for _, loc := range locations {
		if emittedCountries[strings.ToLower(loc)] {
			continue
		}
		offer(LocationFilter(loc))
	}

	return out
}

// suggestionSources collects distinct tag names, country tokens and full
// locations in first-seen order. Countries are the text after the last comma.
func suggestionSources(photos []*models.Photo) (tags, countries, locations []string) {
	seenTags := make(map[string]bool)
	seenCountries := make(map[string]bool)
	seenLocations := make(map[string]bool)

	for _, p := range photos {
		for _, t := range p.Tags {
			key := strings.ToLower(t.Name)
			if t.Name != "" && !seenTags[key] {
				seenTags[key] = true
				tags = append(tags, t.Name)
			}
		}

		if p.Location == nil {
			continue
		}
		loc := strings.TrimSpace(*p.Location)
		if loc == "" {
			continue
		}
		if !seenLocations[loc] {
			seenLocations[loc] = true
			locations = append(locations, loc)
		}
		if i := strings.LastIndex(loc, ","); i >= 0 {
			country := strings.TrimSpace(loc[i+1:])
			if country != "" && !seenCountries[country] {
				seenCountries[country] = true
				countries = append(countries, country)
			}
		}
	}
	return tags, countries, locations
}
