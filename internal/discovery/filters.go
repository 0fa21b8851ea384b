package discovery

import (
	"sort"
	"strings"
	"time"

	"github.com/ThangNguyenTan/streamflix/internal/discovery/tmdb"
)

// ApplyFilters applies the facet filters and sort to a batch of raw upstream
// records. It operates pre-normalization so the trending and search paths can
// share it without requiring a normalize pass first. Filters compose by
// sequential AND; only the final sort step is order-sensitive.
//
// A nil filters value is an identity passthrough.
func ApplyFilters(records []tmdb.Record, filters *SearchFilters) []tmdb.Record {
	if filters == nil {
		return records
	}

	filtered := make([]tmdb.Record, 0, len(records))
	for _, rec := range records {
		if !matchesType(rec, filters.Type) {
			continue
		}
		if !matchesGenre(rec, filters.GenreID) {
			continue
		}
		if !matchesYear(rec, filters.Year) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sortRecords(filtered, filters.SortBy)
	return filtered
}

// matchesType keeps records of the selected type. Episodes count as tv for
// filtering purposes: a "tv" type facet keeps both.
func matchesType(rec tmdb.Record, typeFilter string) bool {
	switch typeFilter {
	case TypeMovie:
		return ResolveMediaType(rec) == MediaTypeMovie
	case TypeTV:
		resolved := ResolveMediaType(rec)
		return resolved == MediaTypeTV || resolved == MediaTypeEpisode
	default:
		return true
	}
}

// matchesGenre keeps records whose resolvable genre-id set contains the id.
// Records with no resolvable genre ids are excluded once the filter is active.
func matchesGenre(rec tmdb.Record, genreID int) bool {
	if genreID == 0 {
		return true
	}
	for _, id := range resolveGenreIDs(rec) {
		if id == genreID {
			return true
		}
	}
	return false
}

// matchesYear does a literal 4-character prefix match against the resolved
// date string. Malformed dates simply fail the filter.
func matchesYear(rec tmdb.Record, year string) bool {
	if year == "" {
		return true
	}
	return strings.HasPrefix(resolveDate(rec), year)
}

// sortRecords applies a stable sort by the sort key's numeric field.
// Direction is descending unless the key's suffix is exactly "asc".
func sortRecords(records []tmdb.Record, sortBy string) {
	field := sortBy
	ascending := false
	if idx := strings.LastIndex(sortBy, "."); idx >= 0 {
		field = sortBy[:idx]
		ascending = sortBy[idx+1:] == "asc"
	}

	var value func(tmdb.Record) float64
	switch field {
	case "vote_average":
		value = func(rec tmdb.Record) float64 {
			if rec.VoteAverage == nil {
				return 0
			}
			return *rec.VoteAverage
		}
	case "release_date":
		value = func(rec tmdb.Record) float64 {
			return float64(dateTimestamp(resolveDate(rec)))
		}
	default:
		// Unrecognized fields fall back to popularity.
		value = func(rec tmdb.Record) float64 {
			if rec.Popularity == nil {
				return 0
			}
			return *rec.Popularity
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if ascending {
			return value(records[i]) < value(records[j])
		}
		return value(records[i]) > value(records[j])
	})
}

// dateTimestamp parses an ISO date to a unix timestamp; missing or malformed
// dates sort as epoch start.
func dateTimestamp(date string) int64 {
	if len(date) < 10 {
		return 0
	}
	t, err := time.Parse("2006-01-02", date[:10])
	if err != nil {
		return 0
	}
	return t.Unix()
}
