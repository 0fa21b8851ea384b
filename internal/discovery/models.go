package discovery

import "fmt"

// MediaType identifies which kind of catalog entity a record describes.
// It determines which optional fields are meaningful and which image-size
// convention applies.
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeTV      MediaType = "tv"
	MediaTypeEpisode MediaType = "episode"
	MediaTypePerson  MediaType = "person"
)

// SearchTab selects which upstream endpoint(s) a search fans out to.
type SearchTab string

const (
	TabAll      SearchTab = "all"
	TabMovieTV  SearchTab = "movie_tv"
	TabEpisodes SearchTab = "episodes"
	TabSimilars SearchTab = "similars"
)

// ParseTab maps a tab string to a SearchTab, defaulting to TabAll.
func ParseTab(s string) SearchTab {
	switch SearchTab(s) {
	case TabMovieTV, TabEpisodes, TabSimilars:
		return SearchTab(s)
	default:
		return TabAll
	}
}

// SearchResult is the canonical record every consumer renders from,
// regardless of upstream origin. ID is unique only within its MediaType
// namespace; ID and MediaType together form the natural key.
type SearchResult struct {
	ID            int       `json:"id"`
	MediaType     MediaType `json:"mediaType"`
	Title         string    `json:"title"`
	Overview      string    `json:"overview"`
	PosterPath    *string   `json:"posterPath"`
	BackdropPath  *string   `json:"backdropPath"`
	PosterURL     string    `json:"posterUrl,omitempty"`
	BackdropURL   string    `json:"backdropUrl,omitempty"`
	ReleaseDate   string    `json:"releaseDate,omitempty"`
	VoteAverage   *float64  `json:"voteAverage"`
	Popularity    *float64  `json:"popularity"`
	GenreIDs      []int     `json:"genreIds,omitempty"`
	OriginalTitle string    `json:"originalTitle,omitempty"`
}

// GenreEntry is one entry of the aggregated genre catalog.
type GenreEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Type facet values.
const (
	TypeAll   = "all"
	TypeMovie = "movie"
	TypeTV    = "tv"
)

// Sort keys offered to callers. The key format embeds a direction suffix;
// anything other than a literal "asc" suffix sorts descending.
const (
	SortPopularity  = "popularity.desc"
	SortVoteAverage = "vote_average.desc"
	SortReleaseDate = "release_date.desc"
)

// SearchFilters is the mutable query-time facet state. Each facet is an
// independent single-select: toggling a facet a second time with the same
// value clears it. A zero GenreID means no genre filter.
type SearchFilters struct {
	Type    string `json:"type"`
	GenreID int    `json:"genreId,omitempty"`
	Year    string `json:"year,omitempty"`
	SortBy  string `json:"sortBy"`
}

// DefaultFilters returns the filter defaults applied on page load and reset.
func DefaultFilters() SearchFilters {
	return SearchFilters{
		Type:   TypeAll,
		SortBy: SortPopularity,
	}
}

// cacheKey returns a stable fragment identifying this filter combination.
func (f SearchFilters) cacheKey() string {
	return fmt.Sprintf("%s:%d:%s:%s", f.Type, f.GenreID, f.Year, f.SortBy)
}
