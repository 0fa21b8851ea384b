package tmdb

// Record is a single loosely-shaped record from the catalog API. The same
// results array can carry movies, TV shows, episodes, and people, so every
// field is optional; consumers resolve the shape through fallback chains
// rather than trusting any one field to be present.
type Record struct {
	ID             int      `json:"id"`
	MediaType      string   `json:"media_type,omitempty"`
	Title          string   `json:"title,omitempty"`
	Name           string   `json:"name,omitempty"`
	OriginalName   string   `json:"original_name,omitempty"`
	OriginalTitle  string   `json:"original_title,omitempty"`
	Overview       string   `json:"overview,omitempty"`
	PosterPath     *string  `json:"poster_path,omitempty"`
	ProfilePath    *string  `json:"profile_path,omitempty"`
	StillPath      *string  `json:"still_path,omitempty"`
	BackdropPath   *string  `json:"backdrop_path,omitempty"`
	ReleaseDate    string   `json:"release_date,omitempty"`
	FirstAirDate   string   `json:"first_air_date,omitempty"`
	AirDate        string   `json:"air_date,omitempty"`
	EpisodeAirDate string   `json:"episode_air_date,omitempty"`
	VoteAverage    *float64 `json:"vote_average,omitempty"`
	Popularity     *float64 `json:"popularity,omitempty"`
	GenreIDs       []int    `json:"genre_ids,omitempty"`
	Genres         []Genre  `json:"genres,omitempty"`
	EpisodeType    string   `json:"episode_type,omitempty"`
	EpisodeNumber  int      `json:"episode_number,omitempty"`
	SeasonNumber   int      `json:"season_number,omitempty"`
	ShowID         int      `json:"show_id,omitempty"`
}

// SearchResponse is the results envelope shared by the search, similar,
// and trending endpoints.
type SearchResponse struct {
	Page         int      `json:"page"`
	Results      []Record `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Genre represents a genre from the catalog API.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is the response from the genre vocabulary endpoints.
type GenreListResponse struct {
	Genres []Genre `json:"genres"`
}

// ErrorResponse is an error from the catalog API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
