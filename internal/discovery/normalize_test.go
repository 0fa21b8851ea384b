package discovery

import (
	"fmt"
	"testing"

	"github.com/ThangNguyenTan/streamflix/internal/discovery/tmdb"
)

// stubImages builds predictable URLs so tests can assert which size was used.
type stubImages struct{}

func (stubImages) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("cdn/%s%s", size, path)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestResolveMediaType(t *testing.T) {
	tests := []struct {
		name string
		rec  tmdb.Record
		want MediaType
	}{
		{"explicit movie", tmdb.Record{MediaType: "movie", Name: "show-shaped"}, MediaTypeMovie},
		{"explicit tv", tmdb.Record{MediaType: "tv", Title: "movie-shaped"}, MediaTypeTV},
		{"explicit person", tmdb.Record{MediaType: "person", Name: "Keanu Reeves"}, MediaTypePerson},
		{"episode type beats title", tmdb.Record{EpisodeType: "standard", Title: "Pilot"}, MediaTypeEpisode},
		{"episode number beats title", tmdb.Record{EpisodeNumber: 3, Title: "Pilot"}, MediaTypeEpisode},
		{"title means movie", tmdb.Record{Title: "The Matrix"}, MediaTypeMovie},
		{"no title means tv", tmdb.Record{Name: "The Wire"}, MediaTypeTV},
		{"empty record means tv", tmdb.Record{}, MediaTypeTV},
		{"unknown media_type falls through", tmdb.Record{MediaType: "collection", Title: "The Matrix"}, MediaTypeMovie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveMediaType(tt.rec); got != tt.want {
				t.Errorf("ResolveMediaType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_EmptyRecord(t *testing.T) {
	n := NewNormalizer(stubImages{}, DefaultImageSizes())

	result := n.Normalize(tmdb.Record{}, "")

	if result.Title != UntitledFallback {
		t.Errorf("Title = %q, want %q", result.Title, UntitledFallback)
	}
	if result.MediaType != MediaTypeTV {
		t.Errorf("MediaType = %q, want %q", result.MediaType, MediaTypeTV)
	}
	if result.PosterPath != nil {
		t.Errorf("PosterPath = %v, want nil", result.PosterPath)
	}
	if result.PosterURL != "" {
		t.Errorf("PosterURL = %q, want empty", result.PosterURL)
	}
	if result.VoteAverage != nil {
		t.Errorf("VoteAverage = %v, want nil (unrated, not zero)", result.VoteAverage)
	}
	if result.ReleaseDate != "" {
		t.Errorf("ReleaseDate = %q, want empty", result.ReleaseDate)
	}
}

func TestNormalize_TitleFallbackChain(t *testing.T) {
	n := NewNormalizer(nil, ImageSizes{})

	tests := []struct {
		name string
		rec  tmdb.Record
		want string
	}{
		{"title first", tmdb.Record{Title: "A", Name: "B", OriginalName: "C", OriginalTitle: "D"}, "A"},
		{"name second", tmdb.Record{Name: "B", OriginalName: "C", OriginalTitle: "D"}, "B"},
		{"original name third", tmdb.Record{OriginalName: "C", OriginalTitle: "D"}, "C"},
		{"original title last", tmdb.Record{OriginalTitle: "D"}, "D"},
		{"nothing", tmdb.Record{}, UntitledFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.rec, "").Title; got != tt.want {
				t.Errorf("Title = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_DateFallbackChain(t *testing.T) {
	n := NewNormalizer(nil, ImageSizes{})

	tests := []struct {
		name string
		rec  tmdb.Record
		want string
	}{
		{"release date first", tmdb.Record{ReleaseDate: "1999-03-30", FirstAirDate: "2010-10-31"}, "1999-03-30"},
		{"first air date second", tmdb.Record{FirstAirDate: "2010-10-31", AirDate: "2013-09-15"}, "2010-10-31"},
		{"air date third", tmdb.Record{AirDate: "2013-09-15", EpisodeAirDate: "2013-09-16"}, "2013-09-15"},
		{"episode air date last", tmdb.Record{EpisodeAirDate: "2013-09-16"}, "2013-09-16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.rec, "").ReleaseDate; got != tt.want {
				t.Errorf("ReleaseDate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_ImageCandidates(t *testing.T) {
	n := NewNormalizer(stubImages{}, DefaultImageSizes())

	// A person record carries only a profile path; it should serve as poster.
	person := n.Normalize(tmdb.Record{MediaType: "person", ProfilePath: strPtr("/face.jpg")}, "")
	if person.PosterPath == nil || *person.PosterPath != "/face.jpg" {
		t.Errorf("person PosterPath = %v, want /face.jpg", person.PosterPath)
	}

	// Still path backs both poster and backdrop when nothing else exists.
	episode := n.Normalize(tmdb.Record{EpisodeNumber: 1, StillPath: strPtr("/still.jpg")}, "")
	if episode.PosterPath == nil || *episode.PosterPath != "/still.jpg" {
		t.Errorf("episode PosterPath = %v, want /still.jpg", episode.PosterPath)
	}
	if episode.BackdropPath == nil || *episode.BackdropPath != "/still.jpg" {
		t.Errorf("episode BackdropPath = %v, want /still.jpg", episode.BackdropPath)
	}

	// Backdrop falls back to poster path as a last resort.
	movie := n.Normalize(tmdb.Record{Title: "M", PosterPath: strPtr("/p.jpg")}, "")
	if movie.BackdropPath == nil || *movie.BackdropPath != "/p.jpg" {
		t.Errorf("movie BackdropPath = %v, want /p.jpg", movie.BackdropPath)
	}
}

func TestNormalize_EpisodeImageSizes(t *testing.T) {
	n := NewNormalizer(stubImages{}, DefaultImageSizes())

	movie := n.Normalize(tmdb.Record{
		Title:        "The Matrix",
		PosterPath:   strPtr("/p.jpg"),
		BackdropPath: strPtr("/b.jpg"),
	}, "")
	if movie.PosterURL != "cdn/w500/p.jpg" {
		t.Errorf("movie PosterURL = %q, want cdn/w500/p.jpg", movie.PosterURL)
	}
	if movie.BackdropURL != "cdn/w780/b.jpg" {
		t.Errorf("movie BackdropURL = %q, want cdn/w780/b.jpg", movie.BackdropURL)
	}

	// Episodes use the smaller still size for both artwork slots.
	episode := n.Normalize(tmdb.Record{
		Name:      "Ozymandias",
		StillPath: strPtr("/still.jpg"),
	}, MediaTypeEpisode)
	if episode.PosterURL != "cdn/w300/still.jpg" {
		t.Errorf("episode PosterURL = %q, want cdn/w300/still.jpg", episode.PosterURL)
	}
	if episode.BackdropURL != "cdn/w300/still.jpg" {
		t.Errorf("episode BackdropURL = %q, want cdn/w300/still.jpg", episode.BackdropURL)
	}
}

func TestNormalize_Override(t *testing.T) {
	n := NewNormalizer(nil, ImageSizes{})

	// A record that would resolve as tv takes the caller's episode override.
	rec := tmdb.Record{Name: "Ozymandias"}
	if got := n.Normalize(rec, MediaTypeEpisode).MediaType; got != MediaTypeEpisode {
		t.Errorf("MediaType = %q, want %q", got, MediaTypeEpisode)
	}
	// No override falls back to resolution.
	if got := n.Normalize(rec, "").MediaType; got != MediaTypeTV {
		t.Errorf("MediaType = %q, want %q", got, MediaTypeTV)
	}
}

func TestNormalize_GenreIDs(t *testing.T) {
	n := NewNormalizer(nil, ImageSizes{})

	// Direct id list wins over embedded genre objects.
	direct := n.Normalize(tmdb.Record{
		GenreIDs: []int{28, 12},
		Genres:   []tmdb.Genre{{ID: 99, Name: "Documentary"}},
	}, "")
	if len(direct.GenreIDs) != 2 || direct.GenreIDs[0] != 28 {
		t.Errorf("GenreIDs = %v, want [28 12]", direct.GenreIDs)
	}

	// Genre objects are flattened to ids when no direct list exists.
	derived := n.Normalize(tmdb.Record{
		Genres: []tmdb.Genre{{ID: 18, Name: "Drama"}, {ID: 80, Name: "Crime"}},
	}, "")
	if len(derived.GenreIDs) != 2 || derived.GenreIDs[1] != 80 {
		t.Errorf("GenreIDs = %v, want [18 80]", derived.GenreIDs)
	}

	if got := n.Normalize(tmdb.Record{}, "").GenreIDs; got != nil {
		t.Errorf("GenreIDs = %v, want nil", got)
	}
}
