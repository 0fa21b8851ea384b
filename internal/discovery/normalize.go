package discovery

import (
	"github.com/ThangNguyenTan/streamflix/internal/discovery/tmdb"
)

// UntitledFallback is the display title used when a record carries no title
// field in any of its variants.
const UntitledFallback = "Untitled"

// ImageSource builds displayable URLs from relative upstream image paths.
// *tmdb.Client satisfies it.
type ImageSource interface {
	ImageURL(path, size string) string
}

// ImageSizes selects the CDN size token per artwork slot. Episodes render in
// smaller tiles, so their artwork uses Still for both slots.
type ImageSizes struct {
	Poster   string
	Backdrop string
	Still    string
}

// DefaultImageSizes returns the size tokens used when none are configured.
func DefaultImageSizes() ImageSizes {
	return ImageSizes{Poster: "w500", Backdrop: "w780", Still: "w300"}
}

// Normalizer converts heterogeneous upstream records into canonical
// SearchResults. It is a pure transform: absent or malformed fields degrade
// to defaults, never to an error.
type Normalizer struct {
	images ImageSource
	sizes  ImageSizes
}

// NewNormalizer creates a Normalizer. A nil ImageSource leaves the display
// URL fields empty while still resolving the raw paths.
func NewNormalizer(images ImageSource, sizes ImageSizes) *Normalizer {
	if sizes.Poster == "" {
		sizes = DefaultImageSizes()
	}
	return &Normalizer{images: images, sizes: sizes}
}

// ResolveMediaType resolves a record's media type when the caller does not
// already know it. The order matters: tv is the final fallback, not a default
// checked first, so a bare record with a title field classifies as movie and
// a bare record without one classifies as tv.
func ResolveMediaType(rec tmdb.Record) MediaType {
	switch MediaType(rec.MediaType) {
	case MediaTypeMovie, MediaTypeTV, MediaTypeEpisode, MediaTypePerson:
		return MediaType(rec.MediaType)
	}
	if rec.EpisodeType != "" || rec.EpisodeNumber > 0 {
		return MediaTypeEpisode
	}
	if rec.Title != "" {
		return MediaTypeMovie
	}
	return MediaTypeTV
}

// Normalize maps an upstream record to the canonical SearchResult shape.
// A non-empty override pins the media type when the fetch path already
// knows it (the episode search and similar-title endpoints are homogeneous).
func (n *Normalizer) Normalize(rec tmdb.Record, override MediaType) SearchResult {
	mediaType := override
	if mediaType == "" {
		mediaType = ResolveMediaType(rec)
	}

	result := SearchResult{
		ID:            rec.ID,
		MediaType:     mediaType,
		Title:         resolveTitle(rec),
		Overview:      rec.Overview,
		PosterPath:    firstPath(rec.PosterPath, rec.ProfilePath, rec.StillPath),
		BackdropPath:  firstPath(rec.BackdropPath, rec.StillPath, rec.PosterPath),
		ReleaseDate:   resolveDate(rec),
		VoteAverage:   rec.VoteAverage,
		Popularity:    rec.Popularity,
		GenreIDs:      resolveGenreIDs(rec),
		OriginalTitle: rec.OriginalTitle,
	}

	if n.images != nil {
		posterSize, backdropSize := n.sizes.Poster, n.sizes.Backdrop
		if mediaType == MediaTypeEpisode {
			posterSize, backdropSize = n.sizes.Still, n.sizes.Still
		}
		if result.PosterPath != nil {
			result.PosterURL = n.images.ImageURL(*result.PosterPath, posterSize)
		}
		if result.BackdropPath != nil {
			result.BackdropURL = n.images.ImageURL(*result.BackdropPath, backdropSize)
		}
	}

	return result
}

// resolveTitle picks the first non-empty title variant.
func resolveTitle(rec tmdb.Record) string {
	for _, candidate := range []string{rec.Title, rec.Name, rec.OriginalName, rec.OriginalTitle} {
		if candidate != "" {
			return candidate
		}
	}
	return UntitledFallback
}

// resolveDate picks the first non-empty date variant.
func resolveDate(rec tmdb.Record) string {
	for _, candidate := range []string{rec.ReleaseDate, rec.FirstAirDate, rec.AirDate, rec.EpisodeAirDate} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// resolveGenreIDs prefers the direct id list, then derives ids from an
// embedded genre-object list. Returns nil when neither is present.
func resolveGenreIDs(rec tmdb.Record) []int {
	if len(rec.GenreIDs) > 0 {
		return rec.GenreIDs
	}
	if len(rec.Genres) > 0 {
		ids := make([]int, len(rec.Genres))
		for i, g := range rec.Genres {
			ids[i] = g.ID
		}
		return ids
	}
	return nil
}

// firstPath returns the first non-nil candidate path.
func firstPath(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}
