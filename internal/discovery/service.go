package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ThangNguyenTan/streamflix/internal/discovery/tmdb"
)

const (
	genreCacheKey    = "genres:combined"
	trendingCacheKey = "trending:day"

	searchResultTTL = time.Minute
	catalogTTL      = time.Hour
)

// CatalogClient is the upstream surface the discovery service consumes.
// *tmdb.Client satisfies it; tests substitute fakes.
type CatalogClient interface {
	IsConfigured() bool
	SearchMulti(ctx context.Context, query string) ([]tmdb.Record, error)
	SearchEpisodes(ctx context.Context, query string) ([]tmdb.Record, error)
	Similar(ctx context.Context, mediaType string, id int) ([]tmdb.Record, error)
	MovieGenres(ctx context.Context) ([]tmdb.Genre, error)
	TVGenres(ctx context.Context) ([]tmdb.Genre, error)
	TrendingDaily(ctx context.Context) ([]tmdb.Record, error)
	ImageURL(path, size string) string
}

// Service routes searches to the appropriate upstream endpoints, aggregates
// the genre vocabularies, and serves the standing trending listing. Upstream
// failures are caught here and surface as empty result sets: callers render
// a neutral empty state, never an error page.
type Service struct {
	client     CatalogClient
	normalizer *Normalizer
	cache      *Cache
	logger     zerolog.Logger
}

// NewService creates a new discovery service.
func NewService(client CatalogClient, sizes ImageSizes, logger zerolog.Logger) *Service {
	return &Service{
		client:     client,
		normalizer: NewNormalizer(client, sizes),
		cache:      NewCache(DefaultCacheConfig()),
		logger:     logger.With().Str("component", "discovery").Logger(),
	}
}

// IsConfigured reports whether the upstream client has an API key.
func (s *Service) IsConfigured() bool {
	return s.client.IsConfigured()
}

// Search runs a query through the mode-appropriate upstream endpoints and
// returns canonical results. An empty or whitespace-only query resolves to
// an empty list without any upstream call.
func (s *Service) Search(ctx context.Context, query string, tab SearchTab, filters *SearchFilters) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}
	}

	cacheKey := searchCacheKey(query, tab, filters)
	if results, ok := s.cache.GetSearchResults(cacheKey); ok {
		s.logger.Debug().Str("query", query).Str("tab", string(tab)).Msg("Search cache hit")
		return results
	}

	var results []SearchResult
	switch tab {
	case TabEpisodes:
		results = s.searchEpisodes(ctx, query, filters)
	case TabSimilars:
		results = s.searchSimilars(ctx, query, filters)
	case TabMovieTV:
		results = s.searchCombined(ctx, query, filters, true)
	default:
		results = s.searchCombined(ctx, query, filters, false)
	}

	s.cache.SetWithTTL(cacheKey, results, searchResultTTL)

	s.logger.Info().
		Str("query", query).
		Str("tab", string(tab)).
		Int("results", len(results)).
		Msg("Search completed")

	return results
}

// searchCombined issues one multi-type search. With restrict set, people and
// stray episode records are dropped before filtering (the Movies & TV tab).
func (s *Service) searchCombined(ctx context.Context, query string, filters *SearchFilters, restrict bool) []SearchResult {
	records, err := s.client.SearchMulti(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("Multi search failed")
		return []SearchResult{}
	}

	if restrict {
		kept := make([]tmdb.Record, 0, len(records))
		for _, rec := range records {
			switch ResolveMediaType(rec) {
			case MediaTypeMovie, MediaTypeTV:
				kept = append(kept, rec)
			}
		}
		records = kept
	}

	return s.normalizeAll(ApplyFilters(records, filters), "")
}

// searchEpisodes issues the episode-oriented search variant. Every record
// from this path is an episode no matter what generic type resolution would
// guess, so normalization runs with the episode override.
func (s *Service) searchEpisodes(ctx context.Context, query string, filters *SearchFilters) []SearchResult {
	records, err := s.client.SearchEpisodes(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("Episode search failed")
		return []SearchResult{}
	}

	return s.normalizeAll(ApplyFilters(records, filters), MediaTypeEpisode)
}

// searchSimilars resolves a seed title from a multi search, then fetches its
// neighbors. The seed is the first movie/tv match, not the best-scoring one.
// No seed means an empty result with no second upstream call.
func (s *Service) searchSimilars(ctx context.Context, query string, filters *SearchFilters) []SearchResult {
	records, err := s.client.SearchMulti(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("Similars seed search failed")
		return []SearchResult{}
	}

	var seed *tmdb.Record
	var seedType MediaType
	for i := range records {
		switch ResolveMediaType(records[i]) {
		case MediaTypeMovie:
			seed, seedType = &records[i], MediaTypeMovie
		case MediaTypeTV:
			seed, seedType = &records[i], MediaTypeTV
		}
		if seed != nil {
			break
		}
	}

	if seed == nil {
		s.logger.Debug().Str("query", query).Msg("No movie/tv seed for similars")
		return []SearchResult{}
	}

	similar, err := s.client.Similar(ctx, string(seedType), seed.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("seedType", string(seedType)).
			Int("seedId", seed.ID).
			Msg("Similar lookup failed")
		return []SearchResult{}
	}

	// The similar endpoint is homogeneous per seed type; each record takes
	// the seed's type rather than resolving its own.
	return s.normalizeAll(ApplyFilters(similar, filters), seedType)
}

// CombinedGenres merges the movie and TV genre vocabularies into one
// deduplicated catalog ordered by name. On id collision the movie naming
// wins. The two vocabulary fetches run concurrently.
func (s *Service) CombinedGenres(ctx context.Context) []GenreEntry {
	if genres, ok := s.cache.GetGenres(genreCacheKey); ok {
		return genres
	}

	genres, err := s.fetchCombinedGenres(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Genre catalog fetch failed")
		return []GenreEntry{}
	}

	s.cache.SetWithTTL(genreCacheKey, genres, catalogTTL)
	s.logger.Info().Int("genres", len(genres)).Msg("Genre catalog aggregated")
	return genres
}

func (s *Service) fetchCombinedGenres(ctx context.Context) ([]GenreEntry, error) {
	var movieGenres, tvGenres []tmdb.Genre

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movieGenres, err = s.client.MovieGenres(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tvGenres, err = s.client.TVGenres(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// First write wins: movie vocabulary first, then TV for unseen ids only.
	byID := make(map[int]GenreEntry, len(movieGenres)+len(tvGenres))
	for _, g := range movieGenres {
		byID[g.ID] = GenreEntry{ID: g.ID, Name: g.Name}
	}
	for _, g := range tvGenres {
		if _, exists := byID[g.ID]; !exists {
			byID[g.ID] = GenreEntry{ID: g.ID, Name: g.Name}
		}
	}

	merged := make([]GenreEntry, 0, len(byID))
	for _, entry := range byID {
		merged = append(merged, entry)
	}

	collator := collate.New(language.English)
	sort.SliceStable(merged, func(i, j int) bool {
		return collator.CompareString(merged[i].Name, merged[j].Name) < 0
	})

	return merged, nil
}

// Trending returns the daily trending listing with the facet filters applied
// client-side; the trending endpoint offers no server-side filtering. The raw
// listing is cached so different filter combinations share one upstream call.
func (s *Service) Trending(ctx context.Context, filters *SearchFilters) []SearchResult {
	records, ok := s.cache.GetRecords(trendingCacheKey)
	if !ok {
		var err error
		records, err = s.client.TrendingDaily(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("Trending fetch failed")
			return []SearchResult{}
		}
		s.cache.SetWithTTL(trendingCacheKey, records, catalogTTL)
	}

	return s.normalizeAll(ApplyFilters(records, filters), "")
}

// RefreshCatalogs re-fetches the trending listing and genre catalog, priming
// the cache. Invoked on a schedule so the standing trending panel never
// renders cold.
func (s *Service) RefreshCatalogs(ctx context.Context) error {
	records, err := s.client.TrendingDaily(ctx)
	if err != nil {
		return fmt.Errorf("refresh trending: %w", err)
	}
	s.cache.SetWithTTL(trendingCacheKey, records, catalogTTL)

	genres, err := s.fetchCombinedGenres(ctx)
	if err != nil {
		return fmt.Errorf("refresh genres: %w", err)
	}
	s.cache.SetWithTTL(genreCacheKey, genres, catalogTTL)

	s.logger.Debug().
		Int("trending", len(records)).
		Int("genres", len(genres)).
		Msg("Catalogs refreshed")

	return nil
}

// ClearCache clears the discovery cache.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Info().Msg("Discovery cache cleared")
}

func (s *Service) normalizeAll(records []tmdb.Record, override MediaType) []SearchResult {
	results := make([]SearchResult, len(records))
	for i, rec := range records {
		results[i] = s.normalizer.Normalize(rec, override)
	}
	return results
}

func searchCacheKey(query string, tab SearchTab, filters *SearchFilters) string {
	filterKey := ""
	if filters != nil {
		filterKey = filters.cacheKey()
	}
	return fmt.Sprintf("search:%s:%s:%s", tab, query, filterKey)
}
