package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ThangNguyenTan/streamflix/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrNotFound      = errors.New("resource not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config:  cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		logger:  logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/configuration", c.config.BaseURL)

	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}

	return c.doRequest(ctx, endpoint, c.baseParams(), &result)
}

// SearchMulti performs a combined multi-type text search. Results mix movie,
// tv, and person records, each tagged with its media_type by the upstream.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]Record, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/search/multi", c.config.BaseURL)
	params := c.baseParams()
	params.Set("query", query)
	params.Set("include_adult", "false")

	var response SearchResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(response.Results)).
		Msg("Multi search completed")

	return response.Results, nil
}

// SearchEpisodes performs the episode-oriented search variant. The upstream
// does not tag these records with a media_type, so callers must treat every
// returned record as an episode.
func (c *Client) SearchEpisodes(ctx context.Context, query string) ([]Record, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/search/episode", c.config.BaseURL)
	params := c.baseParams()
	params.Set("query", query)

	var response SearchResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(response.Results)).
		Msg("Episode search completed")

	return response.Results, nil
}

// Similar fetches titles similar to the given movie or tv seed. The endpoint
// is homogeneous per seed type: every returned record has the seed's type.
func (c *Client) Similar(ctx context.Context, mediaType string, id int) ([]Record, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}
	if mediaType != "movie" && mediaType != "tv" {
		return nil, fmt.Errorf("%w: similar lookup requires movie or tv, got %q", ErrAPIError, mediaType)
	}

	endpoint := fmt.Sprintf("%s/%s/%d/similar", c.config.BaseURL, mediaType, id)

	var response SearchResponse
	if err := c.doRequest(ctx, endpoint, c.baseParams(), &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("mediaType", mediaType).
		Int("id", id).
		Int("results", len(response.Results)).
		Msg("Similar lookup completed")

	return response.Results, nil
}

// MovieGenres fetches the movie genre vocabulary.
func (c *Client) MovieGenres(ctx context.Context) ([]Genre, error) {
	return c.genreList(ctx, "movie")
}

// TVGenres fetches the TV genre vocabulary.
func (c *Client) TVGenres(ctx context.Context) ([]Genre, error) {
	return c.genreList(ctx, "tv")
}

func (c *Client) genreList(ctx context.Context, mediaType string) ([]Genre, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/genre/%s/list", c.config.BaseURL, mediaType)

	var response GenreListResponse
	if err := c.doRequest(ctx, endpoint, c.baseParams(), &response); err != nil {
		return nil, err
	}

	return response.Genres, nil
}

// TrendingDaily fetches the global daily trending listing (mixed types).
func (c *Client) TrendingDaily(ctx context.Context) ([]Record, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/trending/all/day", c.config.BaseURL)

	var response SearchResponse
	if err := c.doRequest(ctx, endpoint, c.baseParams(), &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("results", len(response.Results)).
		Msg("Got daily trending")

	return response.Results, nil
}

// ImageURL returns a full image URL for a given relative path and size.
// Size options: "w92", "w154", "w185", "w300", "w342", "w500", "w780", "original"
func (c *Client) ImageURL(path string, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.config.ImageBaseURL, size, path)
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	if c.config.Language != "" {
		params.Set("language", c.config.Language)
	}
	return params
}

// doRequest performs a rate-limited HTTP GET and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	// Handle error responses
	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
