package discovery

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDebounceDelay is the quiet period after the last keystroke before
// the effective query updates.
const DefaultDebounceDelay = 450 * time.Millisecond

// Searcher is the subset of the discovery service the coordinator drives.
type Searcher interface {
	Search(ctx context.Context, query string, tab SearchTab, filters *SearchFilters) []SearchResult
	Trending(ctx context.Context, filters *SearchFilters) []SearchResult
}

// Update is one delivered result set, tagged with the input tuple it answers.
type Update struct {
	Query    string         `json:"query"`
	Tab      SearchTab      `json:"tab"`
	Filters  SearchFilters  `json:"filters"`
	Trending bool           `json:"trending"`
	Results  []SearchResult `json:"results"`
}

// UpdateHandler receives result sets as they become current. Handlers must
// not call back into the coordinator.
type UpdateHandler func(Update)

// CoordinatorConfig holds coordinator configuration.
type CoordinatorConfig struct {
	// DebounceDelay is how long to wait after the last keystroke before the
	// effective query updates. Zero means DefaultDebounceDelay.
	DebounceDelay time.Duration
}

// Coordinator owns one user's query state: the raw input as typed, the
// debounced effective query, the active tab and facet filters. It decides
// when a fetch (re-)occurs and guarantees that a response for a superseded
// input tuple is discarded rather than delivered, so a slow stale response
// can never overwrite fresher results. While the effective query is empty it
// substitutes the filtered daily trending listing.
type Coordinator struct {
	searcher Searcher
	config   CoordinatorConfig
	logger   zerolog.Logger
	handler  UpdateHandler

	mu             sync.Mutex
	rawInput       string
	effectiveQuery string
	tab            SearchTab
	filters        SearchFilters
	submittedQuery string
	generation     uint64
	lastUpdate     Update
	debounceTimer  *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
}

// NewCoordinator creates a coordinator with default tab and filters.
func NewCoordinator(searcher Searcher, config CoordinatorConfig, logger zerolog.Logger) *Coordinator {
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = DefaultDebounceDelay
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Coordinator{
		searcher: searcher,
		config:   config,
		logger:   logger.With().Str("component", "coordinator").Logger(),
		tab:      TabAll,
		filters:  DefaultFilters(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetHandler sets the result delivery handler.
func (c *Coordinator) SetHandler(handler UpdateHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// Start dispatches the standing trending fetch for the initial empty query.
func (c *Coordinator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatchLocked()
}

// Close stops the coordinator. In-flight fetches are cancelled; no further
// updates are delivered.
func (c *Coordinator) Close() {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}
	// Invalidate whatever is in flight.
	c.generation++
}

// SetInput records a keystroke. The debounce timer restarts on every call;
// only the final settled value after a quiet period becomes the effective
// query, and no fetch is issued for intermediate values.
func (c *Coordinator) SetInput(input string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rawInput = input

	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}
	c.debounceTimer = time.AfterFunc(c.config.DebounceDelay, func() {
		c.settle(input)
	})
}

// settle promotes a quiesced input value to the effective query.
func (c *Coordinator) settle(input string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	trimmed := strings.TrimSpace(input)
	if trimmed == c.effectiveQuery {
		return
	}

	c.effectiveQuery = trimmed
	// A new query always lands on the combined tab.
	c.tab = TabAll
	c.dispatchLocked()
}

// SetTab switches the search mode.
func (c *Coordinator) SetTab(tab SearchTab) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tab == c.tab {
		return
	}
	c.tab = tab
	c.dispatchLocked()
}

// SetType selects the type facet.
func (c *Coordinator) SetType(typeFilter string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filters.Type == typeFilter {
		return
	}
	c.filters.Type = typeFilter
	c.dispatchLocked()
}

// ToggleGenre selects the genre facet, or clears it when the same genre is
// toggled again.
func (c *Coordinator) ToggleGenre(genreID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filters.GenreID == genreID {
		c.filters.GenreID = 0
	} else {
		c.filters.GenreID = genreID
	}
	c.dispatchLocked()
}

// ToggleYear selects the year facet, or clears it when the same year is
// toggled again.
func (c *Coordinator) ToggleYear(year string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filters.Year == year {
		c.filters.Year = ""
	} else {
		c.filters.Year = year
	}
	c.dispatchLocked()
}

// SetSort selects the sort order.
func (c *Coordinator) SetSort(sortBy string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filters.SortBy == sortBy {
		return
	}
	c.filters.SortBy = sortBy
	c.dispatchLocked()
}

// ResetFilters restores the default facet state.
func (c *Coordinator) ResetFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()

	defaults := DefaultFilters()
	if c.filters == defaults {
		return
	}
	c.filters = defaults
	c.dispatchLocked()
}

// Submit snapshots the raw input into the persisted query parameter that
// backs shareable URLs, and promotes it to the effective query immediately,
// skipping the remaining debounce wait. Submitting a cleared input clears
// the parameter. Returns the new parameter value.
func (c *Coordinator) Submit() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}

	trimmed := strings.TrimSpace(c.rawInput)
	c.submittedQuery = trimmed

	if trimmed != c.effectiveQuery {
		c.effectiveQuery = trimmed
		c.tab = TabAll
		c.dispatchLocked()
	}

	return c.submittedQuery
}

// QueryParam returns the last submitted query parameter value.
func (c *Coordinator) QueryParam() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submittedQuery
}

// Current returns the most recently delivered result set.
func (c *Coordinator) Current() Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUpdate
}

// dispatchLocked starts a fetch for the current input tuple. Each dispatch
// bumps the generation counter; a completion carrying an older generation is
// discarded, which is what makes the last-write-wins tuple guarantee hold
// regardless of upstream response ordering. Must be called with mu held.
func (c *Coordinator) dispatchLocked() {
	c.generation++
	generation := c.generation
	query := c.effectiveQuery
	tab := c.tab
	filters := c.filters

	go c.fetch(generation, query, tab, filters)
}

func (c *Coordinator) fetch(generation uint64, query string, tab SearchTab, filters SearchFilters) {
	update := Update{
		Query:   query,
		Tab:     tab,
		Filters: filters,
	}

	if query == "" {
		update.Trending = true
		update.Results = c.searcher.Trending(c.ctx, &filters)
	} else {
		update.Results = c.searcher.Search(c.ctx, query, tab, &filters)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		c.logger.Debug().
			Str("query", query).
			Str("tab", string(tab)).
			Msg("Discarding stale result set")
		return
	}

	c.lastUpdate = update
	if c.handler != nil {
		c.handler(update)
	}
}
