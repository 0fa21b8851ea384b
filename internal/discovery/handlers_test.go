package discovery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ThangNguyenTan/streamflix/internal/discovery/tmdb"
)

func newHandlerTest(client *fakeCatalog) (*Handlers, *echo.Echo) {
	return NewHandlers(newTestService(client)), echo.New()
}

func TestHandlers_Search(t *testing.T) {
	client := &fakeCatalog{
		multiResults: []tmdb.Record{
			{ID: 603, MediaType: "movie", Title: "The Matrix", GenreIDs: []int{878}},
			{ID: 1402, MediaType: "tv", Name: "The Walking Dead", GenreIDs: []int{18}},
		},
	}
	h, e := newHandlerTest(client)

	req := httptest.NewRequest(http.MethodGet, "/search?query=matrix&type=movie&genre=878", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Search(c); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var results []SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(results) != 1 || results[0].ID != 603 {
		t.Errorf("results = %v, want only the matching movie", results)
	}
}

func TestHandlers_Search_EmptyQuery(t *testing.T) {
	client := &fakeCatalog{}
	h, e := newHandlerTest(client)

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Search(c); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var results []SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestHandlers_Search_TabRouting(t *testing.T) {
	client := &fakeCatalog{
		episodeResults: []tmdb.Record{{ID: 349232, Name: "Ozymandias"}},
	}
	h, e := newHandlerTest(client)

	req := httptest.NewRequest(http.MethodGet, "/search?query=ozymandias&tab=episodes", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Search(c); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if client.episodeCalls != 1 || client.multiCalls != 0 {
		t.Errorf("calls = episode %d multi %d, want 1/0", client.episodeCalls, client.multiCalls)
	}

	// Unknown tab values route to the combined search.
	req = httptest.NewRequest(http.MethodGet, "/search?query=ozymandias&tab=bogus", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	if err := h.Search(c); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if client.multiCalls != 1 {
		t.Errorf("multiCalls = %d, want 1", client.multiCalls)
	}
}

func TestHandlers_Search_UpstreamFailureIsOK(t *testing.T) {
	client := &fakeCatalog{err: errors.New("upstream down")}
	h, e := newHandlerTest(client)

	req := httptest.NewRequest(http.MethodGet, "/search?query=matrix", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Search(c); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	// Upstream failures degrade to an empty list, never an error status.
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var results []SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestHandlers_GetGenres(t *testing.T) {
	client := &fakeCatalog{
		movieGenres: []tmdb.Genre{{ID: 28, Name: "Action"}},
		tvGenres:    []tmdb.Genre{{ID: 18, Name: "Drama"}},
	}
	h, e := newHandlerTest(client)

	req := httptest.NewRequest(http.MethodGet, "/genres", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetGenres(c); err != nil {
		t.Fatalf("GetGenres() error = %v", err)
	}

	var genres []GenreEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &genres); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(genres) != 2 {
		t.Errorf("got %d genres, want 2", len(genres))
	}
}

func TestHandlers_GetTrending(t *testing.T) {
	client := &fakeCatalog{
		trending: []tmdb.Record{
			{ID: 1, MediaType: "movie", Title: "Trending Movie", ReleaseDate: "2026-01-10"},
			{ID: 2, MediaType: "tv", Name: "Trending Show", FirstAirDate: "2025-03-01"},
		},
	}
	h, e := newHandlerTest(client)

	req := httptest.NewRequest(http.MethodGet, "/trending?year=2026", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetTrending(c); err != nil {
		t.Fatalf("GetTrending() error = %v", err)
	}

	var results []SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(results) != 1 || results[0].ID != 1 {
		t.Errorf("results = %v, want only the 2026 movie", results)
	}
}

func TestHandlers_ClearCache(t *testing.T) {
	client := &fakeCatalog{
		multiResults: []tmdb.Record{{ID: 603, MediaType: "movie", Title: "The Matrix"}},
	}
	h, e := newHandlerTest(client)

	search := func() {
		req := httptest.NewRequest(http.MethodGet, "/search?query=matrix", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if err := h.Search(c); err != nil {
			t.Fatalf("Search() error = %v", err)
		}
	}

	search()
	search()
	if client.multiCalls != 1 {
		t.Fatalf("multiCalls = %d, want 1 before clear", client.multiCalls)
	}

	req := httptest.NewRequest(http.MethodDelete, "/cache", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.ClearCache(c); err != nil {
		t.Fatalf("ClearCache() error = %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}

	search()
	if client.multiCalls != 2 {
		t.Errorf("multiCalls = %d, want 2 after clear", client.multiCalls)
	}
}
