package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/Jokaes/txt-to-youtube-music/internal/models"
	"github.com/Jokaes/txt-to-youtube-music/internal/services"
	"github.com/Jokaes/txt-to-youtube-music/internal/shared"
	"github.com/charmbracelet/log"
)

type searchCall struct {
	query    string
	category services.SearchCategory
}

type addCall struct {
	playlistID      string
	videoIDs        []string
	allowDuplicates bool
}

type addReply struct {
	resp *services.AddItemsResponse
	err  error
}

// mockClient scripts remote behavior per query/category and records every
// call so tests can assert on call counts and ordering.
type mockClient struct {
	searchResults map[string][]services.SearchResult
	searchErr     error
	searchCalls   []searchCall
	createID      string
	createErr     error
	addReplies    []addReply // consumed in order, last one repeats
	addCalls      []addCall
	pingErr       error
}

func searchKey(query string, category services.SearchCategory) string {
	return string(category) + "|" + query
}

func (m *mockClient) Search(_ context.Context, query string, category services.SearchCategory, _ int) ([]services.SearchResult, error) {
	m.searchCalls = append(m.searchCalls, searchCall{query: query, category: category})
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults[searchKey(query, category)], nil
}

func (m *mockClient) CreatePlaylist(_ context.Context, _, _, _ string) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	if m.createID == "" {
		return "PL_test", nil
	}
	return m.createID, nil
}

func (m *mockClient) AddPlaylistItems(_ context.Context, playlistID string, videoIDs []string, allowDuplicates bool) (*services.AddItemsResponse, error) {
	m.addCalls = append(m.addCalls, addCall{playlistID: playlistID, videoIDs: videoIDs, allowDuplicates: allowDuplicates})
	if len(m.addReplies) == 0 {
		return &services.AddItemsResponse{Status: "STATUS_SUCCEEDED", Raw: []byte(`{"status":"STATUS_SUCCEEDED"}`)}, nil
	}
	reply := m.addReplies[0]
	if len(m.addReplies) > 1 {
		m.addReplies = m.addReplies[1:]
	}
	return reply.resp, reply.err
}

func (m *mockClient) Ping(context.Context) error { return m.pingErr }

func (m *mockClient) Name() string { return "mock" }

func succeededReply() addReply {
	return addReply{resp: &services.AddItemsResponse{Status: "STATUS_SUCCEEDED", Raw: []byte(`{"status":"STATUS_SUCCEEDED"}`)}}
}

func conflictReply() addReply {
	return addReply{err: &services.APIError{StatusCode: http.StatusConflict, Message: "Conflict"}}
}

func songResult(videoID, title, artist string) services.SearchResult {
	return services.SearchResult{
		VideoID:    videoID,
		Title:      title,
		ResultType: "song",
		Artists:    []services.Artist{{Name: artist}},
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestEngine(client *mockClient, cache ResolutionCacher) *PlaylistEngine {
	engine := NewPlaylistEngine(EngineOpts{
		Client:     client,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		Cache:      cache,
		Logger:     quietLogger(),
	})
	engine.inserter.sleep = func(context.Context, time.Duration) error { return nil }
	return engine
}

func TestCreateTarget(t *testing.T) {
	t.Run("creates playlist and returns target", func(t *testing.T) {
		client := &mockClient{createID: "PLabc123"}
		engine := newTestEngine(client, nil)

		target, err := engine.CreateTarget(context.Background(), "Road Trip", "mix", "PRIVATE")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if target.ID != "PLabc123" {
			t.Errorf("expected ID PLabc123, got %s", target.ID)
		}
		if target.Title != "Road Trip" {
			t.Errorf("expected title Road Trip, got %s", target.Title)
		}
	})

	t.Run("rejects invalid privacy", func(t *testing.T) {
		engine := newTestEngine(&mockClient{}, nil)

		_, err := engine.CreateTarget(context.Background(), "Mix", "", "SECRET")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("wraps creation failure", func(t *testing.T) {
		client := &mockClient{createErr: errors.New("boom")}
		engine := newTestEngine(client, nil)

		_, err := engine.CreateTarget(context.Background(), "Mix", "", "PRIVATE")
		if !errors.Is(err, shared.ErrPlaylistCreate) {
			t.Errorf("expected ErrPlaylistCreate, got %v", err)
		}
	})

	t.Run("fails without client", func(t *testing.T) {
		engine := NewPlaylistEngine(EngineOpts{Logger: quietLogger()})

		_, err := engine.CreateTarget(context.Background(), "Mix", "", "PRIVATE")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestRun(t *testing.T) {
	target := models.PlaylistTarget{ID: "PL_test", Title: "Test"}

	t.Run("buckets every query exactly once", func(t *testing.T) {
		client := &mockClient{
			searchResults: map[string][]services.SearchResult{
				searchKey("song one", services.CategorySongs):  {songResult("vid1", "Song One", "Artist A")},
				searchKey("song two", services.CategorySongs):  {songResult("vid2", "Song Two", "Artist B")},
				searchKey("song one", services.CategoryVideos): {songResult("vid1", "Song One", "Artist A")},
			},
		}
		engine := newTestEngine(client, nil)

		queries := []models.SongQuery{"song one", "song two", "missing song", "song one"}
		report, err := engine.Run(context.Background(), queries, target, BatchOpts{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Total != 4 {
			t.Errorf("expected total 4, got %d", report.Total)
		}
		if !report.Complete() {
			t.Errorf("report incomplete: total %d, bucketed %d", report.Total, report.Bucketed())
		}
		if len(report.Successful) != 2 {
			t.Errorf("expected 2 successful, got %d", len(report.Successful))
		}
		if len(report.NotFound) != 1 || report.NotFound[0] != "missing song" {
			t.Errorf("expected missing song in not found, got %v", report.NotFound)
		}
		if len(report.Duplicates) != 1 || report.Duplicates[0] != "song one" {
			t.Errorf("expected repeated song one in duplicates, got %v", report.Duplicates)
		}
	})

	t.Run("duplicate query triggers no second remote insert", func(t *testing.T) {
		client := &mockClient{
			searchResults: map[string][]services.SearchResult{
				searchKey("same song", services.CategorySongs): {songResult("vid1", "Same Song", "Artist")},
			},
		}
		engine := newTestEngine(client, nil)

		queries := []models.SongQuery{"same song", "same song"}
		report, err := engine.Run(context.Background(), queries, target, BatchOpts{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(client.addCalls) != 1 {
			t.Errorf("expected 1 remote add call, got %d", len(client.addCalls))
		}
		if len(report.Successful) != 1 || len(report.Duplicates) != 1 {
			t.Errorf("expected 1 successful and 1 duplicate, got %d and %d",
				len(report.Successful), len(report.Duplicates))
		}
	})

	t.Run("allow duplicates inserts every occurrence", func(t *testing.T) {
		client := &mockClient{
			searchResults: map[string][]services.SearchResult{
				searchKey("same song", services.CategorySongs): {songResult("vid1", "Same Song", "Artist")},
			},
		}
		engine := newTestEngine(client, nil)

		queries := []models.SongQuery{"same song", "same song"}
		report, err := engine.Run(context.Background(), queries, target, BatchOpts{AllowDuplicates: true}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(client.addCalls) != 2 {
			t.Errorf("expected 2 remote add calls, got %d", len(client.addCalls))
		}
		if !client.addCalls[0].allowDuplicates {
			t.Error("expected duplicates flag forwarded to remote")
		}
		if len(report.Successful) != 2 {
			t.Errorf("expected 2 successful, got %d", len(report.Successful))
		}
	})

	t.Run("one failure never aborts the batch", func(t *testing.T) {
		client := &mockClient{
			searchResults: map[string][]services.SearchResult{
				searchKey("first", services.CategorySongs):  {songResult("vid1", "First", "A")},
				searchKey("second", services.CategorySongs): {songResult("vid2", "Second", "B")},
			},
			addReplies: []addReply{
				{err: &services.APIError{StatusCode: http.StatusInternalServerError}},
				succeededReply(),
			},
		}
		engine := newTestEngine(client, nil)

		report, err := engine.Run(context.Background(), []models.SongQuery{"first", "second"}, target, BatchOpts{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Failed) != 1 || report.Failed[0] != "first" {
			t.Errorf("expected first in failed, got %v", report.Failed)
		}
		if len(report.Successful) != 1 || report.Successful[0] != "second" {
			t.Errorf("expected second in successful, got %v", report.Successful)
		}
	})

	t.Run("empty video id is a failure not a success", func(t *testing.T) {
		client := &mockClient{
			searchResults: map[string][]services.SearchResult{
				searchKey("odd result", services.CategorySongs): {songResult("", "Odd Result", "A")},
			},
		}
		engine := newTestEngine(client, nil)

		report, err := engine.Run(context.Background(), []models.SongQuery{"odd result"}, target, BatchOpts{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Failed) != 1 {
			t.Errorf("expected 1 failed, got %v", report)
		}
		if len(client.addCalls) != 0 {
			t.Errorf("expected no remote add call, got %d", len(client.addCalls))
		}
	})

	t.Run("cancellation aborts and discards the report", func(t *testing.T) {
		client := &mockClient{
			searchResults: map[string][]services.SearchResult{
				searchKey("song", services.CategorySongs): {songResult("vid1", "Song", "A")},
			},
		}
		engine := newTestEngine(client, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report, err := engine.Run(ctx, []models.SongQuery{"song"}, target, BatchOpts{}, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if report != nil {
			t.Errorf("expected nil report on abort, got %+v", report)
		}
	})

	t.Run("emits progress updates without blocking", func(t *testing.T) {
		client := &mockClient{
			searchResults: map[string][]services.SearchResult{
				searchKey("song", services.CategorySongs): {songResult("vid1", "Song", "A")},
			},
		}
		engine := newTestEngine(client, nil)

		progress := make(chan ProgressUpdate, 16)
		_, err := engine.Run(context.Background(), []models.SongQuery{"song", "nope"}, target, BatchOpts{}, progress)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		var phases []Phase
		var results []Result
		for update := range progress {
			phases = append(phases, update.Phase)
			if update.Result != ResultNone {
				results = append(results, update.Result)
			}
		}

		if phases[0] != CreatePlaylist {
			t.Errorf("expected first update to be create_playlist, got %s", phases[0])
		}
		if phases[len(phases)-1] != BatchDone {
			t.Errorf("expected last update to be batch_done, got %s", phases[len(phases)-1])
		}
		if len(results) != 2 || results[0] != ResultAdded || results[1] != ResultNotFound {
			t.Errorf("unexpected per-query results: %v", results)
		}
	})

	t.Run("full channel never stalls the run", func(t *testing.T) {
		client := &mockClient{
			searchResults: map[string][]services.SearchResult{
				searchKey("song", services.CategorySongs): {songResult("vid1", "Song", "A")},
			},
		}
		engine := newTestEngine(client, nil)

		progress := make(chan ProgressUpdate) // unbuffered, nobody reads
		done := make(chan struct{})
		go func() {
			defer close(done)
			if _, err := engine.Run(context.Background(), []models.SongQuery{"song"}, target, BatchOpts{}, progress); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("run blocked on progress channel")
		}
	})

	t.Run("fails without client", func(t *testing.T) {
		engine := NewPlaylistEngine(EngineOpts{Logger: quietLogger()})

		_, err := engine.Run(context.Background(), nil, target, BatchOpts{}, nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

// memoryCache is an in-process ResolutionCacher for engine tests.
type memoryCache struct {
	entries map[string]models.TrackReference
	lookups int
	stores  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]models.TrackReference)}
}

func cacheKey(query string, perfectMatch bool) string {
	return fmt.Sprintf("%s|%t", query, perfectMatch)
}

func (c *memoryCache) Lookup(query string, perfectMatch bool) (*models.TrackReference, bool) {
	c.lookups++
	track, ok := c.entries[cacheKey(query, perfectMatch)]
	if !ok {
		return nil, false
	}
	return &track, true
}

func (c *memoryCache) Store(query string, perfectMatch bool, track models.TrackReference) {
	c.stores++
	c.entries[cacheKey(query, perfectMatch)] = track
}

func TestRunWithCache(t *testing.T) {
	target := models.PlaylistTarget{ID: "PL_test", Title: "Test"}

	t.Run("stores resolutions and skips repeat searches", func(t *testing.T) {
		client := &mockClient{
			searchResults: map[string][]services.SearchResult{
				searchKey("song", services.CategorySongs): {songResult("vid1", "Song", "A")},
			},
		}
		cache := newMemoryCache()
		engine := newTestEngine(client, cache)

		if _, err := engine.Run(context.Background(), []models.SongQuery{"song"}, target, BatchOpts{}, nil); err != nil {
			t.Fatalf("first run: %v", err)
		}
		firstSearches := len(client.searchCalls)

		if _, err := engine.Run(context.Background(), []models.SongQuery{"song"}, target, BatchOpts{}, nil); err != nil {
			t.Fatalf("second run: %v", err)
		}

		if cache.stores != 1 {
			t.Errorf("expected 1 cache store, got %d", cache.stores)
		}
		if len(client.searchCalls) != firstSearches {
			t.Errorf("expected no further searches after cache hit, got %d more",
				len(client.searchCalls)-firstSearches)
		}
	})

	t.Run("perfect match resolutions are keyed separately", func(t *testing.T) {
		client := &mockClient{
			searchResults: map[string][]services.SearchResult{
				searchKey("song", services.CategorySongs):   {songResult("vid1", "Song", "A")},
				searchKey(`"song"`, services.CategorySongs): {songResult("vid2", "Song", "A")},
			},
		}
		cache := newMemoryCache()
		engine := newTestEngine(client, cache)

		if _, err := engine.Run(context.Background(), []models.SongQuery{"song"}, target, BatchOpts{}, nil); err != nil {
			t.Fatalf("loose run: %v", err)
		}
		if _, err := engine.Run(context.Background(), []models.SongQuery{"song"}, target, BatchOpts{PerfectMatch: true}, nil); err != nil {
			t.Fatalf("perfect run: %v", err)
		}

		if cache.stores != 2 {
			t.Errorf("expected 2 cache stores, got %d", cache.stores)
		}
	})
}
