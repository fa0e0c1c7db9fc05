// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/Jokaes/txt-to-youtube-music/internal/services"
)

// MockClient is a scriptable test double for [services.Client].
//
// Search results are keyed by category and query; add responses are consumed
// in order with the last entry repeating. The zero value answers every call
// successfully with empty data.
type MockClient struct {
	SearchResults map[string][]services.SearchResult
	SearchErr     error
	CreateID      string
	CreateErr     error
	AddResponses  []*services.AddItemsResponse
	AddErrs       []error
	PingErr       error

	SearchCalls int
	AddCalls    int
	addIndex    int
}

// SearchKey builds the map key for scripted search results.
func SearchKey(query string, category services.SearchCategory) string {
	return string(category) + "|" + query
}

func (m *MockClient) Search(_ context.Context, query string, category services.SearchCategory, _ int) ([]services.SearchResult, error) {
	m.SearchCalls++
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchResults[SearchKey(query, category)], nil
}

func (m *MockClient) CreatePlaylist(context.Context, string, string, string) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	if m.CreateID == "" {
		return "PL_mock", nil
	}
	return m.CreateID, nil
}

func (m *MockClient) AddPlaylistItems(context.Context, string, []string, bool) (*services.AddItemsResponse, error) {
	m.AddCalls++

	idx := m.addIndex
	if m.addIndex < len(m.AddResponses)-1 || m.addIndex < len(m.AddErrs)-1 {
		m.addIndex++
	}

	if idx < len(m.AddErrs) && m.AddErrs[idx] != nil {
		return nil, m.AddErrs[idx]
	}
	if idx < len(m.AddResponses) {
		return m.AddResponses[idx], nil
	}
	return &services.AddItemsResponse{Status: "STATUS_SUCCEEDED", Raw: []byte(`{"status":"STATUS_SUCCEEDED"}`)}, nil
}

func (m *MockClient) Ping(context.Context) error { return m.PingErr }

func (m *MockClient) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// WriteSongFile writes queries to a temp input file and returns its path.
func WriteSongFile(t *testing.T, dir string, lines string) string {
	t.Helper()
	path := dir + "/songs.txt"
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatalf("Failed to write song file: %v", err)
	}
	return path
}
