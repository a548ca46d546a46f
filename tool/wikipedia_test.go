package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikipedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "query", r.URL.Query().Get("action"))
		assert.Equal(t, "extracts", r.URL.Query().Get("prop"))
		assert.Equal(t, "Python", r.URL.Query().Get("titles"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"query": {
				"pages": {
					"12345": {
						"title": "Python (programming language)",
						"extract": "Python is a high-level programming language."
					}
				}
			}
		}`))
	}))
	defer server.Close()

	wiki := NewWikipedia(
		WithWikipediaBaseURL(server.URL),
		WithWikipediaHTTPClient(server.Client()),
	)

	result, err := wiki.Call(context.Background(), "Python")
	require.NoError(t, err)
	assert.Equal(t, "Python is a high-level programming language.", result)
}

func TestWikipediaMissingPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"query": {
				"pages": {
					"-1": {"title": "NoSuchPage", "missing": ""}
				}
			}
		}`))
	}))
	defer server.Close()

	wiki := NewWikipedia(WithWikipediaBaseURL(server.URL))

	result, err := wiki.Call(context.Background(), "NoSuchPage")
	require.NoError(t, err)
	assert.Contains(t, result, "No Wikipedia page found")
}

func TestWikipediaInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{invalid json}`))
	}))
	defer server.Close()

	wiki := NewWikipedia(WithWikipediaBaseURL(server.URL))

	_, err := wiki.Call(context.Background(), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}
