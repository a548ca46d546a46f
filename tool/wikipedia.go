package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tmc/langchaingo/tools"
)

// Wikipedia is a tool that looks up article summaries through the MediaWiki
// query API. Like DuckDuckGoSearch it needs no API key.
type Wikipedia struct {
	BaseURL string

	client *http.Client
}

var _ tools.Tool = (*Wikipedia)(nil)

type WikipediaOption func(*Wikipedia)

// WithWikipediaBaseURL sets the MediaWiki API endpoint. The default is the
// English Wikipedia; pass another language edition or a test server here.
func WithWikipediaBaseURL(baseURL string) WikipediaOption {
	return func(w *Wikipedia) {
		w.BaseURL = baseURL
	}
}

// WithWikipediaHTTPClient sets the HTTP client used for requests.
func WithWikipediaHTTPClient(client *http.Client) WikipediaOption {
	return func(w *Wikipedia) {
		w.client = client
	}
}

// NewWikipedia creates a new Wikipedia tool.
func NewWikipedia(opts ...WikipediaOption) *Wikipedia {
	w := &Wikipedia{
		BaseURL: "https://en.wikipedia.org/w/api.php",
		client:  http.DefaultClient,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Name returns the name of the tool.
func (w *Wikipedia) Name() string {
	return "Wikipedia"
}

// Description returns the description of the tool.
func (w *Wikipedia) Description() string {
	return "Looks up a topic on Wikipedia and returns the article summary. " +
		"Useful for factual questions about people, places and concepts. " +
		"Input should be the article title."
}

type wikipediaPage struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

type wikipediaResponse struct {
	Query struct {
		Pages map[string]wikipediaPage `json:"pages"`
	} `json:"query"`
}

// Call fetches the article summary.
func (w *Wikipedia) Call(ctx context.Context, input string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("format", "json")
	params.Set("titles", input)

	reqURL := fmt.Sprintf("%s?%s", w.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia api returned status: %d", resp.StatusCode)
	}

	var result wikipediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	// The API keys pages by numeric id; a missing article shows up as id "-1"
	// with no extract.
	for id, page := range result.Query.Pages {
		if id == "-1" || page.Extract == "" {
			continue
		}
		return page.Extract, nil
	}

	return fmt.Sprintf("No Wikipedia page found for %q", input), nil
}
