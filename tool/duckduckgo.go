package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tmc/langchaingo/tools"
)

// DuckDuckGoSearch is a tool that queries the DuckDuckGo instant answer API.
// It needs no API key, which makes it the default search tool for agents that
// have no search credentials configured.
type DuckDuckGoSearch struct {
	BaseURL    string
	MaxResults int

	client *http.Client
}

var _ tools.Tool = (*DuckDuckGoSearch)(nil)

type DuckDuckGoOption func(*DuckDuckGoSearch)

// WithDuckDuckGoBaseURL sets the API endpoint. Useful for tests.
func WithDuckDuckGoBaseURL(baseURL string) DuckDuckGoOption {
	return func(d *DuckDuckGoSearch) {
		d.BaseURL = baseURL
	}
}

// WithDuckDuckGoMaxResults sets how many related topics to include (1-10).
func WithDuckDuckGoMaxResults(n int) DuckDuckGoOption {
	return func(d *DuckDuckGoSearch) {
		if n < 1 {
			n = 1
		}
		if n > 10 {
			n = 10
		}
		d.MaxResults = n
	}
}

// WithDuckDuckGoHTTPClient sets the HTTP client used for requests.
func WithDuckDuckGoHTTPClient(client *http.Client) DuckDuckGoOption {
	return func(d *DuckDuckGoSearch) {
		d.client = client
	}
}

// NewDuckDuckGoSearch creates a new DuckDuckGoSearch tool.
func NewDuckDuckGoSearch(opts ...DuckDuckGoOption) *DuckDuckGoSearch {
	d := &DuckDuckGoSearch{
		BaseURL:    "https://api.duckduckgo.com/",
		MaxResults: 5,
		client:     http.DefaultClient,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Name returns the name of the tool.
func (d *DuckDuckGoSearch) Name() string {
	return "DuckDuckGo_Search"
}

// Description returns the description of the tool.
func (d *DuckDuckGoSearch) Description() string {
	return "A search engine that requires no API key. " +
		"Useful for answering questions about well-known topics, places and people. " +
		"Input should be a search query."
}

type duckduckgoTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

type duckduckgoResponse struct {
	Heading       string            `json:"Heading"`
	Answer        string            `json:"Answer"`
	AbstractText  string            `json:"AbstractText"`
	AbstractURL   string            `json:"AbstractURL"`
	RelatedTopics []duckduckgoTopic `json:"RelatedTopics"`
}

// Call executes the search.
func (d *DuckDuckGoSearch) Call(ctx context.Context, input string) (string, error) {
	params := url.Values{}
	params.Set("q", input)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	reqURL := fmt.Sprintf("%s?%s", d.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("duckduckgo api returned status: %d", resp.StatusCode)
	}

	var result duckduckgoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var sb strings.Builder

	if result.Answer != "" {
		sb.WriteString(result.Answer)
		sb.WriteString("\n\n")
	}
	if result.AbstractText != "" {
		sb.WriteString(result.AbstractText)
		if result.AbstractURL != "" {
			sb.WriteString(fmt.Sprintf("\nSource: %s", result.AbstractURL))
		}
		sb.WriteString("\n\n")
	}

	count := 0
	for _, topic := range result.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		count++
		if count > d.MaxResults {
			break
		}
		sb.WriteString(fmt.Sprintf("%d. %s\nURL: %s\n\n", count, topic.Text, topic.FirstURL))
	}

	if sb.Len() == 0 {
		return "No results found", nil
	}

	return strings.TrimSpace(sb.String()), nil
}
