package tool

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tmc/langchaingo/tools"
)

// WebReader is a tool that fetches a web page and returns its visible text.
// Script and style elements are stripped and whitespace is collapsed so the
// result stays digestible for a model.
type WebReader struct {
	// MaxLength caps the returned text in runes. Zero means no cap.
	MaxLength int

	client *http.Client
}

var _ tools.Tool = (*WebReader)(nil)

type WebReaderOption func(*WebReader)

// WithWebReaderMaxLength caps the extracted text at n runes.
func WithWebReaderMaxLength(n int) WebReaderOption {
	return func(w *WebReader) {
		w.MaxLength = n
	}
}

// WithWebReaderHTTPClient sets the HTTP client used for requests.
func WithWebReaderHTTPClient(client *http.Client) WebReaderOption {
	return func(w *WebReader) {
		w.client = client
	}
}

// NewWebReader creates a new WebReader tool.
func NewWebReader(opts ...WebReaderOption) *WebReader {
	w := &WebReader{
		MaxLength: 8000,
		client:    http.DefaultClient,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Name returns the name of the tool.
func (w *WebReader) Name() string {
	return "Web_Reader"
}

// Description returns the description of the tool.
func (w *WebReader) Description() string {
	return "Fetches a web page and returns its text content. " +
		"Useful for reading articles or documentation found by a search tool. " +
		"Input should be a full URL including the scheme."
}

// Call fetches the page and extracts its text.
func (w *WebReader) Call(ctx context.Context, input string) (string, error) {
	pageURL := strings.TrimSpace(input)

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status code %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	text := doc.Find("body").Text()
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", fmt.Errorf("no text content found at %s", pageURL)
	}

	if w.MaxLength > 0 {
		if runes := []rune(text); len(runes) > w.MaxLength {
			text = string(runes[:w.MaxLength]) + "..."
		}
	}

	return text, nil
}
