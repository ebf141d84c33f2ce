package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GoogleBooksClient fetches book metadata from the Google Books volumes API.
// Unlike the other providers, the API key is optional: anonymous requests work
// with tighter quotas.
type GoogleBooksClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	language   string
}

// NewGoogleBooksClient creates a Google Books client. language restricts
// results (langRestrict); pass the two-letter code, not a locale.
func NewGoogleBooksClient(apiKey, language string) *GoogleBooksClient {
	return &GoogleBooksClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://www.googleapis.com/books/v1",
		apiKey:     apiKey,
		language:   language,
	}
}

// BookResult is the best volume match for a title search.
type BookResult struct {
	Source      string   `json:"source"`
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Publisher   string   `json:"publisher"`
	Description string   `json:"description"`
	PageCount   int      `json:"page_count"`
	Categories  []string `json:"categories"`
	CoverURL    string   `json:"cover_url"`
	Rating      float64  `json:"rating"` // 0-5, Google's own scale
}

// Search returns the single best volume for a title, or ErrNoMatch. Blank
// titles short-circuit without touching the network.
func (c *GoogleBooksClient) Search(ctx context.Context, title string) (*BookResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrNoMatch
	}

	q := url.Values{}
	q.Set("q", "intitle:"+title)
	q.Set("maxResults", "1")
	if c.language != "" {
		q.Set("langRestrict", c.language)
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/volumes?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google books request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &CredentialError{Provider: SourceGoogleBooks}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			ID         string `json:"id"`
			VolumeInfo struct {
				Title         string   `json:"title"`
				Authors       []string `json:"authors"`
				Publisher     string   `json:"publisher"`
				Description   string   `json:"description"`
				PageCount     int      `json:"pageCount"`
				Categories    []string `json:"categories"`
				AverageRating float64  `json:"averageRating"`
				ImageLinks    struct {
					Thumbnail string `json:"thumbnail"`
				} `json:"imageLinks"`
			} `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode google books response: %w", err)
	}
	if len(payload.Items) == 0 {
		return nil, ErrNoMatch
	}

	info := payload.Items[0].VolumeInfo
	return &BookResult{
		Source:      SourceGoogleBooks,
		ID:          payload.Items[0].ID,
		Title:       info.Title,
		Authors:     info.Authors,
		Publisher:   info.Publisher,
		Description: info.Description,
		PageCount:   info.PageCount,
		Categories:  info.Categories,
		CoverURL:    forceHTTPS(info.ImageLinks.Thumbnail),
		Rating:      info.AverageRating,
	}, nil
}

// forceHTTPS upgrades the http:// thumbnail links Google Books still emits.
func forceHTTPS(u string) string {
	return strings.Replace(u, "http://", "https://", 1)
}
