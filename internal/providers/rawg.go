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

// RAWGClient fetches videogame metadata from the RAWG API. A key is required
// for every call.
type RAWGClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewRAWGClient creates a RAWG client.
func NewRAWGClient(apiKey string) *RAWGClient {
	return &RAWGClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.rawg.io/api",
		apiKey:     apiKey,
	}
}

// HasKey reports whether the client was configured with an API key.
func (c *RAWGClient) HasKey() bool {
	return c.apiKey != ""
}

// GameResult is the best game match for a title search. Rating is already on
// RAWG's 0-5 scale, unlike TMDB's 0-10.
type GameResult struct {
	Source          string   `json:"source"`
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Released        string   `json:"released"`
	BackgroundImage string   `json:"background_image"`
	Rating          float64  `json:"rating"`
	Playtime        int      `json:"playtime"` // hours
	Genres          []string `json:"genres"`
	Platforms       []string `json:"platforms"`
}

// GameDetails extends the search hit with the fields only the per-game
// endpoint returns.
type GameDetails struct {
	GameResult
	Description string   `json:"description"`
	Developers  []string `json:"developers"`
	Website     string   `json:"website"`
}

// Search returns the single best game for a title, or ErrNoMatch. Blank
// titles short-circuit without touching the network.
func (c *RAWGClient) Search(ctx context.Context, title string) (*GameResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrNoMatch
	}
	if c.apiKey == "" {
		return nil, &CredentialError{Provider: SourceRAWG}
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("search", title)
	q.Set("page_size", "1")

	var payload struct {
		Results []rawgGame `json:"results"`
	}
	if err := c.get(ctx, "/games", q, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, ErrNoMatch
	}

	result := payload.Results[0].toResult()
	return &result, nil
}

// Details fetches the full record for one game.
func (c *RAWGClient) Details(ctx context.Context, id int) (*GameDetails, error) {
	if c.apiKey == "" {
		return nil, &CredentialError{Provider: SourceRAWG}
	}

	q := url.Values{}
	q.Set("key", c.apiKey)

	var payload rawgGame
	if err := c.get(ctx, fmt.Sprintf("/games/%d", id), q, &payload); err != nil {
		return nil, err
	}

	details := &GameDetails{
		GameResult:  payload.toResult(),
		Description: payload.DescriptionRaw,
		Website:     payload.Website,
	}
	for _, dev := range payload.Developers {
		details.Developers = append(details.Developers, dev.Name)
	}
	return details, nil
}

func (c *RAWGClient) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rawg request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &CredentialError{Provider: SourceRAWG}
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNoMatch
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rawg: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode rawg response: %w", err)
	}
	return nil
}

// RAWG API response types (internal)

type rawgGame struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Released        string  `json:"released"`
	BackgroundImage string  `json:"background_image"`
	Rating          float64 `json:"rating"`
	Playtime        int     `json:"playtime"`
	DescriptionRaw  string  `json:"description_raw"`
	Website         string  `json:"website"`
	Genres          []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Platforms []struct {
		Platform struct {
			Name string `json:"name"`
		} `json:"platform"`
	} `json:"platforms"`
	Developers []struct {
		Name string `json:"name"`
	} `json:"developers"`
}

func (g rawgGame) toResult() GameResult {
	result := GameResult{
		Source:          SourceRAWG,
		ID:              g.ID,
		Name:            g.Name,
		Released:        g.Released,
		BackgroundImage: g.BackgroundImage,
		Rating:          g.Rating,
		Playtime:        g.Playtime,
	}
	for _, genre := range g.Genres {
		result.Genres = append(result.Genres, genre.Name)
	}
	for _, p := range g.Platforms {
		result.Platforms = append(result.Platforms, p.Platform.Name)
	}
	return result
}
