// Package providers implements the external metadata API clients: TMDB for
// audiovisual items, Google Books for books and RAWG for videogames. Every
// result carries a Source tag so downstream code always knows which provider
// produced it.
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

// Source tags attached to provider results.
const (
	SourceTMDB        = "tmdb"
	SourceGoogleBooks = "googlebooks"
	SourceRAWG        = "rawg"
)

const tmdbImageBase = "https://image.tmdb.org/t/p/w500"

// TMDBClient fetches movie and TV metadata from The Movie Database API.
type TMDBClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	language   string
	region     string
}

// NewTMDBClient creates a TMDB client. language is passed on every call
// ("es-ES" by default upstream); region selects the watch-provider country.
func NewTMDBClient(apiKey, language, region string) *TMDBClient {
	return &TMDBClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.themoviedb.org/3",
		apiKey:     apiKey,
		language:   language,
		region:     region,
	}
}

// HasKey reports whether the client was configured with an API key.
func (c *TMDBClient) HasKey() bool {
	return c.apiKey != ""
}

// TMDBMatch is a single search hit, tagged with its source.
type TMDBMatch struct {
	Source       string  `json:"source"`
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
}

// TMDBDetails is the full record for one movie or TV show, already flattened
// from the API's nested append_to_response payload.
type TMDBDetails struct {
	Source             string   `json:"source"`
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Overview           string   `json:"overview"`
	Tagline            string   `json:"tagline"`
	PosterURL          string   `json:"poster_url"`
	BackdropURL        string   `json:"backdrop_url"`
	VoteAverage        float64  `json:"vote_average"`
	ReleaseDate        string   `json:"release_date"` // "YYYY-MM-DD"; first air date for TV
	Runtime            int      `json:"runtime"`      // minutes; per-episode for TV
	NumberOfSeasons    int      `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes   int      `json:"number_of_episodes,omitempty"`
	Genres             []string `json:"genres"`
	Director           string   `json:"director"`
	Cast               []string `json:"cast"`
	TrailerURL         string   `json:"trailer_url"`
	StreamingPlatforms []string `json:"streaming_platforms"`
}

// SearchMovie returns the first movie matching the title, or ErrNoMatch.
// Blank titles short-circuit without touching the network.
func (c *TMDBClient) SearchMovie(ctx context.Context, title string) (*TMDBMatch, error) {
	return c.search(ctx, "/search/movie", title)
}

// SearchTV returns the first TV show matching the title, or ErrNoMatch.
// Anime is searched here too; TMDB models it as TV.
func (c *TMDBClient) SearchTV(ctx context.Context, title string) (*TMDBMatch, error) {
	return c.search(ctx, "/search/tv", title)
}

func (c *TMDBClient) search(ctx context.Context, path, title string) (*TMDBMatch, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrNoMatch
	}
	if c.apiKey == "" {
		return nil, &CredentialError{Provider: SourceTMDB}
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)
	q.Set("query", title)
	q.Set("page", "1")

	var payload struct {
		Results []struct {
			ID           int     `json:"id"`
			Title        string  `json:"title"`
			Name         string  `json:"name"` // TV shows use name instead of title
			Overview     string  `json:"overview"`
			PosterPath   string  `json:"poster_path"`
			BackdropPath string  `json:"backdrop_path"`
			VoteAverage  float64 `json:"vote_average"`
			ReleaseDate  string  `json:"release_date"`
			FirstAirDate string  `json:"first_air_date"`
		} `json:"results"`
	}
	if err := c.get(ctx, path, q, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, ErrNoMatch
	}

	first := payload.Results[0]
	match := &TMDBMatch{
		Source:       SourceTMDB,
		ID:           first.ID,
		Title:        first.Title,
		Overview:     first.Overview,
		PosterPath:   first.PosterPath,
		BackdropPath: first.BackdropPath,
		VoteAverage:  first.VoteAverage,
		ReleaseDate:  first.ReleaseDate,
	}
	if match.Title == "" {
		match.Title = first.Name
	}
	if match.ReleaseDate == "" {
		match.ReleaseDate = first.FirstAirDate
	}
	return match, nil
}

// MovieDetails fetches the full movie record including credits, videos and
// watch providers in a single request.
func (c *TMDBClient) MovieDetails(ctx context.Context, id int) (*TMDBDetails, error) {
	raw, err := c.details(ctx, fmt.Sprintf("/movie/%d", id))
	if err != nil {
		return nil, err
	}

	details := c.commonDetails(raw)
	details.Title = raw.Title
	details.Runtime = raw.Runtime
	details.Director = raw.Credits.director()
	return details, nil
}

// TVDetails fetches the full TV record. Runtime is the typical episode length.
func (c *TMDBClient) TVDetails(ctx context.Context, id int) (*TMDBDetails, error) {
	raw, err := c.details(ctx, fmt.Sprintf("/tv/%d", id))
	if err != nil {
		return nil, err
	}

	details := c.commonDetails(raw)
	details.Title = raw.Name
	details.ReleaseDate = raw.FirstAirDate
	details.NumberOfSeasons = raw.NumberOfSeasons
	details.NumberOfEpisodes = raw.NumberOfEpisodes
	if len(raw.EpisodeRunTime) > 0 {
		details.Runtime = raw.EpisodeRunTime[0]
	}
	return details, nil
}

func (c *TMDBClient) details(ctx context.Context, path string) (*tmdbDetailsPayload, error) {
	if c.apiKey == "" {
		return nil, &CredentialError{Provider: SourceTMDB}
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)
	q.Set("append_to_response", "videos,credits,watch/providers")

	var payload tmdbDetailsPayload
	if err := c.get(ctx, path, q, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *TMDBClient) commonDetails(raw *tmdbDetailsPayload) *TMDBDetails {
	details := &TMDBDetails{
		Source:             SourceTMDB,
		ID:                 raw.ID,
		Overview:           raw.Overview,
		Tagline:            raw.Tagline,
		PosterURL:          ImageURL(raw.PosterPath),
		BackdropURL:        ImageURL(raw.BackdropPath),
		VoteAverage:        raw.VoteAverage,
		ReleaseDate:        raw.ReleaseDate,
		Genres:             raw.genreNames(),
		Cast:               raw.Credits.topCast(5),
		TrailerURL:         raw.Videos.trailerURL(),
		StreamingPlatforms: raw.WatchProviders.flatrate(c.region),
	}
	return details
}

func (c *TMDBClient) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return &CredentialError{Provider: SourceTMDB}
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNoMatch
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}

// ImageURL turns a TMDB image path into a full w500 URL. Empty paths stay
// empty rather than pointing at the bare base.
func ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbImageBase + path
}

// TMDB API response types (internal)

type tmdbDetailsPayload struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	Tagline          string  `json:"tagline"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	Runtime          int     `json:"runtime"`
	EpisodeRunTime   []int   `json:"episode_run_time"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits        tmdbCredits        `json:"credits"`
	Videos         tmdbVideos         `json:"videos"`
	WatchProviders tmdbWatchProviders `json:"watch/providers"`
}

func (p *tmdbDetailsPayload) genreNames() []string {
	names := make([]string, 0, len(p.Genres))
	for _, g := range p.Genres {
		names = append(names, g.Name)
	}
	return names
}

type tmdbCredits struct {
	Cast []struct {
		Name string `json:"name"`
	} `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

func (c tmdbCredits) director() string {
	for _, member := range c.Crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}

func (c tmdbCredits) topCast(n int) []string {
	names := make([]string, 0, n)
	for _, member := range c.Cast {
		names = append(names, member.Name)
		if len(names) == n {
			break
		}
	}
	return names
}

type tmdbVideos struct {
	Results []struct {
		Key      string `json:"key"`
		Site     string `json:"site"`
		Type     string `json:"type"`
		Official bool   `json:"official"`
	} `json:"results"`
}

// trailerURL prefers an official YouTube trailer, falling back to any YouTube
// trailer when no official one exists.
func (v tmdbVideos) trailerURL() string {
	fallback := ""
	for _, video := range v.Results {
		if video.Site != "YouTube" || video.Type != "Trailer" {
			continue
		}
		if video.Official {
			return "https://www.youtube.com/watch?v=" + video.Key
		}
		if fallback == "" {
			fallback = "https://www.youtube.com/watch?v=" + video.Key
		}
	}
	return fallback
}

type tmdbWatchProviders struct {
	Results map[string]struct {
		Flatrate []struct {
			ProviderName string `json:"provider_name"`
		} `json:"flatrate"`
	} `json:"results"`
}

// flatrate returns the deduplicated subscription platform names for a region.
func (w tmdbWatchProviders) flatrate(region string) []string {
	entry, ok := w.Results[region]
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var names []string
	for _, p := range entry.Flatrate {
		if p.ProviderName == "" || seen[p.ProviderName] {
			continue
		}
		seen[p.ProviderName] = true
		names = append(names, p.ProviderName)
	}
	return names
}
