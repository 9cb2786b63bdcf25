package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client is the TMDB API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger.With(zap.String("component", "tmdb")),
	}
}

// ---- TMDB Response Types ----

// PopularResponse is the TMDB tv/popular response.
type PopularResponse struct {
	Page         int      `json:"page"`
	Results      []TVShow `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// TVShow is a show from TMDB list results.
type TVShow struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
}

// TVDetail is the detailed show info from TMDB.
type TVDetail struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedBy []Creator `json:"created_by"`
	Genres    []Genre   `json:"genres"`
}

// Creator is one entry of a show's created_by list.
type Creator struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Genre is a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Season is the TMDB tv/{id}/season/{n} response.
type Season struct {
	SeasonNumber int       `json:"season_number"`
	Episodes     []Episode `json:"episodes"`
}

// Episode is one episode of a TMDB season.
type Episode struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	EpisodeNumber int     `json:"episode_number"`
	SeasonNumber  int     `json:"season_number"`
	Runtime       int     `json:"runtime"`
	StillPath     string  `json:"still_path"`
	VoteAverage   float64 `json:"vote_average"`
}

// CreatorName returns the first creator's name, or "Unknown" when TMDB lists none.
func (d *TVDetail) CreatorName() string {
	if d == nil || len(d.CreatedBy) == 0 || d.CreatedBy[0].Name == "" {
		return "Unknown"
	}
	return d.CreatedBy[0].Name
}

// GenreNames returns the names of the show's genres.
func (d *TVDetail) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}

// ---- Client Methods ----

// PopularTV fetches one page of popular shows.
func (c *Client) PopularTV(ctx context.Context, page int) (*PopularResponse, error) {
	url := fmt.Sprintf("%s/tv/popular?api_key=%s&page=%d", c.baseURL, c.apiKey, page)

	c.logger.Debug("fetching TMDB popular tv", zap.Int("page", page))
	var result PopularResponse
	if err := c.getJSON(ctx, url, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch popular tv: %w", err)
	}
	return &result, nil
}

// ShowDetails fetches detailed show info.
func (c *Client) ShowDetails(ctx context.Context, showID int) (*TVDetail, error) {
	url := fmt.Sprintf("%s/tv/%d?api_key=%s", c.baseURL, showID, c.apiKey)

	c.logger.Debug("fetching TMDB show detail", zap.Int("tmdb_id", showID))
	var result TVDetail
	if err := c.getJSON(ctx, url, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch show %d: %w", showID, err)
	}
	return &result, nil
}

// SeasonEpisodes fetches the episodes of one season of a show.
func (c *Client) SeasonEpisodes(ctx context.Context, showID, season int) (*Season, error) {
	url := fmt.Sprintf("%s/tv/%d/season/%d?api_key=%s", c.baseURL, showID, season, c.apiKey)

	c.logger.Debug("fetching TMDB season", zap.Int("tmdb_id", showID), zap.Int("season", season))
	var result Season
	if err := c.getJSON(ctx, url, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch season %d of show %d: %w", season, showID, err)
	}
	return &result, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	resp, err := c.doGet(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}
