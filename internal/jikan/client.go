package jikan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/animechat/backend/internal/logger"
	"github.com/animechat/backend/internal/metrics"
	"go.uber.org/zap"
)

// Anime is one catalog record as returned by the Jikan API. Records are
// immutable once fetched; a nil Score means the catalog has no rating yet
// and ranks below every scored title.
type Anime struct {
	Title      string   `json:"title"`
	Score      *float64 `json:"score"`
	Synopsis   string   `json:"synopsis"`
	Episodes   int      `json:"episodes"`
	Status     string   `json:"status"`
	Genres     []string `json:"genres"`
	URL        string   `json:"url"`
	ImageURL   string   `json:"image_url,omitempty"`
	TrailerURL string   `json:"trailer_url,omitempty"`
}

// API is the catalog surface the resolver and recommender consume.
// *Client implements it against the live Jikan service.
type API interface {
	Search(ctx context.Context, query string) ([]Anime, error)
	Top(ctx context.Context) ([]Anime, error)
}

// Client performs catalog lookups against the Jikan REST API with bounded
// retry. It holds no cache: every call is a live lookup.
type Client struct {
	baseURL string
	client  *http.Client
	backoff BackoffPolicy
	clock   Clock
}

// NewClient creates a Jikan client. A zero-valued backoff falls back to
// DefaultBackoff; a nil clock falls back to time.Sleep.
func NewClient(baseURL string, timeout time.Duration, backoff BackoffPolicy, clock Clock) *Client {
	if backoff.MaxAttempts == 0 {
		backoff = DefaultBackoff()
	}
	if clock == nil {
		clock = RealClock()
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		backoff: backoff,
		clock:   clock,
	}
}

// Jikan v4 wire format
type animeEnvelope struct {
	Data []animeRecord `json:"data"`
}

type animeRecord struct {
	Title    string   `json:"title"`
	Score    *float64 `json:"score"`
	Synopsis string   `json:"synopsis"`
	Episodes *int     `json:"episodes"`
	Status   string   `json:"status"`
	URL      string   `json:"url"`
	Genres   []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Images struct {
		JPG struct {
			ImageURL string `json:"image_url"`
		} `json:"jpg"`
	} `json:"images"`
	Trailer struct {
		URL string `json:"url"`
	} `json:"trailer"`
}

func (r animeRecord) toAnime() Anime {
	genres := make([]string, 0, len(r.Genres))
	for _, g := range r.Genres {
		genres = append(genres, g.Name)
	}

	episodes := 0
	if r.Episodes != nil {
		episodes = *r.Episodes
	}

	return Anime{
		Title:      r.Title,
		Score:      r.Score,
		Synopsis:   r.Synopsis,
		Episodes:   episodes,
		Status:     r.Status,
		Genres:     genres,
		URL:        r.URL,
		ImageURL:   r.Images.JPG.ImageURL,
		TrailerURL: r.Trailer.URL,
	}
}

// Search looks up catalog entries matching a free-text query
func (c *Client) Search(ctx context.Context, query string) ([]Anime, error) {
	endpoint := "/anime?q=" + url.QueryEscape(query)
	return c.fetchList(ctx, "search", endpoint)
}

// Top returns the globally top-rated titles, used by the trending fallback
func (c *Client) Top(ctx context.Context) ([]Anime, error) {
	return c.fetchList(ctx, "top", "/top/anime")
}

// fetchList performs one logical lookup with retry. Exhausted retries
// surface the last error to the caller; callers decide whether that is
// fatal or an omission.
func (c *Client) fetchList(ctx context.Context, name, endpoint string) ([]Anime, error) {
	metrics.Get().CatalogRequests.WithLabelValues(name).Inc()

	var lastErr error
	for attempt := 0; attempt < c.backoff.MaxAttempts; attempt++ {
		if attempt > 0 {
			metrics.Get().CatalogRetries.WithLabelValues(name).Inc()
			c.clock.Sleep(c.backoff.Delay(attempt - 1))
		}

		envelope, err := c.doRequest(ctx, endpoint)
		if err == nil {
			results := make([]Anime, 0, len(envelope.Data))
			for _, record := range envelope.Data {
				results = append(results, record.toAnime())
			}
			return results, nil
		}

		lastErr = err
		logger.Log.Warn("catalog request failed",
			zap.String("endpoint", name),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		// Context cancellation is not transient; stop retrying.
		if ctx.Err() != nil {
			break
		}
	}

	metrics.Get().CatalogErrors.WithLabelValues(name).Inc()
	return nil, fmt.Errorf("catalog lookup failed after %d attempts: %w", c.backoff.MaxAttempts, lastErr)
}

// doRequest makes a single HTTP request to the Jikan API
func (c *Client) doRequest(ctx context.Context, endpoint string) (*animeEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("jikan API error: status %d", resp.StatusCode)
	}

	var envelope animeEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &envelope, nil
}
