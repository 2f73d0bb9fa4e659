// Package search talks to the external video-metadata search collaborator.
// Like the rest of the collaborators it is optional: when unconfigured the
// search endpoint is simply not mounted.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Yekna/dj-jukebox/internal/errs"
)

// VideoResult is one candidate video reference for a query.
type VideoResult struct {
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	VideoURL  string `json:"video_url"`
}

// Client queries the search collaborator over HTTP JSON.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a search client. timeout bounds each request.
func NewClient(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// collaborator response shape (YouTube Data API style).
type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title      string `json:"title"`
			Thumbnails struct {
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search returns candidate videos for the query. Rate limiting by the
// collaborator surfaces as ErrSearchRateLimited; any other failure as
// ErrSearchUnavailable.
func (c *Client) Search(ctx context.Context, query string) ([]VideoResult, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("maxResults", "10")
	q.Set("q", query)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSearchUnavailable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("search request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", errs.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		// 403 is how quota exhaustion comes back from the YouTube-style API.
		c.log.Warn("search rate limited", zap.Int("status", resp.StatusCode))
		return nil, errs.ErrSearchRateLimited
	case resp.StatusCode != http.StatusOK:
		c.log.Warn("search returned non-200", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", errs.ErrSearchUnavailable, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", errs.ErrSearchUnavailable, err)
	}
	out := make([]VideoResult, 0, len(body.Items))
	for _, it := range body.Items {
		if it.ID.VideoID == "" {
			continue
		}
		out = append(out, VideoResult{
			VideoID:   it.ID.VideoID,
			Title:     it.Snippet.Title,
			Thumbnail: it.Snippet.Thumbnails.Default.URL,
			VideoURL:  "https://www.youtube.com/watch?v=" + it.ID.VideoID,
		})
	}
	return out, nil
}
