package search_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Yekna/dj-jukebox/internal/errs"
	"github.com/Yekna/dj-jukebox/internal/search"
)

func TestClient_Search(t *testing.T) {
	t.Run("decodes candidate videos", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "daft punk", r.URL.Query().Get("q"))
			assert.Equal(t, "secret", r.URL.Query().Get("key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"items": [
					{"id": {"videoId": "abc"}, "snippet": {"title": "One More Time", "thumbnails": {"default": {"url": "http://img/abc"}}}},
					{"id": {"videoId": ""}, "snippet": {"title": "channel result, no video id"}},
					{"id": {"videoId": "def"}, "snippet": {"title": "Around The World"}}
				]
			}`))
		}))
		defer srv.Close()

		c := search.NewClient(srv.URL, "secret", time.Second, zap.NewNop())
		results, err := c.Search(context.Background(), "daft punk")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "abc", results[0].VideoID)
		assert.Equal(t, "One More Time", results[0].Title)
		assert.Equal(t, "http://img/abc", results[0].Thumbnail)
		assert.Equal(t, "https://www.youtube.com/watch?v=abc", results[0].VideoURL)
		assert.Equal(t, "def", results[1].VideoID)
	})

	t.Run("maps 429 to rate limited", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := search.NewClient(srv.URL, "", time.Second, zap.NewNop())
		_, err := c.Search(context.Background(), "q")
		assert.ErrorIs(t, err, errs.ErrSearchRateLimited)
	})

	t.Run("maps quota 403 to rate limited", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		c := search.NewClient(srv.URL, "", time.Second, zap.NewNop())
		_, err := c.Search(context.Background(), "q")
		assert.ErrorIs(t, err, errs.ErrSearchRateLimited)
	})

	t.Run("maps server errors to unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := search.NewClient(srv.URL, "", time.Second, zap.NewNop())
		_, err := c.Search(context.Background(), "q")
		assert.ErrorIs(t, err, errs.ErrSearchUnavailable)
	})

	t.Run("maps transport failure to unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse connections

		c := search.NewClient(srv.URL, "", time.Second, zap.NewNop())
		_, err := c.Search(context.Background(), "q")
		assert.ErrorIs(t, err, errs.ErrSearchUnavailable)
	})
}
