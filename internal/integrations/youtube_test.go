package integrations_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabinkim0318/weather-dashboard/internal/integrations"
)

func ytPayload(videoID, title string) map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{
				"id": map[string]any{"videoId": videoID},
				"snippet": map[string]any{
					"title":       title,
					"description": "desc",
					"thumbnails": map[string]any{
						"high": map[string]any{"url": "https://img.example/" + videoID + ".jpg"},
					},
				},
			},
		},
	}
}

func TestFetchCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "snippet", q.Get("part"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "Seoul weather forecast today", q.Get("q"))
		assert.Equal(t, "test-key", q.Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ytPayload("abc123", "Seoul Weather"))
	}))
	defer srv.Close()

	c := integrations.NewYouTubeClientWithURL(srv.URL, "test-key")
	videos, err := c.FetchCategory(context.Background(), "Seoul", "weather")
	require.NoError(t, err)
	require.Len(t, videos, 1)

	v := videos[0]
	assert.Equal(t, "abc123", v.VideoID)
	assert.Equal(t, "weather", v.Category)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", v.EmbedURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", v.WatchURL)
	assert.Equal(t, "https://img.example/abc123.jpg", v.Thumbnail)
}

func TestFetchCategory_MissingKey(t *testing.T) {
	c := integrations.NewYouTubeClientWithURL("http://unused", "")
	_, err := c.FetchCategory(context.Background(), "Seoul", "weather")
	require.ErrorIs(t, err, integrations.ErrNotConfigured)
}

func TestFetchCategory_RejectedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := integrations.NewYouTubeClientWithURL(srv.URL, "revoked-key")
	_, err := c.FetchCategory(context.Background(), "Seoul", "weather")
	require.ErrorIs(t, err, integrations.ErrNotConfigured)
}

func TestFetchCategory_SkipsEmptyIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": map[string]any{}, "snippet": map[string]any{"title": "channel hit"}},
			},
		})
	}))
	defer srv.Close()

	c := integrations.NewYouTubeClientWithURL(srv.URL, "test-key")
	videos, err := c.FetchCategory(context.Background(), "Seoul", "weekend")
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestFetchAll_CategoryOrder(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query().Get("q")
		id := "w1"
		switch {
		case q == "top 10 best restaurants in Seoul food guide":
			id = "r1"
		case q == "fun things to do in Seoul":
			id = "f1"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ytPayload(id, q))
	}))
	defer srv.Close()

	c := integrations.NewYouTubeClientWithURL(srv.URL, "test-key")
	videos, err := c.FetchAll(context.Background(), "Seoul")
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, videos, 3)
	// Fixed category order regardless of fetch completion order.
	assert.Equal(t, "weather", videos[0].Category)
	assert.Equal(t, "restaurants", videos[1].Category)
	assert.Equal(t, "weekend", videos[2].Category)
}

func TestFetchAll_OneCategoryFailureFailsCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "fun things to do in Seoul" {
			http.Error(w, "quota exceeded", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ytPayload("ok", "ok"))
	}))
	defer srv.Close()

	c := integrations.NewYouTubeClientWithURL(srv.URL, "test-key")
	_, err := c.FetchAll(context.Background(), "Seoul")
	require.Error(t, err)
}
