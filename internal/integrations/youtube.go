// Package integrations proxies supplementary video and map content for a
// resolved location, shielding the front end from two vendor APIs.
package integrations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/nabinkim0318/weather-dashboard/internal/fetch"
)

// ErrNotConfigured marks a missing or rejected API credential, as opposed to
// a transient provider failure.
var ErrNotConfigured = errors.New("integration not configured")

const youtubeDefaultURL = "https://www.googleapis.com/youtube/v3/search"

// Video is a normalized YouTube search result.
type Video struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	EmbedURL    string `json:"embed_url"`
	WatchURL    string `json:"watch_url"`
	Category    string `json:"category"`
}

// Video categories and their query templates. Order fixes the response order.
var videoCategories = []string{"weather", "restaurants", "weekend"}

func categoryQuery(city, category string) string {
	switch category {
	case "weather":
		return city + " weather forecast today"
	case "restaurants":
		return "top 10 best restaurants in " + city + " food guide"
	case "weekend":
		return "fun things to do in " + city
	default:
		return city + " travel guide"
	}
}

// YouTubeClient fetches categorized videos from the YouTube Data API.
type YouTubeClient struct {
	apiKey         string
	baseURL        string
	client         *http.Client
	maxPerCategory int
}

// NewYouTubeClient constructs a client with the production search URL.
func NewYouTubeClient(apiKey string) *YouTubeClient {
	return &YouTubeClient{
		apiKey:         apiKey,
		baseURL:        youtubeDefaultURL,
		client:         fetch.NewHTTPClient(),
		maxPerCategory: 1,
	}
}

// NewYouTubeClientWithURL constructs a client pointing at a custom base URL (for tests).
func NewYouTubeClientWithURL(baseURL, apiKey string) *YouTubeClient {
	return &YouTubeClient{
		apiKey:         apiKey,
		baseURL:        baseURL,
		client:         fetch.NewHTTPClient(),
		maxPerCategory: 1,
	}
}

type ytSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Thumbnails  struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// FetchCategory searches videos for one city/category pair.
func (c *YouTubeClient) FetchCategory(ctx context.Context, city, category string) ([]Video, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("youtube: %w", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", categoryQuery(city, category))
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(c.maxPerCategory))
	params.Set("order", "relevance")
	params.Set("publishedAfter", "2023-01-01T00:00:00Z")
	params.Set("key", c.apiKey)

	var raw ytSearchResponse
	if err := fetch.Get(ctx, c.client, c.baseURL+"?"+params.Encode(), &raw); err != nil {
		var se *fetch.StatusError
		if errors.As(err, &se) && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) {
			return nil, fmt.Errorf("youtube search for %s: %w", city, ErrNotConfigured)
		}
		return nil, fmt.Errorf("youtube search for %s: %w", city, err)
	}

	videos := make([]Video, 0, len(raw.Items))
	for _, item := range raw.Items {
		id := item.ID.VideoID
		if id == "" {
			continue
		}
		videos = append(videos, Video{
			VideoID:     id,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Thumbnail:   item.Snippet.Thumbnails.High.URL,
			EmbedURL:    "https://www.youtube.com/embed/" + id,
			WatchURL:    "https://www.youtube.com/watch?v=" + id,
			Category:    category,
		})
	}
	return videos, nil
}

// FetchAll fetches every category concurrently and returns the combined list
// in fixed category order. Any category failure fails the whole call; the
// front end treats a partial video rail as an error state, not missing data.
func (c *YouTubeClient) FetchAll(ctx context.Context, city string) ([]Video, error) {
	g, gCtx := errgroup.WithContext(ctx)

	results := make([][]Video, len(videoCategories))
	for i, category := range videoCategories {
		i, category := i, category
		g.Go(func() error {
			vids, err := c.FetchCategory(gCtx, city, category)
			if err != nil {
				return err
			}
			results[i] = vids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Video
	for _, vids := range results {
		all = append(all, vids...)
	}
	return all, nil
}
