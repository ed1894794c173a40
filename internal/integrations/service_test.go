package integrations_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabinkim0318/weather-dashboard/internal/geo"
	"github.com/nabinkim0318/weather-dashboard/internal/integrations"
)

type mockSearcher struct {
	calls int
	fn    func(ctx context.Context, city string) ([]integrations.Video, error)
}

func (m *mockSearcher) FetchAll(ctx context.Context, city string) ([]integrations.Video, error) {
	m.calls++
	return m.fn(ctx, city)
}

type mockResolver struct {
	calls int
	fn    func(ctx context.Context, input string) (*geo.Location, error)
}

func (m *mockResolver) Resolve(ctx context.Context, input string) (*geo.Location, error) {
	m.calls++
	return m.fn(ctx, input)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newVideoService(searcher *mockSearcher) *integrations.Service {
	return integrations.NewService(
		searcher,
		integrations.NewMapClient("maps-key"),
		&mockResolver{fn: func(_ context.Context, _ string) (*geo.Location, error) {
			return nil, errors.New("unexpected resolve")
		}},
		integrations.NewMemo(),
		discardLogger(),
	)
}

func TestVideos_MemoReplayIsByteIdentical(t *testing.T) {
	searcher := &mockSearcher{
		fn: func(_ context.Context, city string) ([]integrations.Video, error) {
			return []integrations.Video{{VideoID: "v1", Title: city + " clip", Category: "weather"}}, nil
		},
	}
	svc := newVideoService(searcher)

	first, err := svc.Videos(context.Background(), "Seoul")
	require.NoError(t, err)

	second, err := svc.Videos(context.Background(), "Seoul")
	require.NoError(t, err)

	assert.Equal(t, 1, searcher.calls, "repeat request must be served from the memo")
	assert.Equal(t, []byte(first), []byte(second))
}

func TestVideos_FailureIsNotMemoized(t *testing.T) {
	fail := true
	searcher := &mockSearcher{
		fn: func(_ context.Context, _ string) ([]integrations.Video, error) {
			if fail {
				return nil, errors.New("quota exceeded")
			}
			return []integrations.Video{{VideoID: "v1"}}, nil
		},
	}
	svc := newVideoService(searcher)

	_, err := svc.Videos(context.Background(), "Seoul")
	require.Error(t, err)

	fail = false
	raw, err := svc.Videos(context.Background(), "Seoul")
	require.NoError(t, err, "a failed call must not poison the memo")

	var videos []integrations.Video
	require.NoError(t, json.Unmarshal(raw, &videos))
	assert.Len(t, videos, 1)
}

func TestMap_ByCoordinates(t *testing.T) {
	resolver := &mockResolver{fn: func(_ context.Context, _ string) (*geo.Location, error) {
		t.Fatal("explicit coordinates must not trigger geocoding")
		return nil, nil
	}}
	svc := integrations.NewService(nil, integrations.NewMapClient("maps-key"), resolver, integrations.NewMemo(), discardLogger())

	lat, lon := 37.5665, 126.978
	raw, err := svc.Map(context.Background(), integrations.MapRequest{Lat: &lat, Lon: &lon, Zoom: 10})
	require.NoError(t, err)

	var embed integrations.MapEmbed
	require.NoError(t, json.Unmarshal(raw, &embed))
	assert.Contains(t, embed.EmbedURL, "center=37.566500,126.978000")
	assert.Contains(t, embed.EmbedURL, "zoom=10")
	assert.Contains(t, embed.EmbedURL, "key=maps-key")
}

func TestMap_ByCityGeocodesOnce(t *testing.T) {
	resolver := &mockResolver{fn: func(_ context.Context, input string) (*geo.Location, error) {
		assert.Equal(t, "Seoul", input)
		return &geo.Location{Name: "Seoul", Lat: 37.5665, Lon: 126.978}, nil
	}}
	svc := integrations.NewService(nil, integrations.NewMapClient("maps-key"), resolver, integrations.NewMemo(), discardLogger())

	first, err := svc.Map(context.Background(), integrations.MapRequest{City: "Seoul"})
	require.NoError(t, err)

	second, err := svc.Map(context.Background(), integrations.MapRequest{City: "Seoul"})
	require.NoError(t, err)

	assert.Equal(t, []byte(first), []byte(second))
	assert.Contains(t, string(first), "zoom=12", "zoom defaults to 12")
}

func TestMap_NoAddress(t *testing.T) {
	svc := integrations.NewService(nil, integrations.NewMapClient("maps-key"), &mockResolver{}, integrations.NewMemo(), discardLogger())

	_, err := svc.Map(context.Background(), integrations.MapRequest{})
	require.ErrorIs(t, err, geo.ErrBadInput)
}

func TestMap_MissingKey(t *testing.T) {
	svc := integrations.NewService(nil, integrations.NewMapClient(""), &mockResolver{}, integrations.NewMemo(), discardLogger())

	lat, lon := 1.0, 2.0
	_, err := svc.Map(context.Background(), integrations.MapRequest{Lat: &lat, Lon: &lon})
	require.ErrorIs(t, err, integrations.ErrNotConfigured)
}

func TestMapClient_ClampsZoom(t *testing.T) {
	c := integrations.NewMapClient("k")

	embed, err := c.Embed(0, 0, 99)
	require.NoError(t, err)
	assert.Contains(t, embed.EmbedURL, "zoom=12")

	embed, err = c.Embed(0, 0, 20)
	require.NoError(t, err)
	assert.Contains(t, embed.EmbedURL, "zoom=20")
}

func TestMemo(t *testing.T) {
	m := integrations.NewMemo()
	m.Set("k", []byte("v"))

	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, m.Len())

	_, ok = m.Get("missing")
	assert.False(t, ok)
}
