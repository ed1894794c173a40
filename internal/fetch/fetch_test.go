package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabinkim0318/weather-dashboard/internal/fetch"
)

func TestGet_DecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Seoul"}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	err := fetch.Get(context.Background(), fetch.NewHTTPClient(), srv.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, "Seoul", out.Name)
}

func TestGet_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer srv.Close()

	var out any
	err := fetch.Get(context.Background(), fetch.NewHTTPClient(), srv.URL, &out)

	var se *fetch.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTeapot, se.StatusCode)
	assert.Equal(t, srv.URL, se.URL)
}

func TestGet_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	var out any
	err := fetch.Get(context.Background(), fetch.NewHTTPClient(), srv.URL, &out)

	var te *fetch.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, srv.URL, te.URL)
	assert.Error(t, te.Unwrap())
}

func TestGet_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	var out map[string]any
	err := fetch.Get(context.Background(), fetch.NewHTTPClient(), srv.URL, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestGet_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out any
	err := fetch.Get(ctx, fetch.NewHTTPClient(), srv.URL, &out)

	var te *fetch.TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, context.Canceled)
}
