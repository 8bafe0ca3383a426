package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixed(t *testing.T) {
	c, err := NewFixed().Lookup(context.Background(), "anything")
	require.NoError(t, err)
	require.Equal(t, TestCoordinates, c)
}

func newGoogleServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		components := r.URL.Query().Get("components")
		assert.True(t, strings.Contains(components, "country:GB"), components)
		assert.True(t, strings.Contains(components, "postal_code:E1 6AN"), components)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogle_Lookup(t *testing.T) {
	srv := newGoogleServer(t, `{
		"status": "OK",
		"results": [{"geometry": {"location": {"lat": 51.5203, "lng": -0.0714}}}]
	}`)

	g, err := NewGoogle("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	c, err := g.Lookup(context.Background(), " E1 6AN ")
	require.NoError(t, err)
	require.InDelta(t, 51.5203, c.Latitude, 1e-9)
	require.InDelta(t, -0.0714, c.Longitude, 1e-9)
}

func TestGoogle_NoResults(t *testing.T) {
	srv := newGoogleServer(t, `{"status": "ZERO_RESULTS", "results": []}`)

	g, err := NewGoogle("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = g.Lookup(context.Background(), "E1 6AN")
	require.Error(t, err)
}

func TestGoogle_EmptyPostcode(t *testing.T) {
	g, err := NewGoogle("test-key", WithBaseURL("http://127.0.0.1:1"))
	require.NoError(t, err)

	_, err = g.Lookup(context.Background(), "  ")
	require.ErrorIs(t, err, ErrNoResults)
}

func TestGoogle_RespectsContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	g, err := NewGoogle("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = g.Lookup(ctx, "E1 6AN")
	require.Error(t, err)
}
