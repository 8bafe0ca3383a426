// Package geocode resolves UK postcodes to coordinates.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"
)

var ErrNoResults = errors.New("geocode: no results for postcode")

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type Provider interface {
	Lookup(ctx context.Context, postcode string) (Coordinates, error)
}

// Fixed always answers with the same coordinates. Used when the service runs
// in test mode so no network access is needed.
type Fixed struct {
	Coordinates Coordinates
}

// TestCoordinates is the pair returned in test mode.
var TestCoordinates = Coordinates{Latitude: 51.51746, Longitude: -0.07329}

func NewFixed() *Fixed { return &Fixed{Coordinates: TestCoordinates} }

func (f *Fixed) Lookup(ctx context.Context, postcode string) (Coordinates, error) {
	return f.Coordinates, nil
}

// Google looks postcodes up with the Google Geocoding API, restricted to GB.
type Google struct {
	client *maps.Client
}

type GoogleOption func(*googleOptions)

type googleOptions struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) GoogleOption {
	return func(o *googleOptions) { o.baseURL = u }
}

func WithHTTPClient(c *http.Client) GoogleOption {
	return func(o *googleOptions) { o.httpClient = c }
}

func NewGoogle(apiKey string, opts ...GoogleOption) (*Google, error) {
	o := googleOptions{httpClient: defaultHTTPClient()}
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(o.httpClient),
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(o.baseURL))
	}
	c, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}
	return &Google{client: c}, nil
}

func (g *Google) Lookup(ctx context.Context, postcode string) (Coordinates, error) {
	postcode = strings.TrimSpace(postcode)
	if postcode == "" {
		return Coordinates{}, ErrNoResults
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Components: map[maps.Component]string{
			maps.ComponentCountry:    "GB",
			maps.ComponentPostalCode: postcode,
		},
	})
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: %w", postcode, err)
	}
	if len(results) == 0 {
		return Coordinates{}, ErrNoResults
	}

	loc := results[0].Geometry.Location
	return Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}

func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
