package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const googleProviderName = "google"

// GoogleProvider calls the Google Directions API. Geometry arrives as an
// encoded overview polyline and is decoded into (lat, lng) pairs.
type GoogleProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// GoogleOptions configures a GoogleProvider.
type GoogleOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewGoogleProvider creates a Google Directions route provider. The API key
// is required.
func NewGoogleProvider(opts GoogleOptions) (*GoogleProvider, error) {
	if opts.APIKey == "" {
		return nil, errors.New("google maps api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com/maps/api"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &GoogleProvider{apiKey: opts.APIKey, baseURL: baseURL, client: client}, nil
}

// Name identifies the provider in normalized results.
func (p *GoogleProvider) Name() string { return googleProviderName }

type googleResponse struct {
	Status string `json:"status"`
	Routes []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance struct {
				Value float64 `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// Route fetches the driving route between origin and dest.
func (p *GoogleProvider) Route(ctx context.Context, origin, dest Point) (*Route, error) {
	endpoint := p.baseURL + "/directions/json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	q.Set("destination", fmt.Sprintf("%f,%f", dest.Lat, dest.Lng))
	q.Set("mode", "driving")
	q.Set("key", p.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google: unexpected status %d", resp.StatusCode)
	}

	var out googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("google: decode response: %w", err)
	}
	if out.Status != "OK" || len(out.Routes) == 0 {
		return nil, fmt.Errorf("google: status %q", out.Status)
	}
	route := out.Routes[0]
	if len(route.Legs) == 0 {
		return nil, errors.New("google: route has no legs")
	}
	leg := route.Legs[0]

	return &Route{
		Provider:   googleProviderName,
		DistanceKm: roundKm(leg.Distance.Value),
		ETAMinutes: ceilMinutes(leg.Duration.Value),
		Points:     DecodePolyline(route.OverviewPolyline.Points),
	}, nil
}

var _ Provider = (*GoogleProvider)(nil)
