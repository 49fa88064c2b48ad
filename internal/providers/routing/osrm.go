package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const osrmProviderName = "osrm"

// OSRMProvider calls an OSRM route service. OSRM speaks GeoJSON, so its
// geometry arrives longitude-first and is reordered into (lat, lng) pairs.
type OSRMProvider struct {
	baseURL string
	profile string
	client  *http.Client
}

// OSRMOptions configures an OSRMProvider. Zero values select the public
// demo server and the driving profile.
type OSRMOptions struct {
	BaseURL    string
	Profile    string
	HTTPClient *http.Client
}

// NewOSRMProvider creates an OSRM-backed route provider.
func NewOSRMProvider(opts OSRMOptions) *OSRMProvider {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://router.project-osrm.org"
	}
	profile := opts.Profile
	if profile == "" {
		profile = "driving"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &OSRMProvider{baseURL: baseURL, profile: profile, client: client}
}

// Name identifies the provider in normalized results.
func (p *OSRMProvider) Name() string { return osrmProviderName }

type osrmResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route fetches the driving route between origin and dest.
func (p *OSRMProvider) Route(ctx context.Context, origin, dest Point) (*Route, error) {
	// OSRM coordinates are lng,lat on the wire.
	endpoint := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f",
		p.baseURL, url.PathEscape(p.profile), origin.Lng, origin.Lat, dest.Lng, dest.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("overview", "full")
	q.Set("geometries", "geojson")
	q.Set("steps", "false")
	req.URL.RawQuery = q.Encode()

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("osrm: unexpected status %d", resp.StatusCode)
	}

	var out osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("osrm: decode response: %w", err)
	}
	if len(out.Routes) == 0 {
		return nil, fmt.Errorf("osrm: empty routes")
	}

	route := out.Routes[0]
	points := make([]Point, 0, len(route.Geometry.Coordinates))
	for _, coord := range route.Geometry.Coordinates {
		if len(coord) < 2 {
			continue
		}
		points = append(points, Point{Lat: coord[1], Lng: coord[0]})
	}

	return &Route{
		Provider:   osrmProviderName,
		DistanceKm: roundKm(route.Distance),
		ETAMinutes: ceilMinutes(route.Duration),
		Points:     points,
	}, nil
}

var _ Provider = (*OSRMProvider)(nil)
