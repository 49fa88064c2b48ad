// Package routing isolates the rest of the system from third-party route
// computation services. Providers are interchangeable strategies behind one
// interface; a Chain tries them in order and treats every failure as soft.
// "No route" is data, never an error that aborts the caller's request.
package routing

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Point is a (lat, lng) coordinate pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Route is the normalized result of a provider call. It is value data: never
// persisted and never cached across calls.
type Route struct {
	Provider   string  `json:"provider"`
	DistanceKm float64 `json:"distance_km"`
	ETAMinutes int     `json:"eta_minutes"`
	Points     []Point `json:"points"`
}

// Provider computes a route between two points, returning a normalized
// result or an error. Errors are internal to the chain and never reach the
// chain's callers.
type Provider interface {
	Name() string
	Route(ctx context.Context, origin, dest Point) (*Route, error)
}

const defaultTimeout = 4 * time.Second

// Chain tries providers in order with a hard per-call timeout. The first
// success wins; when every provider fails the result is nil without error,
// and the caller degrades to a straight line at the presentation boundary.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewChain builds a fallback chain over the given providers. A non-positive
// timeout falls back to 4 seconds per call.
func NewChain(logger zerolog.Logger, timeout time.Duration, providers ...Provider) *Chain {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Chain{providers: providers, timeout: timeout, logger: logger}
}

// Route returns the first provider result, or nil when no provider could
// answer in time.
func (c *Chain) Route(ctx context.Context, origin, dest Point) *Route {
	for _, p := range c.providers {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		route, err := p.Route(callCtx, origin, dest)
		cancel()
		if err != nil {
			c.logger.Warn().Err(err).Str("provider", p.Name()).Msg("route provider failed, trying next")
			continue
		}
		if route == nil || len(route.Points) == 0 {
			c.logger.Warn().Str("provider", p.Name()).Msg("route provider returned no geometry, trying next")
			continue
		}
		return route
	}
	return nil
}

// roundKm rounds meters to two-decimal kilometers.
func roundKm(meters float64) float64 {
	return math.Round(meters/1000*100) / 100
}

// ceilMinutes rounds seconds up to whole minutes.
func ceilMinutes(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Ceil(seconds / 60))
}
