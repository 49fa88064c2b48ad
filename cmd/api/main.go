package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/assignment"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/events"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/providers/routing"
	"server/internal/tracking"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	// Status-change events for the notification service; disabled without Redis.
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RedisURL != "" {
		redisPublisher, err := events.NewRedisPublisher(cfg.RedisURL, cfg.EventsChannel)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer func() {
			_ = redisPublisher.Close()
		}()
		publisher = redisPublisher
	}

	// GeoIP country lookup for locale detection (optional).
	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip resolver disabled")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	schedules := repo.NewScheduleRepository(dbpool)
	locations := repo.NewLocationRepository(dbpool)
	materials := repo.NewMaterialRepository(dbpool)
	users := repo.NewUserRepository(dbpool)

	routeChain := routing.NewChain(logger, cfg.RoutingTimeout, buildRouteProviders(cfg, logger)...)

	app := &handlers.App{
		Schedules:  schedules,
		Locations:  locations,
		Materials:  materials,
		Users:      users,
		Assignment: assignment.NewService(schedules, publisher, logger),
		Tracking:   tracking.NewService(schedules, locations, routeChain, logger),
		Logger:     logger,
	}

	router := httpapi.NewRouter(app, cfg, logger, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// buildRouteProviders orders the chain: the configured primary first, the
// other provider as fallback. Google is only wired when an API key exists.
func buildRouteProviders(cfg *infra.Config, logger infra.Logger) []routing.Provider {
	osrm := routing.NewOSRMProvider(routing.OSRMOptions{
		BaseURL: cfg.OSRMBaseURL,
		Profile: cfg.OSRMProfile,
	})

	var google routing.Provider
	if cfg.GoogleMapsAPIKey != "" {
		g, err := routing.NewGoogleProvider(routing.GoogleOptions{APIKey: cfg.GoogleMapsAPIKey})
		if err != nil {
			logger.Warn().Err(err).Msg("google routing disabled")
		} else {
			google = g
		}
	}

	if cfg.RoutingProvider == "google" && google != nil {
		return []routing.Provider{google, osrm}
	}
	if google != nil {
		return []routing.Provider{osrm, google}
	}
	return []routing.Provider{osrm}
}
