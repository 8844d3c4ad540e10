package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"store-locator/internal/adapters/geolocation"
	"store-locator/internal/adapters/render"
	"store-locator/internal/adapters/storeapi"
	"store-locator/internal/config"
	"store-locator/internal/domain"
	"store-locator/internal/platform/obs"
	"store-locator/internal/ports"
	"store-locator/internal/services"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main wires the location sensor, the store API client and the terminal
// map widget around the store locator view and reads commands from stdin.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadLocator()
	if err != nil {
		obs.Logger().Fatalw("invalid configuration", "err", err)
	}

	logger, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		obs.Logger().Fatalw("build logger", "err", err)
	}
	obs.SetLogger(logger)
	defer obs.Sync()

	log := obs.Logger()
	if envErr != nil {
		log.Debug("No .env file found (using environment variables)")
	}
	log.Infow("starting store locator", "config", cfg.String())

	sensor, err := newSensor(cfg)
	if err != nil {
		log.Fatalw("location sensor", "err", err)
	}

	client, err := storeapi.NewClient(cfg.StoreAPIURL, cfg.FetchTimeout)
	if err != nil {
		log.Fatalw("store api client", "err", err)
	}

	metrics, err := obs.NewMetrics(nil)
	if err != nil {
		log.Fatalw("register metrics", "err", err)
	}
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, metrics)
	}

	viewCfg := services.DefaultViewConfig()
	viewCfg.Acquire.Timeout = cfg.LocationTimeout
	viewCfg.Acquire.MaximumAge = cfg.LocationMaxAge
	viewCfg.Span = domain.Span{Latitude: cfg.LatSpan, Longitude: cfg.LngSpan}
	viewCfg.Fade = cfg.FadeDuration

	widget := render.NewTerminal(os.Stdout)
	view := services.NewStoreLocatorView(
		services.NewLocationAcquirer(sensor, log, metrics),
		services.NewFetchCoordinator(client, cfg.FetchTimeout, log, metrics),
		widget,
		viewCfg,
		log,
	)
	widget.OnRegionChange = view.RegionChanged
	widget.Opacity = view.AffordanceOpacity

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	viewDone := make(chan error, 1)
	go func() { viewDone <- view.Run(ctx) }()

	sh := &shell{view: view, widget: widget, out: os.Stdout}
	if err := sh.run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("command loop stopped", "err", err)
	}

	stop()
	if err := <-viewDone; err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("view stopped", "err", err)
	}
}

func newSensor(cfg *config.Locator) (ports.LocationSensor, error) {
	if cfg.LocationProvider == "ip" {
		return geolocation.NewIPSensor(cfg.IPLocateURL)
	}
	return &geolocation.StaticSensor{
		Coordinates: domain.Coordinates{Lat: cfg.StaticLat, Lon: cfg.StaticLng},
		Deny:        cfg.StaticDeny,
	}, nil
}

func serveMetrics(addr string, metrics *obs.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	obs.Logger().Infow("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		obs.Logger().Errorw("metrics server stopped", "err", err)
	}
}
