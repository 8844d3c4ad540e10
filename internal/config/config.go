package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Locator configures the interactive store locator client.
type Locator struct {
	StoreAPIURL      string
	FetchTimeout     time.Duration
	LocationProvider string
	StaticLat        float64
	StaticLng        float64
	StaticDeny       bool
	IPLocateURL      string
	LocationTimeout  time.Duration
	LocationMaxAge   time.Duration
	LatSpan          float64
	LngSpan          float64
	FadeDuration     time.Duration
	LogLevel         string
	MetricsAddr      string
}

func (c Locator) String() string {
	return fmt.Sprintf(
		"StoreAPIURL: %s | LocationProvider: %s | FetchTimeout: %s | LocationTimeout: %s | Span: %g/%g | LogLevel: %s",
		c.StoreAPIURL, c.LocationProvider, c.FetchTimeout, c.LocationTimeout, c.LatSpan, c.LngSpan, c.LogLevel,
	)
}

// Server configures the store listing API.
type Server struct {
	Port         string
	StoreBackend string
	DBPath       string
	DatabaseURL  string
	ElasticURL   string
	ElasticIndex string
	SeedPath     string
	MaxResults   int
	LogLevel     string
}

func (c Server) String() string {
	return fmt.Sprintf(
		"Port: %s | StoreBackend: %s | DBPath: %s | ElasticIndex: %s | MaxResults: %d | LogLevel: %s",
		c.Port, c.StoreBackend, c.DBPath, c.ElasticIndex, c.MaxResults, c.LogLevel,
	)
}

// DBTool configures schema setup and seeding of the server backends.
type DBTool struct {
	StoreBackend string
	SeedPath     string
	DatabaseURL  string
	ElasticURL   string
	ElasticIndex string
}

func (c DBTool) String() string {
	return fmt.Sprintf("StoreBackend: %s | SeedPath: %s | ElasticIndex: %s", c.StoreBackend, c.SeedPath, c.ElasticIndex)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadLocator reads locator settings from the environment.
func LoadLocator() (*Locator, error) {
	v := newViper()
	v.SetDefault("FETCH_TIMEOUT", "15s")
	v.SetDefault("LOCATION_PROVIDER", "static")
	v.SetDefault("IP_LOCATE_URL", "http://ip-api.com/json")
	v.SetDefault("LOCATION_TIMEOUT", "20s")
	v.SetDefault("LOCATION_MAX_AGE", "1s")
	v.SetDefault("LAT_SPAN", 0.010)
	v.SetDefault("LNG_SPAN", 0.0009)
	v.SetDefault("FADE_DURATION", "200ms")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Locator{
		StoreAPIURL:      strings.TrimSpace(v.GetString("STORE_API_URL")),
		FetchTimeout:     v.GetDuration("FETCH_TIMEOUT"),
		LocationProvider: strings.ToLower(v.GetString("LOCATION_PROVIDER")),
		StaticLat:        v.GetFloat64("STATIC_LAT"),
		StaticLng:        v.GetFloat64("STATIC_LNG"),
		StaticDeny:       v.GetBool("STATIC_DENY"),
		IPLocateURL:      v.GetString("IP_LOCATE_URL"),
		LocationTimeout:  v.GetDuration("LOCATION_TIMEOUT"),
		LocationMaxAge:   v.GetDuration("LOCATION_MAX_AGE"),
		LatSpan:          v.GetFloat64("LAT_SPAN"),
		LngSpan:          v.GetFloat64("LNG_SPAN"),
		FadeDuration:     v.GetDuration("FADE_DURATION"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		MetricsAddr:      v.GetString("METRICS_ADDR"),
	}

	if cfg.StoreAPIURL == "" {
		return nil, errors.New("STORE_API_URL is required")
	}
	if _, err := url.ParseRequestURI(cfg.StoreAPIURL); err != nil {
		return nil, errors.Wrapf(err, "invalid STORE_API_URL %q", cfg.StoreAPIURL)
	}
	switch cfg.LocationProvider {
	case "static", "ip":
	default:
		return nil, errors.Errorf("unknown LOCATION_PROVIDER %q (want static or ip)", cfg.LocationProvider)
	}
	if cfg.LatSpan <= 0 || cfg.LngSpan <= 0 {
		return nil, errors.New("LAT_SPAN and LNG_SPAN must be positive")
	}
	if cfg.LocationTimeout <= 0 {
		return nil, errors.New("LOCATION_TIMEOUT must be positive")
	}

	return cfg, nil
}

// LoadServer reads store listing API settings from the environment.
func LoadServer() (*Server, error) {
	v := newViper()
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORE_BACKEND", "sqlite")
	v.SetDefault("DB_PATH", "data/stores.db")
	v.SetDefault("ELASTIC_URL", "http://localhost:9200")
	v.SetDefault("ELASTIC_INDEX", "stores")
	v.SetDefault("SEED_PATH", "data/seeds/stores.json")
	v.SetDefault("MAX_RESULTS", 200)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Server{
		Port:         v.GetString("PORT"),
		StoreBackend: strings.ToLower(v.GetString("STORE_BACKEND")),
		DBPath:       v.GetString("DB_PATH"),
		DatabaseURL:  v.GetString("DATABASE_URL"),
		ElasticURL:   v.GetString("ELASTIC_URL"),
		ElasticIndex: v.GetString("ELASTIC_INDEX"),
		SeedPath:     v.GetString("SEED_PATH"),
		MaxResults:   v.GetInt("MAX_RESULTS"),
		LogLevel:     v.GetString("LOG_LEVEL"),
	}

	switch cfg.StoreBackend {
	case "sqlite":
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres backend")
		}
	case "elastic":
		if strings.TrimSpace(cfg.ElasticURL) == "" {
			return nil, errors.New("ELASTIC_URL is required for the elastic backend")
		}
	default:
		return nil, errors.Errorf("unknown STORE_BACKEND %q (want sqlite, postgres or elastic)", cfg.StoreBackend)
	}
	if cfg.MaxResults < 1 {
		return nil, errors.New("MAX_RESULTS must be at least 1")
	}

	return cfg, nil
}

// LoadDBTool reads seeding settings from the environment. backend and
// seedPath override STORE_BACKEND and SEED_PATH when non-empty.
func LoadDBTool(backend, seedPath string) (*DBTool, error) {
	v := newViper()
	v.SetDefault("STORE_BACKEND", "postgres")
	v.SetDefault("SEED_PATH", "data/seeds/stores.json")
	v.SetDefault("ELASTIC_URL", "http://localhost:9200")
	v.SetDefault("ELASTIC_INDEX", "stores")

	if backend != "" {
		v.Set("STORE_BACKEND", backend)
	}
	if seedPath != "" {
		v.Set("SEED_PATH", seedPath)
	}

	cfg := &DBTool{
		StoreBackend: strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		SeedPath:     v.GetString("SEED_PATH"),
		DatabaseURL:  strings.TrimSpace(v.GetString("DATABASE_URL")),
		ElasticURL:   strings.TrimSpace(v.GetString("ELASTIC_URL")),
		ElasticIndex: strings.TrimSpace(v.GetString("ELASTIC_INDEX")),
	}

	switch cfg.StoreBackend {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres backend")
		}
	case "elastic":
		if cfg.ElasticURL == "" || cfg.ElasticIndex == "" {
			return nil, errors.New("ELASTIC_URL and ELASTIC_INDEX are required for the elastic backend")
		}
	default:
		return nil, errors.Errorf("unsupported STORE_BACKEND %q for seeding (want postgres or elastic)", cfg.StoreBackend)
	}
	if strings.TrimSpace(cfg.SeedPath) == "" {
		return nil, errors.New("SEED_PATH is required")
	}

	return cfg, nil
}
