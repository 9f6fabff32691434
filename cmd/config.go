package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	GeocoderNominatim     = "nominatim"
	GeocoderORS           = "ors"
	GeocoderDeterministic = "deterministic"

	RouterOSRM = "osrm"
	RouterORS  = "ors"
	RouterNone = "none"
)

type Config struct {
	HTTPPort string
	LogLevel slog.Level
	Storage  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	Geocoder           string
	NominatimURL       string
	NominatimUserAgent string
	GeocoderRPS        float64
	GeocodeRegion      string
	ORSAPIKey          string
	ORSURL             string

	Router  string
	OSRMURL string

	HTTPTimeout     time.Duration
	HTTPMaxAttempts int

	RedisAddr       string
	GeocodeCacheTTL time.Duration

	MapCenterLat float64
	MapCenterLng float64

	SimulationSchedule        string
	SimulationStep            float64
	TrackingReconcileSchedule string
	OfferRefreshSchedule      string

	SeedFile string
}

// LoadConfig reads configuration in order: .env (if present), environment, then flags in args.
func LoadConfig(args []string) (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var (
		env = envReader{}
		cfg = Config{
			HTTPPort:   env.String("HTTP_PORT", "8080"),
			Storage:    env.String("STORAGE", StorageMemory),
			DBHost:     env.String("DB_HOST", "localhost"),
			DBPort:     env.String("DB_PORT", "5432"),
			DBUser:     env.String("DB_USER", "postgres"),
			DBPassword: env.String("DB_PASSWORD", ""),
			DBName:     env.String("DB_NAME", "dispatch"),
			DBSslMode:  env.String("DB_SSLMODE", "disable"),

			Geocoder:           env.String("GEOCODER", GeocoderNominatim),
			NominatimURL:       env.String("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			NominatimUserAgent: env.String("NOMINATIM_USER_AGENT", "courier-dispatch/1.0"),
			GeocoderRPS:        env.Float("GEOCODER_RPS", 1),
			GeocodeRegion:      env.String("GEOCODE_REGION", ""),
			ORSAPIKey:          env.String("ORS_API_KEY", ""),
			ORSURL:             env.String("ORS_URL", "https://api.openrouteservice.org"),

			Router:  env.String("ROUTER", RouterOSRM),
			OSRMURL: env.String("OSRM_URL", "https://router.project-osrm.org"),

			HTTPTimeout:     env.Duration("HTTP_TIMEOUT", 10*time.Second),
			HTTPMaxAttempts: env.Int("HTTP_MAX_ATTEMPTS", 1),

			RedisAddr:       env.String("REDIS_ADDR", ""),
			GeocodeCacheTTL: env.Duration("GEOCODE_CACHE_TTL", 24*time.Hour),

			MapCenterLat: env.Float("MAP_CENTER_LAT", -23.5505),
			MapCenterLng: env.Float("MAP_CENTER_LNG", -46.6333),

			SimulationSchedule:        env.String("SIMULATION_SCHEDULE", "@every 1s"),
			SimulationStep:            env.Float("SIMULATION_STEP", 0.05),
			TrackingReconcileSchedule: env.String("TRACKING_RECONCILE_SCHEDULE", "@every 30s"),
			OfferRefreshSchedule:      env.String("OFFER_REFRESH_SCHEDULE", "@every 5s"),

			SeedFile: env.String("SEED_FILE", ""),
		}
		logLevel = env.String("LOG_LEVEL", "info")
	)

	flags := pflag.NewFlagSet("courier-dispatch", pflag.ContinueOnError)
	flags.StringVarP(&cfg.HTTPPort, "port", "p", cfg.HTTPPort, "port to listen on")
	flags.StringVar(&logLevel, "log-level", logLevel, "debug, info, warn or error")
	flags.StringVar(&cfg.Storage, "storage", cfg.Storage, "memory or postgres")
	flags.StringVar(&cfg.Geocoder, "geocoder", cfg.Geocoder, "nominatim, ors or deterministic")
	flags.StringVar(&cfg.Router, "router", cfg.Router, "osrm, ors or none")
	flags.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "YAML file with couriers to create at startup")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		env.errs = append(env.errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if err := errors.Join(append(env.errs, cfg.validate())...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN is the PostgreSQL connection string built from the DB_* keys.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) validate() error {
	var errs []error
	if port, err := strconv.Atoi(c.HTTPPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %q", c.HTTPPort))
	}
	if !oneOf(c.Storage, StorageMemory, StoragePostgres) {
		errs = append(errs, fmt.Errorf("unknown storage %q", c.Storage))
	}
	if !oneOf(c.Geocoder, GeocoderNominatim, GeocoderORS, GeocoderDeterministic) {
		errs = append(errs, fmt.Errorf("unknown geocoder %q", c.Geocoder))
	}
	if !oneOf(c.Router, RouterOSRM, RouterORS, RouterNone) {
		errs = append(errs, fmt.Errorf("unknown router %q", c.Router))
	}
	if (c.Geocoder == GeocoderORS || c.Router == RouterORS) && c.ORSAPIKey == "" {
		errs = append(errs, errors.New("ORS_API_KEY is required by the ors geocoder and router"))
	}
	if c.HTTPMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("HTTP_MAX_ATTEMPTS must be at least 1, got %d", c.HTTPMaxAttempts))
	}
	if c.GeocoderRPS <= 0 {
		errs = append(errs, fmt.Errorf("GEOCODER_RPS must be positive, got %v", c.GeocoderRPS))
	}
	if c.SimulationStep <= 0 || c.SimulationStep > 1 {
		errs = append(errs, fmt.Errorf("SIMULATION_STEP must be in (0, 1], got %v", c.SimulationStep))
	}
	return errors.Join(errs...)
}

func oneOf(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

// envReader collects parse failures instead of stopping at the first one.
type envReader struct {
	errs []error
}

func (r *envReader) String(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (r *envReader) Int(key string, fallback int) int {
	v := r.String(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (r *envReader) Float(key string, fallback float64) float64 {
	v := r.String(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}

func (r *envReader) Duration(key string, fallback time.Duration) time.Duration {
	v := r.String(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
