package cmd_test

import (
	"log/slog"
	"testing"
	"time"

	"courier-dispatch/cmd"

	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"HTTP_PORT", "LOG_LEVEL", "STORAGE", "GEOCODER", "ROUTER", "ORS_API_KEY",
	"HTTP_TIMEOUT", "HTTP_MAX_ATTEMPTS", "GEOCODER_RPS", "SIMULATION_STEP", "SEED_FILE",
	"SIMULATION_SCHEDULE", "TRACKING_RECONCILE_SCHEDULE", "OFFER_REFRESH_SCHEDULE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := cmd.LoadConfig(nil)
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.HTTPPort)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel)
	require.Equal(t, cmd.StorageMemory, cfg.Storage)
	require.Equal(t, cmd.GeocoderNominatim, cfg.Geocoder)
	require.Equal(t, cmd.RouterOSRM, cfg.Router)
	require.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 1, cfg.HTTPMaxAttempts)
	require.InDelta(t, 1.0, cfg.GeocoderRPS, 1e-9)
	require.Equal(t, 24*time.Hour, cfg.GeocodeCacheTTL)
	require.Equal(t, "@every 1s", cfg.SimulationSchedule)
	require.Equal(t, "@every 30s", cfg.TrackingReconcileSchedule)
	require.Equal(t, "@every 5s", cfg.OfferRefreshSchedule)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GEOCODER", "deterministic")
	t.Setenv("ROUTER", "none")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("HTTP_MAX_ATTEMPTS", "3")

	cfg, err := cmd.LoadConfig(nil)
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.HTTPPort)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel)
	require.Equal(t, cmd.GeocoderDeterministic, cfg.Geocoder)
	require.Equal(t, cmd.RouterNone, cfg.Router)
	require.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 3, cfg.HTTPMaxAttempts)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := cmd.LoadConfig([]string{"--port", "7070", "--storage", "postgres", "--seed", "couriers.yaml"})
	require.NoError(t, err)

	require.Equal(t, "7070", cfg.HTTPPort)
	require.Equal(t, cmd.StoragePostgres, cfg.Storage)
	require.Equal(t, "couriers.yaml", cfg.SeedFile)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "port out of range", env: map[string]string{"HTTP_PORT": "70000"}},
		{name: "unknown storage", env: map[string]string{"STORAGE": "mongo"}},
		{name: "unknown router", env: map[string]string{"ROUTER": "graphhopper"}},
		{name: "ors without key", env: map[string]string{"GEOCODER": "ors"}},
		{name: "bad duration", env: map[string]string{"HTTP_TIMEOUT": "soon"}},
		{name: "zero attempts", env: map[string]string{"HTTP_MAX_ATTEMPTS": "0"}},
		{name: "step above one", env: map[string]string{"SIMULATION_STEP": "1.5"}},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := cmd.LoadConfig(nil)
			require.Error(t, err)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := cmd.Config{
		DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "dispatch", DBSslMode: "disable",
	}

	require.Equal(t, "host=db port=5432 user=u password=p dbname=dispatch sslmode=disable", cfg.DSN())
}
