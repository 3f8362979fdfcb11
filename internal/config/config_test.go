package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	originalEnv := os.Environ()
	defer restoreEnv(originalEnv)
	clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	originalEnv := os.Environ()
	defer restoreEnv(originalEnv)
	clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.App.Environment != EnvDevelopment {
		t.Errorf("Expected environment to be development, got %s", cfg.App.Environment)
	}

	if cfg.App.LogLevel != "info" {
		t.Errorf("Expected log level to be 'info', got %s", cfg.App.LogLevel)
	}

	if cfg.Similarity.DefaultLimit != 10 {
		t.Errorf("Expected default similarity limit 10, got %d", cfg.Similarity.DefaultLimit)
	}

	if cfg.Similarity.MaxLimit != 50 {
		t.Errorf("Expected max similarity limit 50, got %d", cfg.Similarity.MaxLimit)
	}

	if cfg.Server.RequestTimeout != 45*time.Second {
		t.Errorf("Expected default request timeout 45s, got %v", cfg.Server.RequestTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		wantError bool
	}{
		{
			name: "valid config",
			cfg: &Config{
				Similarity: SimilarityConfig{Host: "localhost", DefaultLimit: 10, MaxLimit: 50},
				Provenance: ProvenanceConfig{InfoRes: "infores:monarch-mcq"},
			},
			wantError: false,
		},
		{
			name: "missing similarity host",
			cfg: &Config{
				Similarity: SimilarityConfig{DefaultLimit: 10, MaxLimit: 50},
				Provenance: ProvenanceConfig{InfoRes: "infores:monarch-mcq"},
			},
			wantError: true,
		},
		{
			name: "invalid default limit",
			cfg: &Config{
				Similarity: SimilarityConfig{Host: "localhost", DefaultLimit: 0, MaxLimit: 50},
				Provenance: ProvenanceConfig{InfoRes: "infores:monarch-mcq"},
			},
			wantError: true,
		},
		{
			name: "max limit below default limit",
			cfg: &Config{
				Similarity: SimilarityConfig{Host: "localhost", DefaultLimit: 20, MaxLimit: 10},
				Provenance: ProvenanceConfig{InfoRes: "infores:monarch-mcq"},
			},
			wantError: true,
		},
		{
			name: "missing provenance infores",
			cfg: &Config{
				Similarity: SimilarityConfig{Host: "localhost", DefaultLimit: 10, MaxLimit: 50},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateForProduction(t *testing.T) {
	base := func() *Config {
		return &Config{
			Similarity: SimilarityConfig{Host: "localhost", DefaultLimit: 10, MaxLimit: 50},
			Provenance: ProvenanceConfig{InfoRes: "infores:monarch-mcq"},
		}
	}

	tests := []struct {
		name      string
		cfg       *Config
		wantError bool
	}{
		{
			name: "valid production config",
			cfg: func() *Config {
				c := base()
				c.App = AppConfig{Environment: EnvProduction, LogFilePath: "/var/log/semsim-mcq.log"}
				return c
			}(),
			wantError: false,
		},
		{
			name: "non-production environment",
			cfg: func() *Config {
				c := base()
				c.App = AppConfig{Environment: EnvDevelopment, LogFilePath: "/var/log/semsim-mcq.log"}
				return c
			}(),
			wantError: true,
		},
		{
			name: "missing log file in production",
			cfg: func() *Config {
				c := base()
				c.App = AppConfig{Environment: EnvProduction}
				return c
			}(),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateForProduction()
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateForProduction() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestMustLoad_Panics(t *testing.T) {
	originalEnv := os.Environ()
	defer restoreEnv(originalEnv)
	clearEnv()

	os.Setenv("SIMSEARCH_DEFAULT_LIMIT", "100")
	os.Setenv("SIMSEARCH_MAX_LIMIT", "50")

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLoad() did not panic on invalid config")
		}
	}()

	MustLoad()
}

func TestMustLoad_Success(t *testing.T) {
	originalEnv := os.Environ()
	defer restoreEnv(originalEnv)
	clearEnv()

	cfg := MustLoad()
	if cfg == nil {
		t.Error("MustLoad() returned nil config")
	}
}

// Helper functions for tests

func clearEnv() {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE_PATH",
		"LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS",
		"SIMSEARCH_SCHEME", "SIMSEARCH_HOST", "SIMSEARCH_PORT", "SIMSEARCH_PATH",
		"SIMSEARCH_TIMEOUT", "SIMSEARCH_MAX_RETRIES", "SIMSEARCH_RETRY_DELAY",
		"SIMSEARCH_DEFAULT_LIMIT", "SIMSEARCH_MAX_LIMIT",
		"SERVICE_INFORES", "SERVICE_TITLE", "SERVICE_VERSION",
		"SERVER_HOST", "SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"SERVER_REQUEST_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func restoreEnv(originalEnv []string) {
	os.Clearenv()
	for _, e := range originalEnv {
		pair := splitEnvPair(e)
		if len(pair) == 2 {
			os.Setenv(pair[0], pair[1])
		}
	}
}

func splitEnvPair(env string) []string {
	for i := 0; i < len(env); i++ {
		if env[i] == '=' {
			return []string{env[:i], env[i+1:]}
		}
	}
	return []string{env}
}
