package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.ExportDatabasePath != "./data/tibcal.db" {
		t.Errorf("ExportDatabasePath = %q, want %q", cfg.ExportDatabasePath, "./data/tibcal.db")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if cfg.MaxRangeDays != DefaultMaxRangeDays {
		t.Errorf("MaxRangeDays = %d, want %d", cfg.MaxRangeDays, DefaultMaxRangeDays)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "3000")
	t.Setenv("ENV", "production")
	t.Setenv("EXPORT_DATABASE_PATH", "/data/test.db")
	t.Setenv("ADMIN_API_KEY", "secret-key-123")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("MAX_RANGE_DAYS", "31")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Env != EnvProduction {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProduction)
	}
	if cfg.ExportDatabasePath != "/data/test.db" {
		t.Errorf("ExportDatabasePath = %q, want %q", cfg.ExportDatabasePath, "/data/test.db")
	}
	if cfg.AdminAPIKey != "secret-key-123" {
		t.Errorf("AdminAPIKey = %q, want %q", cfg.AdminAPIKey, "secret-key-123")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
	if cfg.MaxRangeDays != 31 {
		t.Errorf("MaxRangeDays = %d, want 31", cfg.MaxRangeDays)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 30s", cfg.ShutdownTimeout)
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "not-a-port")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	t.Setenv("ENV", "production")
	t.Setenv("MAX_RANGE_DAYS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want missing key and range errors")
	}
}

func validConfig() Config {
	return Config{
		Port:               8080,
		Env:                EnvDevelopment,
		ShutdownTimeout:    10 * time.Second,
		ExportDatabasePath: "./data/test.db",
		LogLevel:           "info",
		LogFormat:          "text",
		MaxRangeDays:       DefaultMaxRangeDays,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid development config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid production config",
			modify: func(c *Config) {
				c.Env = EnvProduction
				c.AdminAPIKey = "required-in-prod"
				c.LogFormat = "json"
			},
			wantErr: false,
		},
		{
			name:    "production requires admin key",
			modify:  func(c *Config) { c.Env = EnvProduction },
			wantErr: true,
		},
		{
			name:    "staging without admin key",
			modify:  func(c *Config) { c.Env = EnvStaging },
			wantErr: false,
		},
		{
			name:    "invalid port - too low",
			modify:  func(c *Config) { c.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid port - too high",
			modify:  func(c *Config) { c.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "invalid environment",
			modify:  func(c *Config) { c.Env = "invalid" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid log format",
			modify:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: true,
		},
		{
			name:    "empty export path",
			modify:  func(c *Config) { c.ExportDatabasePath = "" },
			wantErr: true,
		},
		{
			name:    "range limit too small",
			modify:  func(c *Config) { c.MaxRangeDays = 0 },
			wantErr: true,
		},
		{
			name:    "range limit too large",
			modify:  func(c *Config) { c.MaxRangeDays = 3661 },
			wantErr: true,
		},
		{
			name:    "range limit at ceiling",
			modify:  func(c *Config) { c.MaxRangeDays = 3660 },
			wantErr: false,
		},
		{
			name:    "zero shutdown timeout",
			modify:  func(c *Config) { c.ShutdownTimeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: EnvDevelopment}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}

	cfg.Env = EnvProduction
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Env: EnvProduction}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}

	cfg.Env = EnvDevelopment
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false")
	}
}

// clearEnv blanks every config variable for the duration of the test.
// An empty value reads as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"PORT", "ENV", "EXPORT_DATABASE_PATH", "ADMIN_API_KEY",
		"LOG_LEVEL", "LOG_FORMAT", "MAX_RANGE_DAYS", "SHUTDOWN_TIMEOUT",
	}
	for _, v := range vars {
		t.Setenv(v, "")
	}
}
