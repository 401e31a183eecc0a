package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoadValidConfig(t *testing.T) {
	_ = os.Setenv("PORT", "8002")
	_ = os.Setenv("ADDRESS", "127.0.0.1")
	_ = os.Setenv("ENV", "dev")
	_ = os.Setenv("LOG_LEVEL", "info")
	_ = os.Setenv("LOOKUP_WORKERS", "8")
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8002" {
		t.Errorf("Expected port 8002, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected env dev, got %s", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level info, got %s", cfg.LogLevel)
	}
	if cfg.LookupWorkers != 8 {
		t.Errorf("Expected 8 lookup workers, got %d", cfg.LookupWorkers)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected default env dev, got %s", cfg.Env)
	}
	if cfg.InventorySource != InventorySourceFile {
		t.Errorf("Expected default inventory source file, got %s", cfg.InventorySource)
	}
	if cfg.InventoryFile != "files/inventory.tsv" {
		t.Errorf("Expected default inventory file, got %s", cfg.InventoryFile)
	}
	if cfg.LookupWorkers != 4 {
		t.Errorf("Expected 4 lookup workers, got %d", cfg.LookupWorkers)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("Unexpected default origins: %v", cfg.AllowedOrigins)
	}
}

func TestInvalidPort(t *testing.T) {
	testCases := []struct {
		port     string
		expected string
	}{
		{"abc", "PORT must be a valid number"},
		{"0", "PORT must be between 1 and 65535"},
		{"65536", "PORT must be between 1 and 65535"},
		{"80", "PORT 80 is privileged"},
	}

	defer cleanupEnv()
	for _, tc := range testCases {
		_ = os.Setenv("PORT", tc.port)

		_, err := Load()
		if err == nil {
			t.Errorf("Expected error for port %s, got nil", tc.port)
			continue
		}
		if !strings.Contains(err.Error(), tc.expected) {
			t.Errorf("Expected error containing %q, got %q", tc.expected, err.Error())
		}
	}
}

func TestInvalidAddress(t *testing.T) {
	defer cleanupEnv()
	_ = os.Setenv("ADDRESS", "invalid")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for address invalid, got nil")
	}
	if !strings.Contains(err.Error(), "ADDRESS must be a valid IP address") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestInvalidEnv(t *testing.T) {
	defer cleanupEnv()
	_ = os.Setenv("ENV", "invalid")

	if _, err := Load(); err == nil {
		t.Error("Expected error for env invalid, got nil")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	defer cleanupEnv()
	_ = os.Setenv("LOG_LEVEL", "invalid")

	if _, err := Load(); err == nil {
		t.Error("Expected error for log level invalid, got nil")
	}
}

func TestInventorySettings(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown source",
			env:     map[string]string{"INVENTORY_SOURCE": "mysql"},
			wantErr: "INVENTORY_SOURCE",
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"INVENTORY_SOURCE": "postgres"},
			wantErr: "DATABASE_URL",
		},
		{
			name: "postgres with url",
			env: map[string]string{
				"INVENTORY_SOURCE": "postgres",
				"DATABASE_URL":     "postgres://pharmacy@localhost:5432/pharmacy",
			},
		},
		{
			name:    "http without url",
			env:     map[string]string{"INVENTORY_SOURCE": "http"},
			wantErr: "INVENTORY_URL",
		},
		{
			name: "http with relative url",
			env: map[string]string{
				"INVENTORY_SOURCE": "http",
				"INVENTORY_URL":    "/exports/inventory.tsv",
			},
			wantErr: "INVENTORY_URL",
		},
		{
			name: "http with url",
			env: map[string]string{
				"INVENTORY_SOURCE": "http",
				"INVENTORY_URL":    "https://till.example/exports/inventory.tsv",
			},
		},
		{
			name:    "refresh too long",
			env:     map[string]string{"INVENTORY_REFRESH_MINUTES": "5000"},
			wantErr: "INVENTORY_REFRESH_MINUTES",
		},
		{
			name:    "zero workers",
			env:     map[string]string{"LOOKUP_WORKERS": "0"},
			wantErr: "LOOKUP_WORKERS",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cleanupEnv()
			defer cleanupEnv()
			for k, v := range tc.env {
				_ = os.Setenv(k, v)
			}

			_, err := Load()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error mentioning %s, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAllowedOriginsList(t *testing.T) {
	defer cleanupEnv()
	_ = os.Setenv("ALLOWED_ORIGINS", "http://a.example, ,http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("Expected 2 origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.AllowedOrigins[1] != "http://b.example" {
		t.Errorf("Expected trimmed origin, got %q", cfg.AllowedOrigins[1])
	}
}

func cleanupEnv() {
	for _, name := range GetEnvVars() {
		_ = os.Unsetenv(name)
	}
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input    string
		expected Environment
		hasError bool
	}{
		{"dev", EnvDevelopment, false},
		{"development", EnvDevelopment, false},
		{"staging", EnvStaging, false},
		{"prod", EnvProduction, false},
		{"production", EnvProduction, false},
		{"test", EnvTest, false},
		{"invalid", EnvDevelopment, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			env, err := ParseEnvironment(tt.input)
			if tt.hasError {
				if err == nil {
					t.Errorf("Expected error for %s, got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for %s: %v", tt.input, err)
			}
			if env != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, env)
			}
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	tests := []struct {
		env      Environment
		expected string
	}{
		{EnvDevelopment, "dev"},
		{EnvStaging, "staging"},
		{EnvProduction, "prod"},
		{EnvTest, "test"},
	}

	for _, tt := range tests {
		if got := tt.env.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}
