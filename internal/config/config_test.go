package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid config",
			config: Config{
				Port:            "8080",
				SQLiteDBPath:    "./test.db",
				JWTSecret:       testSecret,
				TokenDuration:   24 * time.Hour,
				MaxGroupMembers: 50,
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:            "abc",
				JWTSecret:       testSecret,
				TokenDuration:   time.Hour,
				MaxGroupMembers: 10,
			},
			wantErr:     true,
			errorString: "invalid port 'abc'",
		},
		{
			name: "invalid port - out of range",
			config: Config{
				Port:            "70000",
				JWTSecret:       testSecret,
				TokenDuration:   time.Hour,
				MaxGroupMembers: 10,
			},
			wantErr:     true,
			errorString: "must be between 1 and 65535",
		},
		{
			name: "missing jwt secret",
			config: Config{
				Port:            "8080",
				TokenDuration:   time.Hour,
				MaxGroupMembers: 10,
			},
			wantErr:     true,
			errorString: "JWT_SECRET is required",
		},
		{
			name: "short jwt secret",
			config: Config{
				Port:            "8080",
				JWTSecret:       "short",
				TokenDuration:   time.Hour,
				MaxGroupMembers: 10,
			},
			wantErr:     true,
			errorString: "at least 32 characters",
		},
		{
			name: "max group members too small",
			config: Config{
				Port:            "8080",
				JWTSecret:       testSecret,
				TokenDuration:   time.Hour,
				MaxGroupMembers: 1,
			},
			wantErr:     true,
			errorString: "at least 2 members",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errorString)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("TokenDuration = %v, want 24h", cfg.TokenDuration)
	}
	if cfg.MaxGroupMembers != 50 {
		t.Errorf("MaxGroupMembers = %d, want 50", cfg.MaxGroupMembers)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_DURATION", "2h")
	t.Setenv("MAX_GROUP_MEMBERS", "8")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Errorf("TokenDuration = %v, want 2h", cfg.TokenDuration)
	}
	if cfg.MaxGroupMembers != 8 {
		t.Errorf("MaxGroupMembers = %d, want 8", cfg.MaxGroupMembers)
	}
}
