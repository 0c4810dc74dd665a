package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "port below range",
			mutate:    func(c *Config) { c.Defaults.Port = 80 },
			wantField: "defaults.port",
		},
		{
			name:      "port above range",
			mutate:    func(c *Config) { c.Defaults.Port = 70000 },
			wantField: "defaults.port",
		},
		{
			name:      "bad remote url",
			mutate:    func(c *Config) { c.Templates.RemoteURL = "not a url" },
			wantField: "templates.remote_url",
		},
		{
			name:      "too many retries",
			mutate:    func(c *Config) { c.Templates.Retries = 50 },
			wantField: "templates.retries",
		},
		{
			name:      "probe addr without port",
			mutate:    func(c *Config) { c.Network.ProbeAddr = "example.com" },
			wantField: "network.probe_addr",
		},
		{
			name:      "zero probe timeout",
			mutate:    func(c *Config) { c.Network.ProbeTimeout = 0 },
			wantField: "network.probe_timeout",
		},
		{
			name:      "unknown log level",
			mutate:    func(c *Config) { c.Log.Level = "verbose" },
			wantField: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
			}

			var verrs *ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("error type = %T, want *ValidationErrors", err)
			}
			found := false
			for _, ve := range verrs.Errors {
				if ve.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.wantField, err)
			}
		})
	}
}

func TestValidate_AcceptsEmptyOptionalFields(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Templates.RemoteURL = ""
	cfg.Defaults.Port = 0
	cfg.Network.ProbeTimeout = 250 * time.Millisecond

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := &ValidationErrors{Errors: []ValidationError{
		{Field: "a", Message: "bad", Value: 1},
		{Field: "b", Message: "worse"},
	}}
	msg := errs.Error()
	if !strings.Contains(msg, "2 error(s)") {
		t.Errorf("Error() = %q, want error count", msg)
	}
	if !strings.Contains(msg, `field "a": bad (got: 1)`) {
		t.Errorf("Error() = %q, missing first error", msg)
	}
}
