package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/modu-ai/webproj/internal/defs"
)

// EnvConfigPath names the environment variable that overrides the config file location.
const EnvConfigPath = "WEBPROJ_CONFIG"

// Loader reads configuration from a YAML file, an optional .env file and
// the process environment. Precedence, lowest first: compiled defaults,
// YAML file, .env file, process environment.
type Loader struct {
	path     string
	envFile  string
	lookupFn func(string) (string, bool)
	logger   *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithEnvFile sets the .env file consulted for WEBPROJ_* overrides.
// An empty path disables .env loading.
func WithEnvFile(path string) LoaderOption {
	return func(l *Loader) {
		l.envFile = path
	}
}

// WithLookupEnv replaces os.LookupEnv, mainly for tests.
func WithLookupEnv(fn func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		l.lookupFn = fn
	}
}

// WithLogger sets the logger used for non-fatal load warnings.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader for the YAML file at path. A missing file is
// not an error; compiled defaults are used instead.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		path:     path,
		envFile:  defs.DotEnvFile,
		lookupFn: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}

// DefaultPath returns the config file location: $WEBPROJ_CONFIG when set,
// otherwise <user config dir>/webproj/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return filepath.Clean(p)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, defs.UserConfigDir, defs.UserConfigYAML)
}

// Load builds the merged configuration and validates it.
func (l *Loader) Load() (*Config, error) {
	cfg := NewDefaultConfig()

	if err := l.loadFile(cfg); err != nil {
		return nil, err
	}

	dotenv := l.readDotEnv()
	lookup := func(key string) (string, bool) {
		if v, ok := l.lookupFn(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := applyEnvOverrides(cfg, lookup); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes the YAML file into cfg. Keys absent from the file keep
// their default values.
func (l *Loader) loadFile(cfg *Config) error {
	if l.path == "" {
		return nil
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Debug("config file not found, using defaults", "path", l.path)
			return nil
		}
		return fmt.Errorf("read config %s: %w", l.path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w: %v", l.path, ErrInvalidYAML, err)
	}
	l.logger.Debug("config file loaded", "path", l.path)
	return nil
}

// readDotEnv parses the .env file without touching the process environment.
func (l *Loader) readDotEnv() map[string]string {
	if l.envFile == "" {
		return nil
	}
	if _, err := os.Stat(l.envFile); err != nil {
		return nil
	}
	values, err := godotenv.Read(l.envFile)
	if err != nil {
		l.logger.Warn("failed to parse .env file, ignoring", "path", l.envFile, "error", err)
		return nil
	}
	return values
}

// applyEnvOverrides applies WEBPROJ_* variables on top of cfg.
func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("WEBPROJ_AUTHOR"); ok {
		cfg.Defaults.Author = v
	}
	if v, ok := lookup("WEBPROJ_DESCRIPTION"); ok {
		cfg.Defaults.Description = v
	}
	if v, ok := lookup("WEBPROJ_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: WEBPROJ_PORT=%q", ErrInvalidEnv, v)
		}
		cfg.Defaults.Port = port
	}
	if v, ok := lookup("WEBPROJ_EDITOR"); ok {
		cfg.Editor = v
	}
	if v, ok := lookup("WEBPROJ_TEMPLATE_URL"); ok {
		cfg.Templates.RemoteURL = v
	}
	if v, ok := lookup("WEBPROJ_PROBE_ADDR"); ok && v != "" {
		cfg.Network.ProbeAddr = v
	}
	if v, ok := lookup("WEBPROJ_PROBE_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: WEBPROJ_PROBE_TIMEOUT=%q", ErrInvalidEnv, v)
		}
		cfg.Network.ProbeTimeout = d
	}
	if v, ok := lookup("WEBPROJ_LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup("WEBPROJ_NO_COLOR"); ok && (v == "1" || v == "true") {
		cfg.UI.NoColor = true
	}
	if _, ok := lookup("NO_COLOR"); ok {
		cfg.UI.NoColor = true
	}
	return nil
}
