package config

import "time"

// Config is the root configuration aggregate for webproj.
type Config struct {
	Defaults  DefaultsConfig  `yaml:"defaults"`
	Editor    string          `yaml:"editor"`
	Templates TemplatesConfig `yaml:"templates"`
	Network   NetworkConfig   `yaml:"network"`
	Log       LogConfig       `yaml:"log"`
	UI        UIConfig        `yaml:"ui"`
}

// DefaultsConfig pre-fills prompt answers. Empty values fall through to the
// resolver's built-in defaults.
type DefaultsConfig struct {
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	Port        int    `yaml:"port" validate:"omitempty,min=1024,max=65535"`
}

// TemplatesConfig configures the remote template source.
type TemplatesConfig struct {
	RemoteURL string        `yaml:"remote_url" validate:"omitempty,http_url"`
	Timeout   time.Duration `yaml:"timeout" validate:"min=0"`
	Retries   int           `yaml:"retries" validate:"min=0,max=10"`
}

// NetworkConfig configures the connectivity probe.
type NetworkConfig struct {
	ProbeAddr    string        `yaml:"probe_addr" validate:"required,hostname_port"`
	ProbeTimeout time.Duration `yaml:"probe_timeout" validate:"gt=0"`
}

// LogConfig configures the run log.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Quiet bool   `yaml:"quiet"`
}

// UIConfig configures terminal rendering.
type UIConfig struct {
	NoColor bool `yaml:"no_color"`
}
