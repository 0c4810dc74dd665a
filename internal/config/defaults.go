package config

import "time"

// Default value constants.
const (
	DefaultRemoteTemplateURL = "https://raw.githubusercontent.com/modu-ai/webproj-templates/main"
	DefaultTemplateTimeout   = 5 * time.Second
	DefaultTemplateRetries   = 2

	DefaultProbeAddr    = "8.8.8.8:53"
	DefaultProbeTimeout = time.Second

	DefaultLogLevel = "info"
)

// NewDefaultConfig returns a Config with all fields set to compiled defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Templates: TemplatesConfig{
			RemoteURL: DefaultRemoteTemplateURL,
			Timeout:   DefaultTemplateTimeout,
			Retries:   DefaultTemplateRetries,
		},
		Network: NetworkConfig{
			ProbeAddr:    DefaultProbeAddr,
			ProbeTimeout: DefaultProbeTimeout,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}
