package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "travel-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// UpstreamConfig holds settings for the product search API.
type UpstreamConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the API root; /page and /productInfo are appended.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// PageSize is the number of records requested per page (fixed at 10 upstream).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// MaxRetries is the number of retries on 429 and 5xx responses (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RequestsPerSecond caps the request rate per client; 0 disables the cap.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// Burst is the rate limiter bucket size (default 5).
	Burst int `json:"burst" yaml:"burst" mapstructure:"burst"`

	// Token is an optional bearer token. Usually loaded from .secrets/upstream-token.
	Token string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`
}

// SearchConfig holds settings for page resolution.
type SearchConfig struct {
	// SampleCap is how many products are rendered per page (default 3).
	SampleCap int `json:"sample_cap" yaml:"sample_cap" mapstructure:"sample_cap"`

	// FanOut bounds concurrent detail fetches, clamped to 2-5 (default 3).
	FanOut int `json:"fan_out" yaml:"fan_out" mapstructure:"fan_out"`
}

// GeoConfig locates the region code table.
type GeoConfig struct {
	// CodesFile is a YAML code table; empty uses the built-in table.
	CodesFile string `json:"codes_file" yaml:"codes_file" mapstructure:"codes_file"`
}

// LogConfig holds logger and rotation settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Dir is the directory for rotated log files (default "logs").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	MaxSizeMB  int  `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `json:"max_age_days" yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `json:"compress" yaml:"compress" mapstructure:"compress"`

	// Console also writes log lines to stderr.
	Console bool `json:"console" yaml:"console" mapstructure:"console"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	Upstream UpstreamConfig `json:"upstream" yaml:"upstream" mapstructure:"upstream"`
	Search   SearchConfig   `json:"search" yaml:"search" mapstructure:"search"`
	Geo      GeoConfig      `json:"geo" yaml:"geo" mapstructure:"geo"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
}

// Defaults used when a setting is zero.
const (
	DefaultPageSize   = 10
	DefaultSampleCap  = 3
	DefaultFanOut     = 3
	DefaultMaxRetries = 2
	DefaultBurst      = 5
	DefaultTimeout    = 30 * time.Second
	DefaultUserAgent  = "travel-search/0.1"
)

// DefaultAppConfig returns the configuration used when nothing is set.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Upstream: UpstreamConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   DefaultTimeout,
				UserAgent: DefaultUserAgent,
			},
			PageSize:   DefaultPageSize,
			MaxRetries: DefaultMaxRetries,
			Burst:      DefaultBurst,
		},
		Search: SearchConfig{
			SampleCap: DefaultSampleCap,
			FanOut:    DefaultFanOut,
		},
		Log: LogConfig{
			Level:      "info",
			Dir:        "logs",
			MaxSizeMB:  10,
			MaxBackups: 7,
			MaxAgeDays: 28,
			Compress:   true,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Normalized returns c with zero values replaced by defaults and FanOut
// clamped to 2-5.
func (c SearchConfig) Normalized() SearchConfig {
	if c.SampleCap <= 0 {
		c.SampleCap = DefaultSampleCap
	}
	switch {
	case c.FanOut <= 0:
		c.FanOut = DefaultFanOut
	case c.FanOut < 2:
		c.FanOut = 2
	case c.FanOut > 5:
		c.FanOut = 5
	}
	return c
}
