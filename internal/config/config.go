package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sharkusmanch/ntfy-publisher/pkg/ntfy"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   string         `mapstructure:"server"`
	Topic    string         `mapstructure:"topic"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// AuthConfig holds credentials for the ntfy server.
// Token and Username are mutually exclusive.
type AuthConfig struct {
	Token    string `mapstructure:"token"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Mode reports which credentials are configured.
func (a AuthConfig) Mode() AuthMode {
	switch {
	case a.Token != "":
		return AuthToken
	case a.Username != "":
		return AuthBasic
	default:
		return AuthNone
	}
}

// DefaultsConfig holds attributes applied to every published notification
// unless overridden.
type DefaultsConfig struct {
	Priority   string   `mapstructure:"priority"`
	Tags       []string `mapstructure:"tags"`
	Markdown   bool     `mapstructure:"markdown"`
	NoCache    bool     `mapstructure:"no_cache"`
	NoFirebase bool     `mapstructure:"no_firebase"`
}

// RetryConfig holds HTTP retry configuration.
type RetryConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// MetricsConfig holds Prometheus Pushgateway configuration.
type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Output    string `mapstructure:"output"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configPath string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// WithConfigPath sets a specific config file path.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// Load reads configuration from all sources and returns the merged config.
// Precedence (highest to lowest): Set overrides > environment > config file > defaults.
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()
	l.setupEnvBindings()

	if err := l.loadConfigFile(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("server", DefaultServer)
	l.v.SetDefault("topic", DefaultTopic)

	l.v.SetDefault("auth.token", "")
	l.v.SetDefault("auth.username", "")
	l.v.SetDefault("auth.password", "")

	l.v.SetDefault("defaults.priority", DefaultPriority)
	l.v.SetDefault("defaults.tags", []string{})
	l.v.SetDefault("defaults.markdown", DefaultMarkdown)
	l.v.SetDefault("defaults.no_cache", DefaultNoCache)
	l.v.SetDefault("defaults.no_firebase", DefaultNoFirebase)

	l.v.SetDefault("retry.max_attempts", DefaultRetryMaxAttempts)
	l.v.SetDefault("retry.initial_delay", DefaultRetryInitialDelay)
	l.v.SetDefault("retry.max_delay", DefaultRetryMaxDelay)
	l.v.SetDefault("retry.timeout", DefaultRetryTimeout)

	l.v.SetDefault("metrics.enabled", DefaultMetricsEnabled)
	l.v.SetDefault("metrics.pushgateway_url", DefaultMetricsPushgatewayURL)
	l.v.SetDefault("metrics.job", DefaultMetricsJob)

	l.v.SetDefault("log.level", DefaultLogLevel)
	l.v.SetDefault("log.output", "")
	l.v.SetDefault("log.max_size_mb", DefaultLogMaxSizeMB)
}

// setupEnvBindings maps NTFY_PUBLISHER_AUTH_TOKEN to auth.token and so on.
func (l *Loader) setupEnvBindings() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

func (l *Loader) loadConfigFile() error {
	if l.configPath != "" {
		l.v.SetConfigFile(l.configPath)
	} else {
		configDir, err := DefaultConfigDir()
		if err != nil {
			// No home directory: run on defaults and environment only.
			return nil
		}

		l.v.SetConfigName("config")
		l.v.SetConfigType("toml")
		l.v.AddConfigPath(configDir)
		l.v.AddConfigPath(".")
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// Set sets a configuration value (for CLI flag overrides).
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// ConfigFileUsed returns the path of the config file used, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	u, err := url.ParseRequestURI(c.Server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server must be an absolute URL, got %q", c.Server)
	}

	if c.Auth.Token != "" && c.Auth.Username != "" {
		return fmt.Errorf("auth.token and auth.username are mutually exclusive")
	}
	if c.Auth.Password != "" && c.Auth.Username == "" {
		return fmt.Errorf("auth.password requires auth.username")
	}

	if _, err := ntfy.ParsePriority(c.Defaults.Priority); err != nil {
		return fmt.Errorf("defaults.priority: %w", err)
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Retry.InitialDelay < 0 {
		return fmt.Errorf("retry.initial_delay cannot be negative")
	}
	if c.Retry.MaxDelay < c.Retry.InitialDelay {
		return fmt.Errorf("retry.max_delay must be >= retry.initial_delay")
	}
	if c.Retry.Timeout <= 0 {
		return fmt.Errorf("retry.timeout must be positive")
	}

	if c.Metrics.Enabled {
		if c.Metrics.PushgatewayURL == "" {
			return fmt.Errorf("metrics.pushgateway_url is required when metrics is enabled")
		}
		if c.Metrics.Job == "" {
			return fmt.Errorf("metrics.job is required when metrics is enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	if c.Log.MaxSizeMB < 1 {
		return fmt.Errorf("log.max_size_mb must be at least 1")
	}

	return nil
}

// Notification returns a notification carrying the server, topic,
// credentials and defaults of c.
func (c *Config) Notification() ntfy.Notification {
	n := ntfy.New().
		WithServer(c.Server).
		WithTopic(c.Topic).
		WithoutCache(c.Defaults.NoCache).
		WithoutFirebase(c.Defaults.NoFirebase)

	switch c.Auth.Mode() {
	case AuthToken:
		n = n.WithToken(c.Auth.Token)
	case AuthBasic:
		n = n.WithBasicAuth(c.Auth.Username, c.Auth.Password)
	}

	// Validate has already rejected unknown names.
	if p, _ := ntfy.ParsePriority(c.Defaults.Priority); p != 0 {
		n = n.WithPriority(p)
	}
	if len(c.Defaults.Tags) > 0 {
		n = n.WithTags(c.Defaults.Tags...)
	}

	return n
}

// WriteExampleConfig writes an example config file to the given path.
func WriteExampleConfig(path string) error {
	content := `# ntfy-publisher configuration

# ntfy server and default topic
server = "https://ntfy.sh"
topic = ""

# Credentials: either a token or a username/password pair
[auth]
token = ""
username = ""
password = ""

# Applied to every notification unless overridden on the command line
[defaults]
# min, low, default, high, max (or 1-5); empty leaves it to the server
priority = ""
tags = []
markdown = false
no_cache = false
no_firebase = false

# HTTP retry configuration
[retry]
max_attempts = 3
initial_delay = "2s"
max_delay = "30s"
timeout = "30s"

# Prometheus Pushgateway (optional, disabled by default)
[metrics]
enabled = false
pushgateway_url = "http://pushgateway:9091"
job = "ntfy_publisher"

# Logging configuration
[log]
# Level: debug, info, warn, error
level = "info"
# Output file path; empty logs to stderr
# output = ""
# Max log file size before rotation (MB)
max_size_mb = 10
`
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(content), 0600)
}
