/*
Package configs loads the relay's settings.

Values come from defaults, an optional YAML file named by CONFIG_FILE, and
environment variables, in increasing order of precedence.
*/
package configs

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvDevelopment is the default environment name.
const EnvDevelopment = "development"

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment     string
	Port            int
	ShutdownTimeout time.Duration
	LogLevel        string

	// Security Settings
	AllowedOrigins []string

	// Static Assets
	StaticDir string

	// Chat Settings
	StrictSanitize  bool
	MaxMessageBytes int64
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("environment", EnvDevelopment)
	v.SetDefault("port", "5000")
	v.SetDefault("shutdown_timeout", 5*time.Second)
	v.SetDefault("log_level", "")
	v.SetDefault("allowed_origins", "")
	v.SetDefault("static_dir", "static")
	v.SetDefault("strict_sanitize", false)
	v.SetDefault("max_message_bytes", 8192)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadConfig resolves the configuration and validates it.
func LoadConfig() (*AppConfig, error) {
	v := newViper()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &AppConfig{
		Environment: strings.TrimSpace(v.GetString("environment")),
		LogLevel:    v.GetString("log_level"),
		StaticDir:   v.GetString("static_dir"),
	}

	if cfg.Environment == "" {
		cfg.Environment = EnvDevelopment
	}

	port, err := strconv.Atoi(strings.TrimSpace(v.GetString("port")))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	if port < 1024 || port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the allowed range (%d-%d) to avoid privileged ports", port, 1024, 65535)
	}
	cfg.Port = port

	cfg.ShutdownTimeout = v.GetDuration("shutdown_timeout")
	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT value %q", v.GetString("shutdown_timeout"))
	}

	cfg.AllowedOrigins = splitOrigins(v.GetString("allowed_origins"))

	strict, err := strconv.ParseBool(v.GetString("strict_sanitize"))
	if err != nil {
		return nil, fmt.Errorf("invalid STRICT_SANITIZE value: %w", err)
	}
	cfg.StrictSanitize = strict

	maxBytes, err := strconv.ParseInt(v.GetString("max_message_bytes"), 10, 64)
	if err != nil || maxBytes <= 0 {
		return nil, fmt.Errorf("invalid MAX_MESSAGE_BYTES value %q", v.GetString("max_message_bytes"))
	}
	cfg.MaxMessageBytes = maxBytes

	return cfg, nil
}

func splitOrigins(raw string) []string {
	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
