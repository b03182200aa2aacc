package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultBridgeURL is the AI bridge endpoint used when nothing is configured.
	DefaultBridgeURL = "http://localhost:8000"
	// DefaultVersion is the reported application version.
	DefaultVersion = "0.1.0-alpha"
)

// Config holds the configuration for the application.
type Config struct {
	App struct {
		Version string `mapstructure:"version"`
	} `mapstructure:"app"`
	Server struct {
		Addr string `mapstructure:"addr"`
		TLS  struct {
			Enable    bool     `mapstructure:"enable"`
			CertFile  string   `mapstructure:"cert_file"`
			KeyFile   string   `mapstructure:"key_file"`
			Hostnames []string `mapstructure:"hostnames"`
		} `mapstructure:"tls"`
	} `mapstructure:"server"`
	Bridge struct {
		URL      string        `mapstructure:"url"`
		Timeout  time.Duration `mapstructure:"timeout"`
		Dispatch bool          `mapstructure:"dispatch"`
	} `mapstructure:"bridge"`
	Log struct {
		Level  string `mapstructure:"level"`
		Pretty bool   `mapstructure:"pretty"`
	} `mapstructure:"log"`

	// File is the config file that was read, empty when running on defaults.
	File string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.version", DefaultVersion)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.tls.enable", false)
	v.SetDefault("server.tls.cert_file", "")
	v.SetDefault("server.tls.key_file", "")
	v.SetDefault("server.tls.hostnames", []string{})
	v.SetDefault("bridge.url", DefaultBridgeURL)
	v.SetDefault("bridge.timeout", 5*time.Second)
	v.SetDefault("bridge.dispatch", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// LoadConfig loads the configuration from defaults, an optional YAML file and
// the environment (AISTUDIO_BRIDGE_URL and friends). When path is empty,
// config.yaml is looked up in . and ./config; a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("AISTUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	normalized, err := normalizeBridgeURL(config.Bridge.URL)
	if err != nil {
		return nil, err
	}
	config.Bridge.URL = normalized
	config.File = v.ConfigFileUsed()

	if config.Bridge.Timeout <= 0 {
		return nil, fmt.Errorf("bridge.timeout must be positive, got %s", config.Bridge.Timeout)
	}

	return &config, nil
}

// normalizeBridgeURL trims whitespace and trailing slashes so paths can be
// appended directly, and rejects anything that is not an absolute http(s) URL.
func normalizeBridgeURL(input string) (string, error) {
	raw := strings.TrimRight(strings.TrimSpace(input), "/")
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid bridge.url %q: %w", input, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid bridge.url %q: must be an absolute http(s) URL", input)
	}
	return raw, nil
}
