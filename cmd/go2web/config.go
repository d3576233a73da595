package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	go2web "github.com/always-cache/go2web"
	"github.com/always-cache/go2web/cache"
	responsetransformer "github.com/always-cache/go2web/pkg/response-transformer"
	"github.com/always-cache/go2web/pkg/transport"
	"github.com/always-cache/go2web/rfc9111"
	"github.com/always-cache/go2web/search"
	"gopkg.in/yaml.v3"
)

const (
	providerFile   = "file"
	providerSQLite = "sqlite"
	providerMemory = "memory"
)

type Config struct {
	Cache  CacheConfig  `yaml:"cache"`
	Client ClientConfig `yaml:"client"`
	Search SearchConfig `yaml:"search"`
}

type CacheConfig struct {
	// One of file, sqlite or memory.
	Provider string `yaml:"provider"`
	// Directory of the file provider.
	Dir string `yaml:"dir"`
	// Database file of the sqlite provider.
	DB            string        `yaml:"db"`
	DefaultMaxAge time.Duration `yaml:"defaultMaxAge"`
	// Cache-Control defaults and overrides by target.
	Rules responsetransformer.Rules `yaml:"rules"`
}

type ClientConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	MaxRedirects   int           `yaml:"maxRedirects"`
	UserAgent      string        `yaml:"userAgent"`
	AcceptLanguage string        `yaml:"acceptLanguage"`
	Fingerprint    string        `yaml:"fingerprint"`
}

type SearchConfig struct {
	URL        string `yaml:"url"`
	MaxResults int    `yaml:"maxResults"`
}

func defaultConfig() Config {
	dir := cache.DefaultDir()
	return Config{
		Cache: CacheConfig{
			Provider:      providerFile,
			Dir:           dir,
			DB:            filepath.Join(dir, "cache.db"),
			DefaultMaxAge: rfc9111.DefaultLifetime,
		},
		Client: ClientConfig{
			Timeout:        transport.DefaultTimeout,
			MaxRedirects:   go2web.DefaultMaxRedirects,
			AcceptLanguage: "en-US,en;q=0.9",
		},
		Search: SearchConfig{
			URL:        search.DefaultURL,
			MaxResults: search.DefaultMaxResults,
		},
	}
}

// getConfig reads filename over the defaults. An empty filename returns
// the defaults.
func getConfig(filename string) (Config, error) {
	config := defaultConfig()
	if filename == "" {
		return config, nil
	}
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(configBytes, &config); err != nil {
		return config, fmt.Errorf("parse %s: %w", filename, err)
	}
	config.Cache.Dir = expandHome(config.Cache.Dir)
	config.Cache.DB = expandHome(config.Cache.DB)
	return config, config.validate()
}

func (c Config) validate() error {
	switch c.Cache.Provider {
	case providerFile, providerSQLite, providerMemory:
	default:
		return fmt.Errorf("unsupported cache provider: %s", c.Cache.Provider)
	}
	if !transport.ValidFingerprint(c.Client.Fingerprint) {
		return fmt.Errorf("unknown fingerprint: %s", c.Client.Fingerprint)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
