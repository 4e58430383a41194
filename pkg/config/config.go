package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	CacheRedisURL string        `mapstructure:"CACHE_REDIS_URL"`
	CacheKey      string        `mapstructure:"CACHE_KEY"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	RefreshInterval time.Duration `mapstructure:"REFRESH_INTERVAL"`
	RefreshTimeout  time.Duration `mapstructure:"REFRESH_TIMEOUT"`
	RefreshOnStart  bool          `mapstructure:"REFRESH_ON_START"`

	FetchTimeout    time.Duration `mapstructure:"FETCH_TIMEOUT"`
	FetchProxies    string        `mapstructure:"FETCH_PROXIES"`
	CourseraPages   int           `mapstructure:"COURSERA_PAGES"`
	PageConcurrency int           `mapstructure:"PAGE_CONCURRENCY"`
	Sources         string        `mapstructure:"SOURCES"`
	LifeCatalogURL  string        `mapstructure:"LIFE_CATALOG_URL"`

	BrowserEnabled     bool          `mapstructure:"BROWSER_ENABLED"`
	ChromeDriverPath   string        `mapstructure:"CHROME_DRIVER_PATH"`
	BrowserMaxRetries  int           `mapstructure:"BROWSER_MAX_RETRIES"`
	BrowserRetryDelay  time.Duration `mapstructure:"BROWSER_RETRY_DELAY"`
	BrowserPageTimeout time.Duration `mapstructure:"BROWSER_PAGE_TIMEOUT"`

	// PostgresURL enables the scrape run history when set.
	PostgresURL string `mapstructure:"POSTGRES_URL"`
}

// Load reads configuration from an optional env file and environment variables.
// An empty path means ".env" in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// The file is optional so the service can be configured purely through the environment.
	_ = v.ReadInConfig()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CACHE_REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("CACHE_KEY", "courses_data")
	v.SetDefault("CACHE_TTL", 24*time.Hour)
	v.SetDefault("REFRESH_INTERVAL", 24*time.Hour)
	v.SetDefault("REFRESH_TIMEOUT", 5*time.Minute)
	v.SetDefault("REFRESH_ON_START", false)
	v.SetDefault("FETCH_TIMEOUT", 10*time.Second)
	v.SetDefault("FETCH_PROXIES", "")
	v.SetDefault("COURSERA_PAGES", 8)
	v.SetDefault("PAGE_CONCURRENCY", 8)
	v.SetDefault("SOURCES", "coursera,harvard,udacity,who,life")
	v.SetDefault("LIFE_CATALOG_URL", "https://www.lifelearning.org/api/courses?price=free")
	v.SetDefault("BROWSER_ENABLED", false)
	v.SetDefault("CHROME_DRIVER_PATH", "")
	v.SetDefault("BROWSER_MAX_RETRIES", 3)
	v.SetDefault("BROWSER_RETRY_DELAY", 5*time.Second)
	v.SetDefault("BROWSER_PAGE_TIMEOUT", 30*time.Second)
	v.SetDefault("POSTGRES_URL", "")
}

// SourceNames returns the enabled source names, lower-cased and de-duplicated.
func (c *Config) SourceNames() []string {
	names := splitList(c.Sources)
	for i, n := range names {
		names[i] = strings.ToLower(n)
	}
	return dedupe(names)
}

// ProxyList returns the configured outbound proxies.
func (c *Config) ProxyList() []string {
	return splitList(c.FetchProxies)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return dedupe(out)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
