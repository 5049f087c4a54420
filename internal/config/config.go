package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Supabase Supabase `mapstructure:"supabase"`
	Session  Session  `mapstructure:"session"`
	Logger   Logger   `mapstructure:"logger"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database selects and configures the backing store.
// Driver is either "sqlite" (local file) or "supabase" (hosted PostgREST).
type Database struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Supabase holds the connection secrets for the hosted store.
type Supabase struct {
	URL            string  `mapstructure:"url"`
	Key            string  `mapstructure:"key"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Session holds the configuration for the in-memory session store.
type Session struct {
	Secret     string `mapstructure:"secret"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")

	// Allow environment variables to override config file,
	// e.g. SUPABASE_URL overrides supabase.url.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "tradeflow.db")
	viper.SetDefault("supabase.rate_limit", 10) // requests per second
	viper.SetDefault("supabase.rate_limit_burst", 5)
	viper.SetDefault("session.ttl_minutes", 720)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	err = config.Validate()
	return
}

// placeholderMarkers are fragments of the sample secrets shipped in the
// default config. Starting with these still in place means the operator
// never configured their own project keys.
var placeholderMarkers = []string{"YOUR-PROJECT", "YOUR-SUPABASE", "CHANGE-ME"}

// Validate fails fast on missing or placeholder connection secrets so the
// process refuses to start half-configured.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn must be set for the sqlite driver")
		}
	case "supabase":
		if c.Supabase.URL == "" || c.Supabase.Key == "" {
			return fmt.Errorf("supabase.url and supabase.key must be set " +
				"(via config.yml or the SUPABASE_URL / SUPABASE_KEY environment variables); " +
				"find them under Settings > API in your Supabase project")
		}
		for _, marker := range placeholderMarkers {
			if strings.Contains(strings.ToUpper(c.Supabase.URL), marker) ||
				strings.Contains(strings.ToUpper(c.Supabase.Key), marker) {
				return fmt.Errorf("supabase credentials still contain the placeholder %q; "+
					"replace them with your real project URL and anon key", marker)
			}
		}
	default:
		return fmt.Errorf("unknown database driver %q (want sqlite or supabase)", c.Database.Driver)
	}

	if c.Session.Secret == "" || strings.Contains(strings.ToUpper(c.Session.Secret), "CHANGE-ME") {
		return fmt.Errorf("session.secret must be set to a random string (it signs session tokens)")
	}
	if c.Session.TTLMinutes <= 0 {
		return fmt.Errorf("session.ttl_minutes must be positive")
	}
	return nil
}
