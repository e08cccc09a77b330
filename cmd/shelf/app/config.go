package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/shelf/internal/config"
	"github.com/agentstation/shelf/pkg/constants"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Catalog source
	Source     string        // http(s) URL or local JSON/YAML file
	SourceAuth string        // none, bearer, header:<name> or query:<param>
	APIKeyEnv  string        // variable holding the source and writer key
	APIKey     string        // resolved from APIKeyEnv
	CacheTTL   time.Duration // zero disables fetch caching

	// Overlay
	Backend string // memory:, file://dir, sqlite://path or redis://...
	Area    string
	Codec   string // json or yaml, file backends only

	// Remote writes
	WriterURL       string
	QueueConnection string // Azure Storage connection string
	QueueName       string
	QueueSize       int

	// Logging configuration
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (SHELF_ prefix)
// 3. .env files
// 4. Config file (SHELF_CONFIG, else ~/.shelf.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), os.Getenv("SHELF_CONFIG"))
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v.SetEnvPrefix("shelf")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		// Search for config in standard locations
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigFile)
	}

	// Read config file (ignore error if not found)
	_ = v.ReadInConfig()

	cfg := &Config{
		ConfigFile: v.ConfigFileUsed(),

		Source:     v.GetString("source"),
		SourceAuth: v.GetString("source_auth"),
		APIKeyEnv:  v.GetString("api_key_env"),
		CacheTTL:   v.GetDuration("cache_ttl"),

		Backend: v.GetString("backend"),
		Area:    v.GetString("area"),
		Codec:   v.GetString("codec"),

		WriterURL:       v.GetString("writer_url"),
		QueueConnection: v.GetString("queue_connection"),
		QueueName:       v.GetString("queue_name"),
		QueueSize:       v.GetInt("queue_size"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if cfg.APIKeyEnv != "" {
		key, err := config.GetAPIKey(config.APIKey{Env: cfg.APIKeyEnv})
		if err != nil {
			return nil, err
		}
		cfg.APIKey = key
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source_auth", "bearer")
	v.SetDefault("api_key_env", "SHELF_API_KEY")
	v.SetDefault("backend", "file://"+constants.DefaultDataPath)
	v.SetDefault("area", constants.DefaultArea)
	v.SetDefault("codec", "json")
	v.SetDefault("queue_size", constants.DefaultQueueSize)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
