package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Geo       GeoConfig
	OpenAI    OpenAIConfig
	Pricing   PricingConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DataConfig holds dataset storage configuration
type DataConfig struct {
	Dir        string `mapstructure:"dir"`
	Backend    string `mapstructure:"backend"` // "csv" or "sqlite"
	SQLitePath string `mapstructure:"sqlite_path"`
}

// GeoConfig holds store discovery configuration
type GeoConfig struct {
	NominatimURL string  `mapstructure:"nominatim_url"`
	OverpassURL  string  `mapstructure:"overpass_url"`
	Location     string  `mapstructure:"location"`
	RadiusMiles  float64 `mapstructure:"radius_miles"`
}

// OpenAIConfig holds price estimation configuration
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// PricingConfig holds recommendation engine configuration
type PricingConfig struct {
	HomeStoreID string `mapstructure:"home_store_id"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shelfaware/")

	// Environment variable settings
	v.SetEnvPrefix("SHELFAWARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a local .env file if one exists. Existing environment
// variables are never overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Data defaults
	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.backend", "csv")
	v.SetDefault("data.sqlite_path", "./data/shelfaware.db")

	// Geo defaults
	v.SetDefault("geo.nominatim_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geo.overpass_url", "https://overpass-api.de")
	v.SetDefault("geo.location", "Zachary, Louisiana")
	v.SetDefault("geo.radius_miles", 50.0)

	// OpenAI defaults
	v.SetDefault("openai.base_url", "https://api.openai.com")
	v.SetDefault("openai.model", "gpt-4o-mini")

	// Pricing defaults
	v.SetDefault("pricing.home_store_id", "1")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Data.Backend != "csv" && config.Data.Backend != "sqlite" {
		return fmt.Errorf("data backend must be 'csv' or 'sqlite', got: %s", config.Data.Backend)
	}

	if config.Data.Backend == "csv" && config.Data.Dir == "" {
		return fmt.Errorf("data directory is required when backend is 'csv'")
	}

	if config.Data.Backend == "sqlite" && config.Data.SQLitePath == "" {
		return fmt.Errorf("SQLite path is required when backend is 'sqlite'")
	}

	if config.Geo.RadiusMiles <= 0 {
		return fmt.Errorf("search radius must be positive, got: %v", config.Geo.RadiusMiles)
	}

	if config.Pricing.HomeStoreID == "" {
		return fmt.Errorf("home store ID is required (set SHELFAWARE_PRICING_HOME_STORE_ID)")
	}

	return nil
}
