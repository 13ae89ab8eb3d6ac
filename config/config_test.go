package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("SHELFAWARE_SERVER_PORT")
		os.Unsetenv("SHELFAWARE_SERVER_ENVIRONMENT")
		os.Unsetenv("SHELFAWARE_SERVER_ALLOWED_ORIGINS")
		os.Unsetenv("SHELFAWARE_DATA_DIR")
		os.Unsetenv("SHELFAWARE_DATA_BACKEND")
		os.Unsetenv("SHELFAWARE_DATA_SQLITE_PATH")
		os.Unsetenv("SHELFAWARE_GEO_NOMINATIM_URL")
		os.Unsetenv("SHELFAWARE_GEO_OVERPASS_URL")
		os.Unsetenv("SHELFAWARE_GEO_LOCATION")
		os.Unsetenv("SHELFAWARE_GEO_RADIUS_MILES")
		os.Unsetenv("SHELFAWARE_OPENAI_API_KEY")
		os.Unsetenv("SHELFAWARE_OPENAI_BASE_URL")
		os.Unsetenv("SHELFAWARE_OPENAI_MODEL")
		os.Unsetenv("SHELFAWARE_PRICING_HOME_STORE_ID")
		os.Unsetenv("SHELFAWARE_RATELIMIT_PER_IP")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Data.Backend != "csv" {
			t.Errorf("Data.Backend = %s, want csv", cfg.Data.Backend)
		}
		if cfg.Data.Dir != "./data" {
			t.Errorf("Data.Dir = %s, want ./data", cfg.Data.Dir)
		}
		if cfg.Geo.NominatimURL != "https://nominatim.openstreetmap.org" {
			t.Errorf("Geo.NominatimURL = %s, want https://nominatim.openstreetmap.org", cfg.Geo.NominatimURL)
		}
		if cfg.Geo.RadiusMiles != 50.0 {
			t.Errorf("Geo.RadiusMiles = %v, want 50", cfg.Geo.RadiusMiles)
		}
		if cfg.OpenAI.Model != "gpt-4o-mini" {
			t.Errorf("OpenAI.Model = %s, want gpt-4o-mini", cfg.OpenAI.Model)
		}
		if cfg.Pricing.HomeStoreID != "1" {
			t.Errorf("Pricing.HomeStoreID = %s, want 1", cfg.Pricing.HomeStoreID)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SHELFAWARE_SERVER_PORT", "9090")
		os.Setenv("SHELFAWARE_SERVER_ENVIRONMENT", "production")
		os.Setenv("SHELFAWARE_DATA_BACKEND", "sqlite")
		os.Setenv("SHELFAWARE_DATA_SQLITE_PATH", "/var/lib/shelfaware/prices.db")
		os.Setenv("SHELFAWARE_GEO_LOCATION", "Baton Rouge, Louisiana")
		os.Setenv("SHELFAWARE_GEO_RADIUS_MILES", "25")
		os.Setenv("SHELFAWARE_OPENAI_API_KEY", "sk-test")
		os.Setenv("SHELFAWARE_PRICING_HOME_STORE_ID", "3")
		os.Setenv("SHELFAWARE_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Data.Backend != "sqlite" {
			t.Errorf("Data.Backend = %s, want sqlite", cfg.Data.Backend)
		}
		if cfg.Data.SQLitePath != "/var/lib/shelfaware/prices.db" {
			t.Errorf("Data.SQLitePath = %s, want /var/lib/shelfaware/prices.db", cfg.Data.SQLitePath)
		}
		if cfg.Geo.Location != "Baton Rouge, Louisiana" {
			t.Errorf("Geo.Location = %s, want Baton Rouge, Louisiana", cfg.Geo.Location)
		}
		if cfg.Geo.RadiusMiles != 25.0 {
			t.Errorf("Geo.RadiusMiles = %v, want 25", cfg.Geo.RadiusMiles)
		}
		if cfg.OpenAI.APIKey != "sk-test" {
			t.Errorf("OpenAI.APIKey = %s, want sk-test", cfg.OpenAI.APIKey)
		}
		if cfg.Pricing.HomeStoreID != "3" {
			t.Errorf("Pricing.HomeStoreID = %s, want 3", cfg.Pricing.HomeStoreID)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails validation for invalid backend", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SHELFAWARE_DATA_BACKEND", "postgres")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid backend")
		}
	})

	t.Run("fails validation for non-positive radius", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SHELFAWARE_GEO_RADIUS_MILES", "0")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero radius")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		err := loadEnvFile()
		if err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Create .env file
		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2

# Another comment
TEST_VAR_3=value3
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		// Clear any existing values
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_VAR_3") != "value3" {
			t.Errorf("TEST_VAR_3 = %s, want value3", os.Getenv("TEST_VAR_3"))
		}

		// Cleanup
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Set existing env var
		os.Setenv("TEST_OVERRIDE", "existing-value")

		// Create .env file that tries to override
		envContent := "TEST_OVERRIDE=new-value"
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		// Should still have original value
		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}

		os.Unsetenv("TEST_OVERRIDE")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Data: DataConfig{
				Dir:        "./data",
				Backend:    "csv",
				SQLitePath: "./data/shelfaware.db",
			},
			Geo: GeoConfig{
				RadiusMiles: 50,
			},
			Pricing: PricingConfig{
				HomeStoreID: "1",
			},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for invalid backend", func(t *testing.T) {
		cfg := valid()
		cfg.Data.Backend = "postgres"

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for invalid backend")
		}
	})

	t.Run("fails for csv backend without data dir", func(t *testing.T) {
		cfg := valid()
		cfg.Data.Dir = ""

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for missing data dir")
		}
	})

	t.Run("fails for sqlite backend without path", func(t *testing.T) {
		cfg := valid()
		cfg.Data.Backend = "sqlite"
		cfg.Data.SQLitePath = ""

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for missing SQLite path")
		}
	})

	t.Run("fails for empty home store", func(t *testing.T) {
		cfg := valid()
		cfg.Pricing.HomeStoreID = ""

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty home store")
		}
	})
}
