package config

import (
	"os"

	"github.com/joho/godotenv"

	pkgerrors "msngraph/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Env  string
	Port string

	// Input
	InputDir string // directory of MSN chat log exports
	MainUser string // the log owner's e-mail address

	// Output
	FontName        string // fontname attribute written into the DOT prologue
	IncludeMainUser bool   // emit the main user as a distinguished root node
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Env:             getEnv("ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		InputDir:        getEnv("MSNGRAPH_INPUT_DIR", ""),
		MainUser:        getEnv("MSNGRAPH_MAIN_USER", ""),
		FontName:        getEnv("MSNGRAPH_FONT", "Roboto"),
		IncludeMainUser: getEnvBool("MSNGRAPH_INCLUDE_MAIN_USER", false),
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
// Called after CLI flags have had a chance to fill in the input fields.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return pkgerrors.NewConfigMissingRequired("input directory (set MSNGRAPH_INPUT_DIR or pass -i)")
	}
	if c.MainUser == "" {
		return pkgerrors.NewConfigMissingRequired("main user (set MSNGRAPH_MAIN_USER or pass -m)")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return defaultValue
}
