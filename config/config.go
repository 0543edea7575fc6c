package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration, resolved from .env, real
// environment variables, and an optional config.yaml (environment wins over
// file values).
type Config struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
	DBSource    string `mapstructure:"db_source"`

	TurnstileSecretKey string `mapstructure:"turnstile_secret_key"`
	TurnstileVerifyURL string `mapstructure:"turnstile_verify_url"`

	AWSRegion      string `mapstructure:"aws_region"`
	BackupBucket   string `mapstructure:"backup_bucket"`
	ImageBucket    string `mapstructure:"image_bucket"`
	BackupSchedule string `mapstructure:"backup_schedule"`

	GeocodingEnabled bool   `mapstructure:"geocoding_enabled"`
	GeocodingAPIKey  string `mapstructure:"geocoding_api_key"`
}

// IsProduction gates the fail-open/fail-closed behavior of the CAPTCHA
// check. Everything that branches on environment takes it from here, never
// from ambient process state at call time.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration. A missing .env or config.yaml is fine; defaults
// cover local development.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("port", "8080")
	v.SetDefault("environment", "development")
	v.SetDefault("db_source", "burrito_rater.db")
	v.SetDefault("turnstile_secret_key", "")
	v.SetDefault("turnstile_verify_url", "")
	v.SetDefault("aws_region", "us-west-2")
	v.SetDefault("backup_bucket", "burrito-rater-backups")
	v.SetDefault("image_bucket", "burrito-rater-images")
	v.SetDefault("backup_schedule", "")
	v.SetDefault("geocoding_enabled", false)
	v.SetDefault("geocoding_api_key", "")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		log.Println("using config file:", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
