package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr     string `yaml:"listenAddr"`
	DBPath         string `yaml:"dbPath"`
	PhotoPath      string `yaml:"photoPath"`
	TimeZone       string `yaml:"timeZone"`
	SeedSampleData bool   `yaml:"seedSampleData"`
	LogLevel       string `yaml:"logLevel"`
	LogFile        string `yaml:"logFile"`
}

func defaults() *Config {
	return &Config{
		ListenAddr:     "127.0.0.1:8080",
		DBPath:         "surveydb.db",
		PhotoPath:      "photos",
		TimeZone:       "Local",
		SeedSampleData: true,
		LogLevel:       "info",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_PATH if set, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.PhotoPath = getEnv("PHOTO_LOCAL_PATH", cfg.PhotoPath)
	cfg.TimeZone = getEnv("TIME_ZONE", cfg.TimeZone)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	if val, exists := os.LookupEnv("SEED_SAMPLE_DATA"); exists {
		seed, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("invalid SEED_SAMPLE_DATA %q: %w", val, err)
		}
		cfg.SeedSampleData = seed
	}

	return cfg, nil
}

// Location resolves TimeZone; "Local" and "" mean the host's zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
