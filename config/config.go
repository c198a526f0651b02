package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	IntercomAccessToken string
	IntercomBaseURL     string
	IntercomVersion     string
	FetchContacts       bool
	LookbackHours       int

	CaplenaAPIKey      string
	CaplenaBaseURL     string
	CaplenaProjectID   string
	CaplenaProjectName string

	CSVPath string
	Port    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	S3Bucket string
	S3Region string

	LogLevel  string
	LogFormat string
}

// Load reads the environment (and a .env file when present) and exits the
// process if required credentials are missing.
func Load() *Config {
	godotenv.Load()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	return cfg
}

func FromEnv() *Config {
	return &Config{
		IntercomAccessToken: getEnv("INTERCOM_ACCESS_TOKEN", ""),
		IntercomBaseURL:     getEnv("INTERCOM_BASE_URL", "https://api.intercom.io"),
		IntercomVersion:     getEnv("INTERCOM_VERSION", "2.11"),
		FetchContacts:       getEnvBool("FETCH_CONTACTS", true),
		LookbackHours:       getEnvInt("LOOKBACK_HOURS", 24),
		CaplenaAPIKey:       getEnv("CAPLENA_API_KEY", ""),
		CaplenaBaseURL:      getEnv("CAPLENA_BASE_URL", "https://api.caplena.com/v2"),
		CaplenaProjectID:    getEnv("CAPLENA_PROJECT_ID", ""),
		CaplenaProjectName:  getEnv("CAPLENA_PROJECT_NAME", "Intercom conversations"),
		CSVPath:             getEnv("CSV_PATH", "conversations.csv"),
		Port:                getEnv("PORT", "8080"),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		S3Region:            getEnv("S3_REGION", "us-east-1"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.IntercomAccessToken == "" {
		errs = append(errs, errors.New("INTERCOM_ACCESS_TOKEN environment variable is required"))
	}

	if c.CaplenaAPIKey == "" {
		errs = append(errs, errors.New("CAPLENA_API_KEY environment variable is required"))
	}

	if c.LookbackHours <= 0 {
		errs = append(errs, errors.New("LOOKBACK_HOURS must be positive"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
