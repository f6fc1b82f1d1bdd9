package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string

	// RefreshInterval drives the dashboard polling cycle.
	RefreshInterval time.Duration

	// Object storage for archived scan reports.
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3UseSSL      bool
	ReportsBucket string

	// Alternate data source. When AirtableToken is set the dashboard reads
	// from the table API instead of Postgres.
	AirtableBaseURL string
	AirtableBaseID  string
	AirtableToken   string

	LogLevel string
}

func getBool(key, def string) bool {
	v := os.Getenv(key)
	if v == "" {
		v = def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func Load() Config {
	cfg := Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		RefreshInterval: time.Duration(getInt("REFRESH_INTERVAL_SECONDS", 30)) * time.Second,
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3UseSSL:        getBool("S3_USE_SSL", "false"),
		ReportsBucket:   os.Getenv("REPORTS_BUCKET"),
		AirtableBaseURL: os.Getenv("AIRTABLE_BASE_URL"),
		AirtableBaseID:  os.Getenv("AIRTABLE_BASE_ID"),
		AirtableToken:   os.Getenv("AIRTABLE_TOKEN"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
	}
	// quick sanity
	if cfg.DatabaseURL == "" && cfg.AirtableToken == "" {
		log.Fatal("DATABASE_URL (or AIRTABLE_TOKEN for the table API source) is required")
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	return cfg
}
