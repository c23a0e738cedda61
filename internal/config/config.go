// Package config reads service settings from the environment. Command-line
// flags override these defaults in cmd/newsdesk.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr           string
	RedisAddr      string // empty keeps notices in memory
	BadgerPath     string // empty keeps flags in memory
	AMQPURI        string // empty disables event publishing
	Exchange       string
	DisplayTZ      string
	DisplayTZLabel string
	SeedFile       string // empty uses the embedded seed
	LogJSON        bool
	ScrapeTimeout  time.Duration
	IngestWorkers  int
}

const (
	AddrEnv           = "NEWSDESK_ADDR"
	RedisAddrEnv      = "REDIS_ADDR"
	BadgerPathEnv     = "BADGER_PATH"
	AMQPURIEnv        = "AMQP_URI"
	ExchangeEnv       = "AMQP_EXCHANGE"
	DisplayTZEnv      = "DISPLAY_TZ"
	DisplayTZLabelEnv = "DISPLAY_TZ_LABEL"
	SeedFileEnv       = "SEED_FILE"
	LogJSONEnv        = "LOG_JSON"
	ScrapeTimeoutEnv  = "SCRAPE_TIMEOUT"
	IngestWorkersEnv  = "INGEST_WORKERS"
)

func FromEnv() (Config, error) {
	var cfg Config

	cfg.Addr = getEnv(AddrEnv, ":8080")
	cfg.RedisAddr = os.Getenv(RedisAddrEnv)
	cfg.BadgerPath = getEnv(BadgerPathEnv, "./badger-data")
	cfg.AMQPURI = os.Getenv(AMQPURIEnv)
	cfg.Exchange = getEnv(ExchangeEnv, "newsdesk.events")
	cfg.DisplayTZ = getEnv(DisplayTZEnv, "Asia/Kolkata")
	cfg.DisplayTZLabel = getEnv(DisplayTZLabelEnv, "IST")
	cfg.SeedFile = os.Getenv(SeedFileEnv)

	var err error
	if cfg.LogJSON, err = getEnvBool(LogJSONEnv, false); err != nil {
		return cfg, fmt.Errorf("invalid %v: %w", LogJSONEnv, err)
	}
	if cfg.IngestWorkers, err = getEnvInt(IngestWorkersEnv, 1); err != nil {
		return cfg, fmt.Errorf("invalid %v: %w", IngestWorkersEnv, err)
	}
	if cfg.ScrapeTimeout, err = time.ParseDuration(getEnv(ScrapeTimeoutEnv, "30s")); err != nil {
		return cfg, fmt.Errorf("invalid %v: %w", ScrapeTimeoutEnv, err)
	}

	return cfg, nil
}

// Location resolves the display time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DisplayTZ)
	if err != nil {
		return nil, fmt.Errorf("invalid %v %q: %w", DisplayTZEnv, c.DisplayTZ, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}
