package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath      string
	IntakeDir   string
	ReplyDir    string
	ArchiveRoot string

	CustomerListPath string
	JobLedgerPath    string
	RulebookPath     string

	JobPrefix string

	PrintQueueDir string

	DateWindowDays int

	WatchDebounceMs  int
	WatchIntervalSec int

	LogLevel string
	LogJSON  bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:      getEnv("DB_PATH", filepath.Join(cwd, "data", "yardgate.db")),
		IntakeDir:   getEnv("INTAKE_DIR", filepath.Join(cwd, "data", "intake")),
		ReplyDir:    getEnv("REPLY_DIR", filepath.Join(cwd, "data", "replies")),
		ArchiveRoot: getEnv("ARCHIVE_ROOT", filepath.Join(cwd, "data", "archive")),

		CustomerListPath: getEnv("CUSTOMER_LIST_PATH", filepath.Join(cwd, "data", "Customer List.xlsx")),
		JobLedgerPath:    getEnv("JOB_LEDGER_PATH", filepath.Join(cwd, "data", "Job Numbers.xlsx")),
		RulebookPath:     getEnv("RULEBOOK_PATH", filepath.Join(cwd, "rulebook.yaml")),

		JobPrefix: getEnv("JOB_PREFIX", "SVLDP"),

		PrintQueueDir: getEnv("PRINT_QUEUE_DIR", filepath.Join(cwd, "data", "Release Paper")),

		DateWindowDays: getEnvInt("DATE_WINDOW_DAYS", 7),

		WatchDebounceMs:  getEnvInt("WATCH_DEBOUNCE_MS", 1500),
		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 30),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogJSON:  getEnvBool("LOG_JSON", false),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
