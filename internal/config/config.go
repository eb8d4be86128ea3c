// Package config reads the service settings from the environment and an optional .env file
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the sample register service
type Config struct {
	HTTPAddr       string
	UsersDBPath    string
	CookieName     string
	SessionTTL     time.Duration
	SweepSchedule  string
	SeedUsers      []string
	TelegramToken  string
	TelegramChatID int64
}

// Load reads the given env files (".env" when none are named) and then the process environment.
// Variables already set in the environment win over file values. A missing file is not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
		log.Printf("Loaded environment from %s", file)
	}

	cfg := Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8501"),
		UsersDBPath:   getEnv("USERS_DB_PATH", "data/users.db"),
		CookieName:    getEnv("SESSION_COOKIE_NAME", "water_samples_session"),
		SweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@every 1m"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	days, err := strconv.Atoi(getEnv("SESSION_EXPIRY_DAYS", "1"))
	if err != nil || days < 1 {
		return Config{}, fmt.Errorf("invalid SESSION_EXPIRY_DAYS %q", os.Getenv("SESSION_EXPIRY_DAYS"))
	}
	cfg.SessionTTL = time.Duration(days) * 24 * time.Hour

	for _, entry := range strings.Split(os.Getenv("SEED_USERS"), ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			cfg.SeedUsers = append(cfg.SeedUsers, entry)
		}
	}
	if file := os.Getenv("SEED_USERS_FILE"); file != "" {
		entries, err := readSeedFile(file)
		if err != nil {
			return Config{}, err
		}
		cfg.SeedUsers = append(cfg.SeedUsers, entries...)
	}
	for _, entry := range cfg.SeedUsers {
		if err := checkSeedEntry(entry); err != nil {
			return Config{}, err
		}
	}

	if chat := os.Getenv("TELEGRAM_CHAT_ID"); chat != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(chat, 10, 64); err != nil {
			return Config{}, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", chat, err)
		}
	}

	return cfg, nil
}

// AlertsEnabled reports whether both the bot token and the chat are configured
func (c Config) AlertsEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// readSeedFile reads one user:name:email:hash entry per line. Blank lines and # comments are skipped.
// Values are taken literally, so hashes need no quoting.
func readSeedFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SEED_USERS_FILE: %w", err)
	}
	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	return entries, nil
}

// checkSeedEntry catches hashes mangled by variable expansion: godotenv rewrites $2b$12$...
// in unquoted and double-quoted values.
func checkSeedEntry(entry string) error {
	parts := strings.SplitN(entry, ":", 4)
	if len(parts) != 4 || !strings.HasPrefix(parts[3], "$2") {
		return fmt.Errorf("seed user %q has no bcrypt hash: wrap SEED_USERS in single quotes in .env files or use SEED_USERS_FILE", parts[0])
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
