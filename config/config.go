// Package config loads runtime configuration from a .env file (if present)
// and the process environment, grounded on main.go's godotenv.Load() call.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/bcdannyboy/fairbtc/models"
)

// Config is the engine's runtime configuration: RNG seeding, cache sizing,
// default §6 sensitivity overrides, and the optional Slack front end's
// credentials.
type Config struct {
	BaseSeed      uint64
	CacheCap      int
	CacheTTL      time.Duration
	Overrides     models.SensitivityOverrides
	SlackBotToken string
	SlackAppToken string
}

const (
	defaultCacheCap = 50
	defaultCacheTTL = 60 * time.Second
	defaultMult     = 1.0
)

// Load reads a .env file from the working directory, if present, then
// resolves Config from the environment. A missing .env is logged as a
// warning, not fatal, unlike the teacher's main.go (which treats it as
// fatal) — the engine must still run in a deploy environment where
// configuration arrives purely via real environment variables.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded (%v); continuing with process environment", err)
	}

	return Config{
		BaseSeed: envUint64("BASE_SEED", uint64(time.Now().UnixNano())),
		CacheCap: envInt("SIM_CACHE_CAP", defaultCacheCap),
		CacheTTL: envDuration("SIM_CACHE_TTL_MS", defaultCacheTTL),
		Overrides: models.SensitivityOverrides{
			VolMult:           envFloat("VOL_MULT", defaultMult),
			JumpIntensityMult: envFloat("JUMP_INTENSITY_MULT", defaultMult),
			JumpSizeMult:      envFloat("JUMP_SIZE_MULT", defaultMult),
		}.Normalize(),
		SlackBotToken: os.Getenv("SLACK_BOT_TOKEN"),
		SlackAppToken: os.Getenv("SLACK_APP_TOKEN"),
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func envUint64(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		log.Printf("config: invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: invalid %s=%q, using default %v", key, v, fallback)
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using default %v", key, v, fallback)
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
