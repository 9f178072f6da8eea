package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Env holds flag defaults read from the environment (and an optional .env file).
type Env struct {
	ConfigPath string // ACO_CONFIG
	OutputDir  string // ACO_OUTPUT_DIR
	Seed       int64  // ACO_SEED (0 = unset)
}

// LoadEnv loads a .env file from the working directory if present and reads
// the ACO_* variables. A missing .env file is not an error.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn(".env file could not be loaded", "error", err)
	}

	env := Env{
		ConfigPath: os.Getenv("ACO_CONFIG"),
		OutputDir:  os.Getenv("ACO_OUTPUT_DIR"),
	}
	if s, ok := os.LookupEnv("ACO_SEED"); ok {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			slog.Warn("ignoring ACO_SEED", "value", s, "error", err)
		} else {
			env.Seed = seed
		}
	}
	return env
}
