package config

import "github.com/joho/godotenv"

// LoadEnv pulls a local .env into the process environment when present.
func LoadEnv() { _ = godotenv.Load() }
