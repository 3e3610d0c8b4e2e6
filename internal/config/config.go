package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the API process.
type Config struct {
	ListenAddr    string
	DBPath        string
	StorageDir    string
	PublicBaseURL string

	// KeepUnsupportedImages stores image uploads that are not JPEG/PNG/GIF
	// as-is instead of rejecting them.
	KeepUnsupportedImages bool

	// ImageMinDimension is the minimum width and height (px) accepted for
	// uploads that go through the thumbnail pipeline.
	ImageMinDimension int

	SeedDemoData bool
	DBDebug      bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr:            getEnv("LISTEN_ADDR", ":9090"),
		DBPath:                getEnv("DB_PATH", "data/serverdeck.db"),
		StorageDir:            getEnv("STORAGE_DIR", "data/storage"),
		PublicBaseURL:         getEnv("PUBLIC_BASE_URL", ""),
		KeepUnsupportedImages: getEnvBool("KEEP_UNSUPPORTED_IMAGES", true),
		ImageMinDimension:     getEnvInt("IMAGE_MIN_DIMENSION", 100),
		SeedDemoData:          getEnvBool("SEED_DEMO_DATA", false),
		DBDebug:               getEnvBool("DB_DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
