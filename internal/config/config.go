package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBDriver       string
	DBPath         string
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	DBSSLMode      string
	ChannelDataDir string
	UploadsDir     string
	RecognizerURL  string
	StylizerURL    string
	StylizerAPIKey string
	CountryCode    string
	BroadcastDelay time.Duration
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:           getEnv("PORT", "8000"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBPath:         getEnv("DB_PATH", "./checkin.db"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "checkin"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		ChannelDataDir: getEnv("WA_DATA_DIR", "data"),
		UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),
		RecognizerURL:  getEnv("RECOGNIZER_URL", "http://127.0.0.1:5000"),
		StylizerURL:    getEnv("STYLIZER_URL", ""),
		StylizerAPIKey: getEnv("STYLIZER_API_KEY", ""),
		CountryCode:    getEnv("COUNTRY_CODE", "91"),
		BroadcastDelay: time.Duration(getEnvInt("BROADCAST_DELAY_MS", 4000)) * time.Millisecond,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
