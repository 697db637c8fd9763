package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Judge sync settings.
	SyncUserAgent         string
	CSESBaseURL           string
	CodeforcesBaseURL     string
	VJudgeBaseURL         string
	ProfileTimeoutSeconds int
	BulkTimeoutSeconds    int

	TopicCacheKey        string
	TopicCacheTTLMinutes int

	SyncQueueName       string
	SyncLockPrefix      string
	SyncLockTTLSeconds  int
	AutoSyncIntervalMin int
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort: getEnv("API_PORT", "8080"),
		JWTKey:  []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:  time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "cp_journey_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		SyncUserAgent:         getEnv("SYNC_USER_AGENT", "Mozilla/5.0 (compatible; CPJourneyBot/1.0)"),
		CSESBaseURL:           getEnv("CSES_BASE_URL", "https://cses.fi"),
		CodeforcesBaseURL:     getEnv("CODEFORCES_BASE_URL", "https://codeforces.com"),
		VJudgeBaseURL:         getEnv("VJUDGE_BASE_URL", "https://vjudge.net"),
		ProfileTimeoutSeconds: getEnvAsInt("SYNC_PROFILE_TIMEOUT_SECONDS", 10),
		BulkTimeoutSeconds:    getEnvAsInt("SYNC_BULK_TIMEOUT_SECONDS", 15),

		TopicCacheKey:        getEnv("TOPIC_CACHE_KEY", "cses_topic_catalog"),
		TopicCacheTTLMinutes: getEnvAsInt("TOPIC_CACHE_TTL_MINUTES", 360),

		SyncQueueName:       getEnv("SYNC_QUEUE_NAME", "journey_sync_queue"),
		SyncLockPrefix:      getEnv("SYNC_LOCK_PREFIX", "journey_sync_lock:"),
		SyncLockTTLSeconds:  getEnvAsInt("SYNC_LOCK_TTL_SECONDS", 120),
		AutoSyncIntervalMin: getEnvAsInt("AUTO_SYNC_INTERVAL_MINUTES", 1440),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
