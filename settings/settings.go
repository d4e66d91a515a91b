package settings

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var lock = &sync.Mutex{}
var singleSettingsInstace *settings

type settings struct {
	JWT_SECRET_KEY   string
	JWT_TTL          time.Duration
	MONGO_DB         string
	MONGO_HOST       string
	MONGO_CONNECTION string
	REDIS_URL        string
	NATS_HOST        string
	AWS_BUCKET       string
	AWS_REGION       string
	PAPER_URL_TTL    time.Duration
	ELS_HOST         string
	ELS_PASSWORD     string
	ELS_PORT         int
	ELS_USERNAME     string
	ELS_CA_CERT      string
	ELS_SKIP_VERIFY  bool
	CLIENT_URL       string
	NODE_ENV         string
	PORT             string
	SITE_NAME        string
	SEARCH_ENGINE    string
	SEARCH_KINDS     []string
	REINDEX_SPEC     string
	LATEST_CACHE_TTL time.Duration
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("settings: %s=%q is not a number, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	var list []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func newSettings() *settings {
	return &settings{
		JWT_SECRET_KEY:   os.Getenv("JWT_SECRET_KEY"),
		JWT_TTL:          time.Duration(getEnvInt("JWT_TTL_HOURS", 72)) * time.Hour,
		MONGO_DB:         getEnv("MONGO_DB", "careernest"),
		MONGO_HOST:       getEnv("MONGO_HOST", "localhost:27017"),
		MONGO_CONNECTION: getEnv("MONGO_CONNECTION", "mongodb"),
		REDIS_URL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		NATS_HOST:        getEnv("NATS_HOST", "nats://localhost:4222"),
		ELS_HOST:         os.Getenv("ELS_HOST"),
		ELS_PORT:         getEnvInt("ELS_PORT", 9200),
		ELS_PASSWORD:     os.Getenv("ELS_PASSWORD"),
		ELS_USERNAME:     os.Getenv("ELS_USERNAME"),
		ELS_CA_CERT:      os.Getenv("ELS_CA_CERT"),
		ELS_SKIP_VERIFY:  os.Getenv("ELS_SKIP_VERIFY") == "true",
		AWS_BUCKET:       os.Getenv("AWS_BUCKET"),
		AWS_REGION:       getEnv("AWS_REGION", "ap-south-1"),
		PAPER_URL_TTL:    time.Duration(getEnvInt("PAPER_URL_TTL_MINUTES", 15)) * time.Minute,
		CLIENT_URL:       getEnv("CLIENT_URL", "localhost:8080"),
		NODE_ENV:         os.Getenv("NODE_ENV"),
		PORT:             getEnv("PORT", "8080"),
		SITE_NAME:        getEnv("SITE_NAME", "CareerNest"),
		SEARCH_ENGINE:    getEnv("SEARCH_ENGINE", "mongo"),
		SEARCH_KINDS:     getEnvList("SEARCH_KINDS", "internship,job"),
		REINDEX_SPEC:     getEnv("REINDEX_SPEC", "@every 6h"),
		LATEST_CACHE_TTL: time.Duration(getEnvInt("LATEST_CACHE_TTL_SECONDS", 60)) * time.Second,
	}
}

func init() {
	if os.Getenv("NODE_ENV") != "prod" {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using process environment")
		}
	}
}

func (s *settings) IsProd() bool {
	return s.NODE_ENV == "prod"
}

func GetSettings() *settings {
	lock.Lock()
	defer lock.Unlock()
	if singleSettingsInstace == nil {
		singleSettingsInstace = newSettings()
	}
	return singleSettingsInstace
}
