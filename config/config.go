package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port          string
	GinMode       string
	CORSOrigin    string
	MaxUploadSize int64
	Log           LogConfig
	DB            DBConfig
	S3            S3Config
	Kafka         KafkaConfig
	Seed          SeedConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	// Path is only used by the sqlite driver.
	Path string
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string
}

type SeedConfig struct {
	RestaurantCnpj string
	RestaurantName string
}

// Load reads the process environment. Call godotenv.Load before it to pick
// up a local .env file.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", ""),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://127.0.0.1:5500"),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 10<<20),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		DB: DBConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnv("DB_PORT", ""),
			User:     getEnv("DB_USER", "root"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "mesa"),
			Path:     getEnv("DB_PATH", "mesa.db"),
		},
		S3: S3Config{
			Endpoint:  os.Getenv("S3"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			AccessKey: os.Getenv("S3_AKEY"),
			SecretKey: os.Getenv("S3_SKEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(os.Getenv("KAFKA_BROKERS")),
			TopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", "mesa-ya"),
		},
		Seed: SeedConfig{
			RestaurantCnpj: os.Getenv("SEED_RESTAURANT_CNPJ"),
			RestaurantName: getEnv("SEED_RESTAURANT_NAME", "Restaurante"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(key)), 10, 64)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
