package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr    string
	ServiceName string
	GinMode     string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string
	KafkaWorkers int

	JWTSecret string

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	RazorpayTimeout   time.Duration
	Currency          string

	JaegerEndpoint string
}

func Load() Config {
	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":5000"),
		ServiceName: getenv("SERVICE_NAME", "shophub"),
		GinMode:     getenv("GIN_MODE", "release"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBName:     getenv("DB_NAME", "shophub"),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		CacheTTL:      getduration("CACHE_TTL", 5*time.Minute),

		KafkaBrokers: splitCSV(getenv("KAFKA_BROKERS", "")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "order_events"),
		KafkaGroup:   getenv("KAFKA_GROUP", "shophub-notifications"),
		KafkaWorkers: getint("KAFKA_WORKERS", 4),

		JWTSecret: getenv("JWT_SECRET", "your-secret-key-change-in-production"),

		RazorpayKeyID:     getenv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getenv("RAZORPAY_KEY_SECRET", ""),
		RazorpayBaseURL:   getenv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
		RazorpayTimeout:   getduration("RAZORPAY_TIMEOUT", 15*time.Second),
		Currency:          getenv("PAYMENT_CURRENCY", "INR"),

		JaegerEndpoint: getenv("JAEGER_ENDPOINT", ""),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}

func getduration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
