package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreGorm  = "gorm"
	StoreMongo = "mongo"

	ProductsFromStore = "store"
	ProductsFromES    = "elasticsearch"

	SessionsRedis  = "redis"
	SessionsMemory = "memory"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string
	StaticDir   string

	StoreDriver string
	DBDriver    string
	DatabaseURL string
	MongoURI    string
	MongoDB     string

	ProductSource  string
	ESURL          string
	ESUser         string
	ESPassword     string
	ESProductIndex string

	SessionDriver string
	RedisAddr     string
	RedisPassword string
	SessionSecret []byte
	SessionTTL    time.Duration
	CookieSecure  bool

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string

	KafkaBrokers []string

	SendGridAPIKey  string
	ContactMailFrom string
	ContactMailTo   string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 5000),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),
		StaticDir:   EnvDefault("STATIC_DIR", "web"),

		StoreDriver: strings.ToLower(EnvDefault("STORE_DRIVER", StoreGorm)),
		DBDriver:    strings.ToLower(EnvDefault("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     EnvDefault("MONGO_DB", "storefront"),

		ProductSource:  strings.ToLower(EnvDefault("PRODUCT_SOURCE", ProductsFromStore)),
		ESURL:          os.Getenv("ES_URL"),
		ESUser:         os.Getenv("ES_USER"),
		ESPassword:     os.Getenv("ES_PASSWORD"),
		ESProductIndex: EnvDefault("ES_PRODUCT_INDEX", "product"),

		SessionDriver: strings.ToLower(EnvDefault("SESSION_DRIVER", SessionsRedis)),
		RedisAddr:     EnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    EnvDurationDefault("SESSION_TTL", 2*time.Hour),
		CookieSecure:  EnvBoolDefault("COOKIE_SECURE", false),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayBaseURL:   EnvDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		ContactMailFrom: os.Getenv("CONTACT_MAIL_FROM"),
		ContactMailTo:   os.Getenv("CONTACT_MAIL_TO"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
