package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	ServiceName string
	LoggerLevel string
	GinMode     string
	Port        int

	// JWTSecret signs operator session tokens
	JWTSecret     []byte
	AdminEmail    string
	AdminPassword string

	StoreDriver string
	SQLitePath  string
	MongoURI    string
	MongoDB     string

	AMQPURL string

	UploadDir     string
	PublicBaseURL string

	DeliveryFee       float64
	ChatTimeout       time.Duration
	ChatSweepInterval time.Duration
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "food-delivery-admin"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))
	cfg.GinMode = cast.ToString(getOrReturnDefault("GIN_MODE", "debug"))
	cfg.Port = cast.ToInt(getOrReturnDefault("PORT", 8080))

	cfg.JWTSecret = []byte(cast.ToString(getOrReturnDefault("JWT_SECRET", "food_delivery_admin_secret_2024")))
	cfg.AdminEmail = cast.ToString(getOrReturnDefault("ADMIN_EMAIL", "admin@example.com"))
	cfg.AdminPassword = cast.ToString(getOrReturnDefault("ADMIN_PASSWORD", ""))

	cfg.StoreDriver = cast.ToString(getOrReturnDefault("STORE_DRIVER", DriverSQLite))
	cfg.SQLitePath = cast.ToString(getOrReturnDefault("SQLITE_PATH", "food_delivery_admin.db"))
	cfg.MongoURI = cast.ToString(getOrReturnDefault("MONGO_URI", "mongodb://localhost:27017"))
	cfg.MongoDB = cast.ToString(getOrReturnDefault("MONGO_DB", "food_delivery"))

	cfg.AMQPURL = cast.ToString(getOrReturnDefault("AMQP_URL", ""))

	cfg.UploadDir = cast.ToString(getOrReturnDefault("UPLOAD_DIR", "media"))
	cfg.PublicBaseURL = cast.ToString(getOrReturnDefault("PUBLIC_BASE_URL", "http://localhost:8080/media"))

	cfg.DeliveryFee = cast.ToFloat64(getOrReturnDefault("DELIVERY_FEE", 40))
	cfg.ChatTimeout = cast.ToDuration(getOrReturnDefault("CHAT_TIMEOUT", "5m"))
	cfg.ChatSweepInterval = cast.ToDuration(getOrReturnDefault("CHAT_SWEEP_INTERVAL", "30s"))

	return cfg
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
