package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisContextDB int    `mapstructure:"REDIS_CONTEXT_DB"`

	// Gemini configuration.
	GeminiAPIKey   string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel    string `mapstructure:"GEMINI_MODEL"`
	JudgeModel     string `mapstructure:"JUDGE_MODEL"`
	EmbeddingModel string `mapstructure:"EMBEDDING_MODEL"`

	// Similarity search defaults; overridable per request.
	SimilarityThreshold float64 `mapstructure:"SIMILARITY_THRESHOLD"`
	SimilarityTopK      int     `mapstructure:"SIMILARITY_TOP_K"`

	// Assist engine knobs.
	HistoryWindow  int `mapstructure:"HISTORY_WINDOW"`
	MaxModelRounds int `mapstructure:"MAX_MODEL_ROUNDS"`
	ModelRetries   int `mapstructure:"MODEL_RETRIES"`

	// Backend booking API.
	BookingAPIURL string `mapstructure:"BOOKING_API_URL"`
	BookingAPIKey string `mapstructure:"BOOKING_API_KEY"`

	// Firebase / Cloudinary.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	StaffTopic              string `mapstructure:"STAFF_TOPIC"`
	CloudinaryURL           string `mapstructure:"CLOUDINARY_URL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_CONTEXT_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("JUDGE_MODEL", "models/gemini-1.5-flash")
	viper.SetDefault("EMBEDDING_MODEL", "text-embedding-004")
	viper.SetDefault("SIMILARITY_THRESHOLD", 0.70)
	viper.SetDefault("SIMILARITY_TOP_K", 5)
	viper.SetDefault("HISTORY_WINDOW", 10)
	viper.SetDefault("MAX_MODEL_ROUNDS", 3)
	viper.SetDefault("MODEL_RETRIES", 2)
	viper.SetDefault("BOOKING_API_URL", "http://booking-service:8000")
	viper.SetDefault("STAFF_TOPIC", "staff-suggestions")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
