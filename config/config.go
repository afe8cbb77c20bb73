package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Management links emailed to customers embed a booking-scoped token.
	ManageTokenTTLHours int    `mapstructure:"MANAGE_TOKEN_TTL_HOURS"`
	ManageLinkBaseURL   string `mapstructure:"MANAGE_LINK_BASE_URL"`

	// Stripe configuration.
	StripeKey           string `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	CheckoutSuccessURL  string `mapstructure:"CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL   string `mapstructure:"CHECKOUT_CANCEL_URL"`

	// Transactional email provider.
	EmailAPIURL string `mapstructure:"EMAIL_API_URL"`
	EmailAPIKey string `mapstructure:"EMAIL_API_KEY"`
	EmailFrom   string `mapstructure:"EMAIL_FROM"`
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
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "emviapp")
	viper.SetDefault("MANAGE_TOKEN_TTL_HOURS", 72)
	viper.SetDefault("MANAGE_LINK_BASE_URL", "https://emvi.app/bookings/manage")
	viper.SetDefault("CHECKOUT_SUCCESS_URL", "https://emvi.app/checkout/success")
	viper.SetDefault("CHECKOUT_CANCEL_URL", "https://emvi.app/checkout/cancel")
	viper.SetDefault("EMAIL_FROM", "bookings@emvi.app")

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
