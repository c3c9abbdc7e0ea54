package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	AMQP      AMQPConfig
	Lock      LockConfig
	Order     OrderConfig
	Reclaimer ReclaimerConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string // empty disables the room layout cache
	Password string
	DB       int
	TTL      time.Duration
}

type AMQPConfig struct {
	URL string // empty disables event publishing
}

type LockConfig struct {
	DefaultDurationSeconds int
	MaxDurationSeconds     int
}

type OrderConfig struct {
	PaymentTimeoutMinutes int
}

type ReclaimerConfig struct {
	IntervalSeconds int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_TTL_SECONDS", 300)
	viper.SetDefault("LOCK_DEFAULT_DURATION_SECONDS", 600)
	viper.SetDefault("LOCK_MAX_DURATION_SECONDS", 1800)
	viper.SetDefault("ORDER_PAYMENT_TIMEOUT_MINUTES", 15)
	viper.SetDefault("RECLAIMER_INTERVAL_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      time.Duration(viper.GetInt("REDIS_TTL_SECONDS")) * time.Second,
		},
		AMQP: AMQPConfig{
			URL: viper.GetString("AMQP_URL"),
		},
		Lock: LockConfig{
			DefaultDurationSeconds: viper.GetInt("LOCK_DEFAULT_DURATION_SECONDS"),
			MaxDurationSeconds:     viper.GetInt("LOCK_MAX_DURATION_SECONDS"),
		},
		Order: OrderConfig{
			PaymentTimeoutMinutes: viper.GetInt("ORDER_PAYMENT_TIMEOUT_MINUTES"),
		},
		Reclaimer: ReclaimerConfig{
			IntervalSeconds: viper.GetInt("RECLAIMER_INTERVAL_SECONDS"),
		},
	}

	return config, nil
}
