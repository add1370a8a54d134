package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Workflow WorkflowConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Seed     SeedConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	MaxConns       int32
	MigrationsPath string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type WorkflowConfig struct {
	AuditTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	StatsTTL time.Duration
}

type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
}

type SeedConfig struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "flight-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("AUDIT_TIMEOUT", "3s")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("STATS_CACHE_TTL", "30s")
	viper.SetDefault("KAFKA_NOTIFICATION_TOPIC", "booking-notifications")
	viper.SetDefault("SEED_ADMIN_NAME", "Admin User")

	// .env is optional; the environment alone is enough in containers
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Port:        viper.GetString("PORT"),
			Debug:       viper.GetBool("DEBUG"),
			LogPath:     viper.GetString("LOG_PATH"),
			CORSOrigins: splitList(viper.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			Name:           viper.GetString("DB_NAME"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASS"),
			SSLMode:        viper.GetString("DB_SSLMODE"),
			MaxConns:       viper.GetInt32("DB_MAX_CONNS"),
			MigrationsPath: viper.GetString("DB_MIGRATIONS_PATH"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Workflow: WorkflowConfig{
			AuditTimeout: viper.GetDuration("AUDIT_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			StatsTTL: viper.GetDuration("STATS_CACHE_TTL"),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(viper.GetString("KAFKA_BROKERS")),
			NotificationTopic: viper.GetString("KAFKA_NOTIFICATION_TOPIC"),
		},
		Seed: SeedConfig{
			AdminEmail:    viper.GetString("SEED_ADMIN_EMAIL"),
			AdminName:     viper.GetString("SEED_ADMIN_NAME"),
			AdminPassword: viper.GetString("SEED_ADMIN_PASSWORD"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
