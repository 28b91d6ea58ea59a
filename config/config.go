package config

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	ServerPort int    `env:"SERVER_PORT, default=8080"`
	Env        string `env:"ENV, default=production"`
	LogLevel   string `env:"LOG_LEVEL, default=info"`

	Database DatabaseConfig
	Auth     AuthConfig
	Admin    AdminConfig
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST, default=localhost"`
	Port     int    `env:"DB_PORT, default=5432"`
	User     string `env:"DB_USER, default=usermgmt"`
	Password string `env:"DB_PASSWORD, default=password"`
	DBName   string `env:"DB_NAME, default=usermgmt_db"`
	UseSSL   bool   `env:"DB_USE_SSL, default=false"`
}

type AuthConfig struct {
	// Secret signs access tokens. Rotating it invalidates every token
	// issued so far.
	Secret string `env:"SECRET_KEY"`

	// TokenExpireMinutes is the access token lifetime.
	TokenExpireMinutes int `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=30"`
}

type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL, default=admin@example.com"`
	Fullname string `env:"ADMIN_FULLNAME, default=Administrator"`
	Password string `env:"ADMIN_PASSWORD"`
}

// LoadConfig reads configuration from the environment. In dev a .env file is
// loaded first. The result is immutable after startup.
func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
