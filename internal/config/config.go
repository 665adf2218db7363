package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	devJWTSecret     = "fallback-secret-key-for-dev-only"
	devSessionSecret = "dev-session-secret-change-me"
	minSecretLength  = 20
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Session cookie
	SessionSecret string
	SessionSecure bool
}

// fileConfig mirrors the optional TOML file. Every key is optional and is
// overridden by the matching environment variable.
type fileConfig struct {
	Env    string `toml:"env"`
	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`
	Database struct {
		Driver   string `toml:"driver"`
		Host     string `toml:"host"`
		Port     string `toml:"port"`
		User     string `toml:"user"`
		Password string `toml:"password"`
		Name     string `toml:"name"`
		SSLMode  string `toml:"sslmode"`
		Path     string `toml:"path"`
	} `toml:"database"`
	Auth struct {
		JWTSecret     string `toml:"jwt_secret"`
		JWTExpiresIn  string `toml:"jwt_expires_in"`
		SessionSecret string `toml:"session_secret"`
		SessionSecure *bool  `toml:"session_secure"`
	} `toml:"auth"`
}

var appConfig *Config

// Load loads configuration from .env, the optional TOML file named by
// CINEORCA_CONFIG (default cineorca.toml) and the environment, in that
// order of increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	file, err := loadFile(getEnv("CINEORCA_CONFIG", "cineorca.toml"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		// Server
		Env:  getEnv("ENV", or(file.Env, "development")),
		Port: getEnv("PORT", or(file.Server.Port, "8080")),

		// Database
		DBDriver:   getEnv("DB_DRIVER", or(file.Database.Driver, "postgres")),
		DBHost:     getEnv("DB_HOST", or(file.Database.Host, "localhost")),
		DBPort:     getEnv("DB_PORT", or(file.Database.Port, "5432")),
		DBUser:     getEnv("DB_USER", or(file.Database.User, "cineorca")),
		DBPassword: getEnv("DB_PASSWORD", or(file.Database.Password, "cineorca")),
		DBName:     getEnv("DB_NAME", or(file.Database.Name, "cineorca")),
		DBSSLMode:  getEnv("DB_SSLMODE", or(file.Database.SSLMode, "disable")),
		DBPath:     getEnv("DB_PATH", or(file.Database.Path, "cineorca.db")),

		// Auth
		JWTSecret:     getEnv("JWT_SECRET", or(file.Auth.JWTSecret, devJWTSecret)),
		SessionSecret: getEnv("SESSION_SECRET", or(file.Auth.SessionSecret, devSessionSecret)),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", or(file.Auth.JWTExpiresIn, "24h"))
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	secureDefault := config.Env == "production"
	if file.Auth.SessionSecure != nil {
		secureDefault = *file.Auth.SessionSecure
	}
	config.SessionSecure = getEnvBool("SESSION_SECURE", secureDefault)

	appConfig = config
	return config, nil
}

// Validate rejects settings that must never reach production: development
// secrets, short secrets and the single-file sqlite store.
func (c *Config) Validate() error {
	if c.Env != "production" {
		return nil
	}
	if c.JWTSecret == devJWTSecret || len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET is weak or uses the development default")
	}
	if c.SessionSecret == devSessionSecret || len(c.SessionSecret) < minSecretLength {
		return fmt.Errorf("SESSION_SECRET is weak or uses the development default")
	}
	if c.DBDriver == "sqlite" {
		return fmt.Errorf("sqlite is not allowed in production")
	}
	return nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return fc, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
