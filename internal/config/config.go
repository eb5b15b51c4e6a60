package config

import (
	"errors"  // Validation errors
	"fmt"     // For DSN formatting
	"strings" // Secret check
	"time"    // Token lifetime

	"github.com/joho/godotenv"             // For loading .env files
	"github.com/kelseyhightower/envconfig" // Environment to struct decoding
)

// Config holds the application configuration
type Config struct {
	AppPort        string        `envconfig:"APP_PORT" default:"8080"`                      // Application port
	IsProd         bool          `envconfig:"IS_PROD" default:"false"`                      // Is production environment
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`                     // Logrus level name
	DBDriver       string        `envconfig:"DB_DRIVER" default:"mysql"`                    // mysql or postgres
	DBUser         string        `envconfig:"DB_USER"`                                      // Database user
	DBPassword     string        `envconfig:"DB_PASSWORD"`                                  // Database password
	DBHost         string        `envconfig:"DB_HOST" default:"localhost"`                  // Database host
	DBPort         string        `envconfig:"DB_PORT" default:"3306"`                       // Database port
	DBName         string        `envconfig:"DB_NAME" default:"ecommerce"`                  // Database name
	DBSSLMode      string        `envconfig:"DB_SSL_MODE" default:"disable"`                // Postgres only
	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`                   // JWT secret key
	JWTIssuer      string        `envconfig:"JWT_ISSUER" default:"ApiEcommerce"`            // iss claim
	JWTAudience    string        `envconfig:"JWT_AUDIENCE" default:"ApiEcommerce"`          // aud claim
	JWTTTL         time.Duration `envconfig:"JWT_TTL" default:"2h"`                         // Token lifetime
	RedisAddr      string        `envconfig:"REDIS_ADDR"`                                   // Redis server address, empty disables caching
	RedisPass      string        `envconfig:"REDIS_PASS"`                                   // Redis password
	RedisDB        int           `envconfig:"REDIS_DB" default:"0"`                         // Redis database number
	UploadDir      string        `envconfig:"UPLOAD_DIR" default:"wwwroot"`                 // Root folder for uploaded files
	MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" default:"5242880"`           // 5 MiB
	CORSOrigins    []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"` // Allowed origins
	RateLimitRPS   float64       `envconfig:"RATE_LIMIT_RPS" default:"20"`                  // Requests per second
	RateLimitBurst int           `envconfig:"RATE_LIMIT_BURST" default:"40"`                // Token bucket size
	TrustedProxies []string      `envconfig:"TRUSTED_PROXIES" default:"127.0.0.1"`          // Gin trusted proxies
}

// LoadConfig loads configuration from the environment, reading .env first if present
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET must not be empty")
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return &cfg, nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
	}
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}
