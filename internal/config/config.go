package config

import (
	"errors"  // For joining validation errors
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing
	"time"    // For token lifetime

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort         string        // Application port
	DBUser          string        // Database user
	DBPassword      string        // Database password
	DBHost          string        // Database host
	DBPort          string        // Database port
	DBName          string        // Database name
	JWTSecret       string        // JWT secret key
	JWTTTL          time.Duration // Token lifetime
	RedisAddr       string        // Redis server address, empty disables Redis
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	IsProd          bool          // Is production environment
	UploadsDir      string        // Directory holding uploaded images
	CORSOrigins     []string      // Frontend origins allowed by CORS
	LoginRatePerMin int           // Login attempts per client per minute
	APIRatePerMin   int           // API requests per client per minute
	AdminUsername   string        // Seed admin username
	AdminEmail      string        // Seed admin email
	AdminPassword   string        // Seed admin password
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:         getEnv("APP_PORT", "8080"),                                  // Application port
		DBUser:          os.Getenv("DB_USER"),                                        // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),                                    // Database password
		DBHost:          os.Getenv("DB_HOST"),                                        // Database host
		DBPort:          getEnv("DB_PORT", "3306"),                                   // Database port
		DBName:          os.Getenv("DB_NAME"),                                        // Database name
		JWTSecret:       os.Getenv("JWT_SECRET"),                                     // JWT secret key
		JWTTTL:          time.Duration(getInt("JWT_TTL_HOURS", 24)) * time.Hour,      // Token lifetime
		RedisAddr:       os.Getenv("REDIS_ADDR"),                                     // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),                                     // Redis password
		RedisDB:         getInt("REDIS_DB", 0),                                       // Redis database number
		IsProd:          os.Getenv("IS_PROD") == "true",                              // Is production environment
		UploadsDir:      getEnv("UPLOADS_DIR", "uploads"),                            // Uploaded images
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "http://localhost:4200")), // Allowed origins
		LoginRatePerMin: getInt("LOGIN_RATE_PER_MIN", 5),                             // Login policy
		APIRatePerMin:   getInt("API_RATE_PER_MIN", 100),                             // Global policy
		AdminUsername:   os.Getenv("ADMIN_USERNAME"),                                 // Seed admin username
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),                                    // Seed admin email
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),                                 // Seed admin password
	}
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=true&loc=UTC"
}

// Validate reports every required setting that is missing
func (c *Config) Validate() error {
	var errs []error
	if c.DBHost == "" {
		errs = append(errs, errors.New("DB_HOST is not set"))
	}
	if c.DBName == "" {
		errs = append(errs, errors.New("DB_NAME is not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.LoginRatePerMin <= 0 || c.APIRatePerMin <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}
	return errors.Join(errs...)
}

// HasAdminSeed reports whether an admin account should be seeded
func (c *Config) HasAdminSeed() bool {
	return c.AdminUsername != "" && c.AdminEmail != "" && c.AdminPassword != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
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
