package config // package config loads application configuration from environment variables

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env        string        // application environment (e.g. "dev", "prod")
	Port       string        // HTTP port to listen on
	LogLevel   string        // DEBUG, INFO, WARN, ERROR, OFF
	DBUser     string        // database username
	DBPass     string        // database password (optional)
	DBHost     string        // database host address
	DBPort     string        // database port number
	DBName     string        // database name
	JWTSecret  string        // secret used to sign access tokens
	TokenTTL   time.Duration // lifetime of an access token
	BcryptCost int           // bcrypt cost for password hashing
	AMQPURL    string        // RabbitMQ URL for activity events (empty disables publishing)
	Gemini     GeminiConfig
}

// GeminiConfig describes how to reach the generative-language API. An empty
// APIKey leaves generation disabled.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string // empty uses the SDK default endpoint
	APIVersion string
	Timeout    time.Duration
}

// DefaultTokenTTL is the access token lifetime used when TOKEN_TTL is unset.
const DefaultTokenTTL = 30 * 24 * time.Hour

// LoadDotEnv loads variables from a .env file in the working directory when
// one exists. Variables already present in the environment win.
func LoadDotEnv() {
	file := envStr("ENV_FILE", ".env")
	if _, err := os.Stat(file); err != nil {
		return
	}
	if err := godotenv.Load(file); err != nil {
		log.Warnf("config: could not load %s: %v", file, err)
	}
}

// Load reads configuration values from environment variables and returns a
// Config. Missing required variables cause the program to exit with a fatal
// log message.
func Load() Config {
	return Config{
		Env:        envStr("APP_ENV", "dev"),
		Port:       envStr("APP_PORT", "8118"),
		LogLevel:   strings.ToUpper(envStr("LOG_LEVEL", "INFO")),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"),
		DBHost:     must("DB_HOST"),
		DBPort:     envStr("DB_PORT", "3306"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		TokenTTL:   envDur("TOKEN_TTL", DefaultTokenTTL),
		BcryptCost: envInt("BCRYPT_COST", 12),
		AMQPURL:    firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
		Gemini: GeminiConfig{
			APIKey:     os.Getenv("GEMINI_API_KEY"),
			Model:      envStr("GEMINI_MODEL", "gemini-1.5-flash"),
			BaseURL:    os.Getenv("GEMINI_BASE_URL"),
			APIVersion: envStr("GEMINI_API_VERSION", "v1beta"),
			Timeout:    envDur("GEMINI_TIMEOUT", 60*time.Second),
		},
	}
}

// must retrieves the value of a required environment variable.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
