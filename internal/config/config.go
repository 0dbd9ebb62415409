package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/joho/godotenv"
)

// Environment keys read by Load.
const (
	EnvAdminUsername = "ADMIN_USERNAME"
	EnvAdminPassword = "ADMIN_PASSWORD"
	EnvEnvFile       = "ENV_FILE"
)

// DefaultEnvFile is used when neither a flag nor ENV_FILE names one.
const DefaultEnvFile = ".env"

// ErrMissingCredentials is returned by Load when the admin identity is not
// configured.
var ErrMissingCredentials = errors.New("missing environment variables " +
	EnvAdminUsername + " and " + EnvAdminPassword +
	"; create a .env file with " + EnvAdminUsername + "=your_username and " +
	EnvAdminPassword + "=your_password")

type Config struct {
	Port               string
	PostDir            string
	EnvFile            string
	DatabaseURL        string
	SessionSecret      string
	SessionMaxAge      time.Duration
	CookieSecure       bool
	GroqAPIKey         string
	GroqBaseURL        string
	GroqModel          string
	GenerateTimeout    time.Duration
	CorsAllowedOrigins []string
	LogLevel           string
	AdminUsername      string
	AdminPassword      string
}

// EnvFile returns envFile, falling back to ENV_FILE and then DefaultEnvFile
// when it is empty.
func EnvFile(envFile string) string {
	if envFile != "" {
		return envFile
	}
	return getEnv(EnvEnvFile, DefaultEnvFile)
}

// Load reads envFile into the process environment, when it exists, and
// builds the configuration from the environment. An empty envFile is
// resolved by EnvFile.
func Load(envFile string) (Config, error) {
	envFile = EnvFile(envFile)
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrapf(err, "load env file `%s`", envFile)
	}

	sessionMaxAge, err := getDuration("SESSION_MAX_AGE", 0)
	if err != nil {
		return Config{}, err
	}
	generateTimeout, err := getDuration("GENERATE_TIMEOUT", 60*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:               getEnv("PORT", "3000"),
		PostDir:            getEnv("POST_DIR", "./post"),
		EnvFile:            envFile,
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionMaxAge:      sessionMaxAge,
		CookieSecure:       getEnv("COOKIE_SECURE", "false") == "true",
		GroqAPIKey:         getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:        getEnv("GROQ_BASE_URL", ""),
		GroqModel:          getEnv("GROQ_MODEL", ""),
		GenerateTimeout:    generateTimeout,
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		AdminUsername:      getEnv(EnvAdminUsername, ""),
		AdminPassword:      getEnv(EnvAdminPassword, ""),
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return Config{}, ErrMissingCredentials
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

// getDuration accepts either a Go duration ("90s") or a number of seconds.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return d, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
