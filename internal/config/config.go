package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"fintrack/internal/period"

	"github.com/joho/godotenv"
)

// Planner backends.
const (
	PlannerScript = "script"
	PlannerGemini = "gemini"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT verification; tokens are issued elsewhere.
	JWTSecret string

	// Period resolution
	WeekStart time.Weekday
	Location  *time.Location

	// Rate limiting. Disabled when RedisURL is empty.
	RedisURL        string
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Budget planner
	Planner          string
	GeminiAPIKey     string
	GeminiModel      string
	PlannerScript    string
	PythonExecutable string

	// Savings goals
	AutoSaveInterval      time.Duration
	GoalContributeRetries int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without reading .env.
func FromEnv() (*Config, error) {
	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fintrack"),
		DBPassword: getEnv("DB_PASSWORD", "fintrack"),
		DBName:     getEnv("DB_NAME", "fintrack"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		RedisURL: getEnv("REDIS_URL", ""),

		Planner:          getEnv("PLANNER", PlannerScript),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		PlannerScript:    getEnv("PLANNER_SCRIPT", "scripts/budget_planner.py"),
		PythonExecutable: getEnv("PYTHON_EXECUTABLE", "python3"),
	}

	weekStart := getEnv("PERIOD_WEEK_START", "sunday")
	day, ok := period.ParseWeekday(weekStart)
	if !ok {
		return nil, fmt.Errorf("invalid PERIOD_WEEK_START %q", weekStart)
	}
	config.WeekStart = day

	tz := getEnv("PERIOD_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid PERIOD_TIMEZONE %q: %w", tz, err)
	}
	config.Location = loc

	if config.RateLimitMax, err = getInt("RATE_LIMIT_MAX", 100); err != nil {
		return nil, err
	}
	if config.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if config.AutoSaveInterval, err = getDuration("AUTOSAVE_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if config.GoalContributeRetries, err = getInt("GOAL_CONTRIBUTE_RETRIES", 8); err != nil {
		return nil, err
	}

	switch config.Planner {
	case PlannerScript:
	case PlannerGemini:
		if config.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when PLANNER=%s", PlannerGemini)
		}
	default:
		return nil, fmt.Errorf("unknown PLANNER %q (use %s or %s)", config.Planner, PlannerScript, PlannerGemini)
	}

	appConfig = config
	return config, nil
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

// Resolver returns a period resolver using the configured week start and
// location.
func (c *Config) Resolver() *period.Resolver {
	return period.NewResolver(c.WeekStart, c.Location)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", key, raw)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, raw)
	}
	return v, nil
}
