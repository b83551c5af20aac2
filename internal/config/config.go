// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Optimizer OptimizerConfig
	Forecast  ForecastConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled        bool
	RedisURL       string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	PlanTTLSeconds int
}

// OptimizerConfig exposes the priority weights and threat window so the
// production numbers stay tunable without a rebuild.
type OptimizerConfig struct {
	BasePriority           float64
	ConfidenceWeight       float64
	TrendIncreasingBonus   float64
	TrendDecreasingPenalty float64
	ThreatWindowDays       int
}

// ForecastConfig bounds the wait on the forecasting collaborator.
type ForecastConfig struct {
	TimeoutSeconds int
	HistoryDays    int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_ENABLED", false)
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "replenish")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PLAN_TTL_SECONDS", 300)
		viper.SetDefault("OPTIMIZER_BASE_PRIORITY", 1000.0)
		viper.SetDefault("OPTIMIZER_CONFIDENCE_WEIGHT", 100.0)
		viper.SetDefault("OPTIMIZER_TREND_INCREASING_BONUS", 50.0)
		viper.SetDefault("OPTIMIZER_TREND_DECREASING_PENALTY", -20.0)
		viper.SetDefault("OPTIMIZER_THREAT_WINDOW_DAYS", 30)
		viper.SetDefault("FORECAST_TIMEOUT_SECONDS", 5)
		viper.SetDefault("FORECAST_HISTORY_DAYS", 90)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Enabled:  viper.GetBool("DB_ENABLED"),
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:        viper.GetBool("CACHE_ENABLED"),
				RedisURL:       viper.GetString("REDIS_URL"),
				RedisHost:      viper.GetString("REDIS_HOST"),
				RedisPort:      viper.GetString("REDIS_PORT"),
				RedisPassword:  viper.GetString("REDIS_PASSWORD"),
				RedisDB:        viper.GetInt("REDIS_DB"),
				PlanTTLSeconds: viper.GetInt("CACHE_PLAN_TTL_SECONDS"),
			},
			Optimizer: OptimizerConfig{
				BasePriority:           viper.GetFloat64("OPTIMIZER_BASE_PRIORITY"),
				ConfidenceWeight:       viper.GetFloat64("OPTIMIZER_CONFIDENCE_WEIGHT"),
				TrendIncreasingBonus:   viper.GetFloat64("OPTIMIZER_TREND_INCREASING_BONUS"),
				TrendDecreasingPenalty: viper.GetFloat64("OPTIMIZER_TREND_DECREASING_PENALTY"),
				ThreatWindowDays:       viper.GetInt("OPTIMIZER_THREAT_WINDOW_DAYS"),
			},
			Forecast: ForecastConfig{
				TimeoutSeconds: viper.GetInt("FORECAST_TIMEOUT_SECONDS"),
				HistoryDays:    viper.GetInt("FORECAST_HISTORY_DAYS"),
			},
		}
	})

	return instance
}
