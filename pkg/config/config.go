package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Upload     UploadConfig
	Classifier ClassifierConfig
	Matching   MatchingConfig
	Cache      CacheConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadConfig governs spreadsheet intake.
type UploadConfig struct {
	// Timezone applied to naive exam start datetimes.
	Timezone string
	// HeaderSearchDepth is how many leading data rows are auditioned as
	// candidate header rows when a sheet's own headers look wrong.
	HeaderSearchDepth int
	MaxFileSizeBytes  int64
}

// ClassifierConfig surfaces the fuzzy file-classification thresholds as tunables.
type ClassifierConfig struct {
	ProvisionColumnHits int
	ExamColumnHits      int
	UnnamedHeaderRatio  float64
}

// MatchingConfig tunes the venue-matching engine.
type MatchingConfig struct {
	// DayStartFloor is the earliest time an extra-time shift may reach (HH:MM).
	DayStartFloor string
	// SmallExtraPerHourMinutes is the extra-time-per-hour threshold at or below
	// which a student stays in the exam's core venue.
	SmallExtraPerHourMinutes int
}

// CacheConfig tunes the read-API response cache.
type CacheConfig struct {
	TTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUploadSize := v.GetInt64("UPLOAD_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 10 * 1024 * 1024
	}
	cfg.Upload = UploadConfig{
		Timezone:          v.GetString("UPLOAD_TIMEZONE"),
		HeaderSearchDepth: v.GetInt("UPLOAD_HEADER_SEARCH_DEPTH"),
		MaxFileSizeBytes:  maxUploadSize,
	}

	cfg.Classifier = ClassifierConfig{
		ProvisionColumnHits: v.GetInt("CLASSIFIER_PROVISION_COLUMN_HITS"),
		ExamColumnHits:      v.GetInt("CLASSIFIER_EXAM_COLUMN_HITS"),
		UnnamedHeaderRatio:  v.GetFloat64("CLASSIFIER_UNNAMED_HEADER_RATIO"),
	}

	cfg.Matching = MatchingConfig{
		DayStartFloor:            v.GetString("MATCHING_DAY_START_FLOOR"),
		SmallExtraPerHourMinutes: v.GetInt("MATCHING_SMALL_EXTRA_PER_HOUR"),
	}

	cfg.Cache = CacheConfig{
		TTL: parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "exam_rooms")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UPLOAD_TIMEZONE", "Europe/London")
	v.SetDefault("UPLOAD_HEADER_SEARCH_DEPTH", 5)
	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 10*1024*1024)

	v.SetDefault("CLASSIFIER_PROVISION_COLUMN_HITS", 2)
	v.SetDefault("CLASSIFIER_EXAM_COLUMN_HITS", 2)
	v.SetDefault("CLASSIFIER_UNNAMED_HEADER_RATIO", 0.5)

	v.SetDefault("MATCHING_DAY_START_FLOOR", "09:00")
	v.SetDefault("MATCHING_SMALL_EXTRA_PER_HOUR", 15)

	v.SetDefault("CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
