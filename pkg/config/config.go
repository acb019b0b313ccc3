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

	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	Log          LogConfig
	Assessment   AssessmentConfig
	Publications PublicationsConfig
	Exports      ExportsConfig
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
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AssessmentConfig tunes exam generation and simulated grading.
type AssessmentConfig struct {
	QuestionCount      int
	FinalExamThreshold float64
	SimulatedGrading   bool
	AssignmentScoreMin float64
	AssignmentScoreMax float64
	TestScoreMin       float64
	TestScoreMax       float64
}

// PublicationsConfig governs publication info caching.
type PublicationsConfig struct {
	CacheTTL time.Duration
}

// ExportsConfig toggles transcript downloads.
type ExportsConfig struct {
	Enabled bool
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
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Assessment = AssessmentConfig{
		QuestionCount:      v.GetInt("ASSESSMENT_QUESTION_COUNT"),
		FinalExamThreshold: v.GetFloat64("ASSESSMENT_FINAL_EXAM_THRESHOLD"),
		SimulatedGrading:   v.GetBool("ASSESSMENT_SIMULATED_GRADING"),
		AssignmentScoreMin: v.GetFloat64("ASSESSMENT_ASSIGNMENT_SCORE_MIN"),
		AssignmentScoreMax: v.GetFloat64("ASSESSMENT_ASSIGNMENT_SCORE_MAX"),
		TestScoreMin:       v.GetFloat64("ASSESSMENT_TEST_SCORE_MIN"),
		TestScoreMax:       v.GetFloat64("ASSESSMENT_TEST_SCORE_MAX"),
	}

	cfg.Publications = PublicationsConfig{
		CacheTTL: parseDuration(v.GetString("PUBLICATIONS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_TRANSCRIPT_EXPORTS"),
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
	v.SetDefault("DB_NAME", "campus_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ASSESSMENT_QUESTION_COUNT", 10)
	v.SetDefault("ASSESSMENT_FINAL_EXAM_THRESHOLD", 75.0)
	v.SetDefault("ASSESSMENT_SIMULATED_GRADING", true)
	v.SetDefault("ASSESSMENT_ASSIGNMENT_SCORE_MIN", 85.0)
	v.SetDefault("ASSESSMENT_ASSIGNMENT_SCORE_MAX", 100.0)
	v.SetDefault("ASSESSMENT_TEST_SCORE_MIN", 80.0)
	v.SetDefault("ASSESSMENT_TEST_SCORE_MAX", 95.0)

	v.SetDefault("PUBLICATIONS_CACHE_TTL", "5m")
	v.SetDefault("ENABLE_TRANSCRIPT_EXPORTS", true)
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
