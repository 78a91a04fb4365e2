package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Policy    PolicyConfig
	Report    ReportConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type AppConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// AllowAdminRegistration opens POST /auth/register to role=admin.
	AllowAdminRegistration bool
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	TimeZone string
	Migrate  bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// PolicyConfig toggles the optional appointment rules.
type PolicyConfig struct {
	EnforceDoctorOwnership    bool
	EnforceDoctorAvailability bool
	DeletionRequestTTL        time.Duration
}

type ReportConfig struct {
	Dir string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type LogConfig struct {
	Level string
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_READ_TIMEOUT", "15s")
	viper.SetDefault("APP_WRITE_TIMEOUT", "15s")
	viper.SetDefault("APP_ALLOW_ADMIN_REGISTRATION", false)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_MIGRATE", true)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", "1h")
	viper.SetDefault("JWT_REFRESH_EXPIRY", "168h")
	viper.SetDefault("POLICY_ENFORCE_DOCTOR_OWNERSHIP", true)
	viper.SetDefault("POLICY_ENFORCE_DOCTOR_AVAILABILITY", false)
	viper.SetDefault("DELETION_REQUEST_TTL", "168h")
	viper.SetDefault("REPORT_DIR", "./reports")
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("LOG_LEVEL", "info")
}

// LoadConfig reads .env (when present) into the process environment and
// builds the Config from environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is fine: production injects the environment directly.
	_ = godotenv.Load()

	setDefaults()
	viper.AutomaticEnv()

	secret := viper.GetString("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = time.Hour
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	deletionTTL, err := time.ParseDuration(viper.GetString("DELETION_REQUEST_TTL"))
	if err != nil {
		deletionTTL = 7 * 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port:                   viper.GetString("APP_PORT"),
			Env:                    viper.GetString("APP_ENV"),
			ReadTimeout:            viper.GetDuration("APP_READ_TIMEOUT"),
			WriteTimeout:           viper.GetDuration("APP_WRITE_TIMEOUT"),
			AllowAdminRegistration: viper.GetBool("APP_ALLOW_ADMIN_REGISTRATION"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			TimeZone: viper.GetString("DB_TIMEZONE"),
			Migrate:  viper.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        secret,
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Policy: PolicyConfig{
			EnforceDoctorOwnership:    viper.GetBool("POLICY_ENFORCE_DOCTOR_OWNERSHIP"),
			EnforceDoctorAvailability: viper.GetBool("POLICY_ENFORCE_DOCTOR_AVAILABILITY"),
			DeletionRequestTTL:        deletionTTL,
		},
		Report: ReportConfig{
			Dir: viper.GetString("REPORT_DIR"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return config, nil
}
