package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config carries everything the service reads from the environment. An
// optional .env file in the working directory is merged under real env vars.
type Config struct {
	HTTPAddr    string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	MetricsEnabled bool
	StaticRoot     string

	AdminEmail    string
	AdminPassword string

	SMTPServer       string
	SMTPPort         string
	SMTPUser         string
	SMTPPass         string
	SMTPAuthDisabled bool
	AlertFrom        string
	AlertTo          string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	MinItemWeightKg       float64
	MaxItemWeightKg       float64
	MaxUploadSizeMB       int
	NearbyDefaultRadiusKm float64
}

func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("DB_READY_INTERVAL", "1s")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "720h")
	v.SetDefault("METRICS_ENABLED", false)
	v.SetDefault("STATIC_ROOT", "/var/www/static")
	v.SetDefault("COLLECTION_MIN_WEIGHT_KG", 0.1)
	v.SetDefault("COLLECTION_MAX_WEIGHT_KG", 10000.0)
	v.SetDefault("MAX_UPLOAD_SIZE_MB", 10)
	v.SetDefault("NEARBY_DEFAULT_RADIUS_KM", 10.0)

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	// A missing .env is fine; env vars alone are a valid configuration.
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	cfg := Config{
		HTTPAddr:              v.GetString("HTTP_ADDR"),
		DatabaseURL:           v.GetString("DATABASE_URL"),
		RedisAddr:             v.GetString("REDIS_ADDR"),
		RedisPassword:         v.GetString("REDIS_PASSWORD"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		AccessTokenTTL:        v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:       v.GetDuration("REFRESH_TOKEN_TTL"),
		MetricsEnabled:        v.GetBool("METRICS_ENABLED"),
		StaticRoot:            v.GetString("STATIC_ROOT"),
		AdminEmail:            v.GetString("ADMIN_EMAIL"),
		AdminPassword:         v.GetString("ADMIN_PASSWORD"),
		SMTPServer:            v.GetString("SMTP_SERVER"),
		SMTPPort:              v.GetString("SMTP_PORT"),
		SMTPUser:              v.GetString("SMTP_USER"),
		SMTPPass:              v.GetString("SMTP_PASS"),
		SMTPAuthDisabled:      v.GetBool("SMTP_AUTH_DISABLED"),
		AlertFrom:             v.GetString("ALERT_FROM"),
		AlertTo:               v.GetString("ALERT_TO"),
		S3Bucket:              v.GetString("S3_BUCKET"),
		S3Region:              v.GetString("S3_REGION"),
		S3Endpoint:            v.GetString("S3_ENDPOINT"),
		S3AccessKey:           v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:           v.GetString("S3_SECRET_KEY"),
		MinItemWeightKg:       v.GetFloat64("COLLECTION_MIN_WEIGHT_KG"),
		MaxItemWeightKg:       v.GetFloat64("COLLECTION_MAX_WEIGHT_KG"),
		MaxUploadSizeMB:       v.GetInt("MAX_UPLOAD_SIZE_MB"),
		NearbyDefaultRadiusKm: v.GetFloat64("NEARBY_DEFAULT_RADIUS_KM"),
	}
	return cfg, nil
}
