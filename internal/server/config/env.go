package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv loads a dotenv file (the -env-file flag, or ./.env when present)
// into the process environment without overriding variables that are
// already set, then copies recognised variables into config.
//
// Malformed numeric, boolean or duration values panic, as do unreadable
// dotenv files named explicitly on the command line.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	setString(&config.HTTPAddr, "HTTP_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.AccessTokenSecret, "ACCESS_TOKEN_SECRET")
	setString(&config.RefreshTokenSecret, "REFRESH_TOKEN_SECRET")
	setDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_EXPIRY")
	setDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_EXPIRY")
	setBool(&config.CookieSecure, "COOKIE_SECURE")
	setString(&config.CORSOrigin, "CORS_ORIGIN")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	setString(&config.S3PublicURL, "S3_PUBLIC_URL")
	setString(&config.RedisAddr, "REDIS_ADDR")
	setInt(&config.LoginRateLimit, "LOGIN_RATE_LIMIT")
	setDuration(&config.LoginRateWindow, "LOGIN_RATE_WINDOW")
	setString(&config.UploadTempDir, "UPLOAD_TEMP_DIR")
	setInt64(&config.MaxUploadBytes, "MAX_UPLOAD_BYTES")
	setString(&config.LogLevel, "LOG_LEVEL")
	setString(&config.LogFormat, "LOG_FORMAT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		*dst = b
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func setInt64(dst *int64, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}
