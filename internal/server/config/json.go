package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vidtube/internal/flagx"
	"github.com/dmitrijs2005/vidtube/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted; the
// pointer fields distinguish "absent" from an explicit false/zero.
type JsonConfig struct {
	HTTPAddr                     string         `json:"http_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	AccessTokenSecret            string         `json:"access_token_secret"`
	RefreshTokenSecret           string         `json:"refresh_token_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	CookieSecure                 *bool          `json:"cookie_secure"`
	CORSOrigin                   string         `json:"cors_origin"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	S3PublicURL                  string         `json:"s3_public_url"`
	RedisAddr                    string         `json:"redis_addr"`
	LoginRateLimit               *int           `json:"login_rate_limit"`
	LoginRateWindow              timex.Duration `json:"login_rate_window"`
	UploadTempDir                string         `json:"upload_temp_dir"`
	MaxUploadBytes               *int64         `json:"max_upload_bytes"`
	LogLevel                     string         `json:"log_level"`
	LogFormat                    string         `json:"log_format"`
}

// parseJson overlays values from the JSON file named by -c/-config onto
// config. Only fields present in the file are applied. A missing flag means
// nothing is loaded; an unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.HTTPAddr, c.HTTPAddr)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.AccessTokenSecret, c.AccessTokenSecret)
	overlay(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	overlay(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration.Duration)
	overlay(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration.Duration)
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	overlay(&config.CORSOrigin, c.CORSOrigin)
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&config.S3PublicURL, c.S3PublicURL)
	overlay(&config.RedisAddr, c.RedisAddr)
	if c.LoginRateLimit != nil {
		config.LoginRateLimit = *c.LoginRateLimit
	}
	overlay(&config.LoginRateWindow, c.LoginRateWindow.Duration)
	overlay(&config.UploadTempDir, c.UploadTempDir)
	if c.MaxUploadBytes != nil {
		config.MaxUploadBytes = *c.MaxUploadBytes
	}
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.LogFormat, c.LogFormat)
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
