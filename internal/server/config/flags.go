package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/flagx"
)

// stringFlag binds one short command-line flag to a string field.
type stringFlag struct {
	name  string
	usage string
	field func(*Config) *string
}

var stringFlags = []stringFlag{
	{"a", "HTTP listen address, e.g. :8000", func(c *Config) *string { return &c.HTTPAddr }},
	{"d", "PostgreSQL DSN", func(c *Config) *string { return &c.DatabaseDSN }},
	{"s", "access token signing secret", func(c *Config) *string { return &c.AccessTokenSecret }},
	{"rs", "refresh token signing secret", func(c *Config) *string { return &c.RefreshTokenSecret }},
	{"u", "S3 access key", func(c *Config) *string { return &c.S3RootUser }},
	{"p", "S3 secret key", func(c *Config) *string { return &c.S3RootPassword }},
	{"b", "S3 bucket for media", func(c *Config) *string { return &c.S3Bucket }},
	{"g", "S3 region", func(c *Config) *string { return &c.S3Region }},
	{"e", "S3 base endpoint, e.g. http://127.0.0.1:9000/", func(c *Config) *string { return &c.S3BaseEndpoint }},
	{"redis", "Redis address for the login rate limiter", func(c *Config) *string { return &c.RedisAddr }},
	{"l", "log level (debug, info, warn, error)", func(c *Config) *string { return &c.LogLevel }},
}

// parseFlags is the last configuration layer. Token lifetimes are given in
// whole minutes with -t (access) and -r (refresh). Flags that belong to other
// layers (-c, -env-file) are filtered out before parsing.
func parseFlags(config *Config) {
	allowed := []string{"-t", "-r"}
	for _, f := range stringFlags {
		allowed = append(allowed, "-"+f.name)
	}
	args := flagx.FilterArgs(os.Args[1:], allowed)

	fs := flag.NewFlagSet("vidtube", flag.ContinueOnError)
	for _, f := range stringFlags {
		dst := f.field(config)
		fs.StringVar(dst, f.name, *dst, f.usage)
	}
	accessMinutes := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token lifetime, minutes")
	refreshMinutes := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token lifetime, minutes")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessMinutes) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshMinutes) * time.Minute
}
