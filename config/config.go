// Package config provides configuration management for the relief goods API.
// It handles loading and validation of configuration values from environment variables,
// with support for required variables, default values, and collective error reporting.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/crypto/bcrypt"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Password hashing algorithms accepted in PASSWORD_HASHER.
const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

const (
	defaultPort          = "5000"
	defaultMongoDatabase = "l2-assignment-06"
	defaultPoolSize      = 10
	minPoolSize          = 5
	maxPoolSize          = 100
	defaultExpiresIn     = time.Hour
	defaultBcryptCost    = 10
)

// StoreConfig selects and locates the document store.
type StoreConfig struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string // PostgreSQL connection string
	PoolSize      int
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret      string        // Secret key for signing JWTs
	TokenLifetime  time.Duration // EXPIRES_IN
	PasswordHasher string
	BcryptCost     int
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port       string
	Production bool
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Store  *StoreConfig
	Auth   *AuthConfig
	Server *ServerConfig
}

// loader reads variables through lookup and accumulates every problem it
// finds, so a misconfigured deployment reports all of them at once.
type loader struct {
	lookup func(string) (string, bool)
	errs   *multierror.Error
}

func (l *loader) fail(format string, args ...any) {
	l.errs = multierror.Append(l.errs, fmt.Errorf(format, args...))
}

func (l *loader) required(key string) string {
	value, ok := l.lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		l.fail("missing required environment variable: %s", key)
		return ""
	}
	return value
}

func (l *loader) optional(key, defaultValue string) string {
	if value, ok := l.lookup(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func (l *loader) optionalInt(key string, defaultValue int) int {
	valueStr, ok := l.lookup(key)
	if !ok || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		l.fail("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err)
		return defaultValue
	}
	return value
}

func (l *loader) oneOf(key, defaultValue string, allowed ...string) string {
	value := strings.ToLower(l.optional(key, defaultValue))
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	l.fail("invalid value for %s: %q (expected one of %s)", key, value, strings.Join(allowed, ", "))
	return defaultValue
}

// clampPoolSize keeps the pool size between 5 and 100. Out-of-range values are
// clamped silently rather than rejected.
func clampPoolSize(size int) int {
	if size < minPoolSize {
		return minPoolSize
	}
	if size > maxPoolSize {
		return maxPoolSize
	}
	return size
}

// expiresInPattern matches the "<number> <unit>" strings that token lifetimes
// are conventionally written in ("2 days", "10 mins", "1y", "1.5h").
var expiresInPattern = regexp.MustCompile(`^(?i)(-?\d*\.?\d+) *(milliseconds?|msecs?|ms|seconds?|secs?|s|minutes?|mins?|m|hours?|hrs?|h|days?|d|weeks?|w|years?|yrs?|y)$`)

// expiresInUnit maps a lowercased unit word from expiresInPattern to its length.
func expiresInUnit(unit string) time.Duration {
	const day = 24 * time.Hour
	switch unit {
	case "milliseconds", "millisecond", "msecs", "msec", "ms":
		return time.Millisecond
	case "seconds", "second", "secs", "sec", "s":
		return time.Second
	case "minutes", "minute", "mins", "min", "m":
		return time.Minute
	case "hours", "hour", "hrs", "hr", "h":
		return time.Hour
	case "days", "day", "d":
		return day
	case "weeks", "week", "w":
		return 7 * day
	default: // years, year, yrs, yr, y
		return day * 36525 / 100
	}
}

// ParseExpiresIn reads EXPIRES_IN. It accepts:
//
//   - bare integers, taken as seconds ("3600")
//   - a number and a unit word, with or without a space ("7d", "2 days",
//     "10 mins", "1.5h", "1y"); a year is 365.25 days
//   - compound Go durations ("1h30m")
//
// The result must be positive.
func ParseExpiresIn(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("duration must be positive, got %d", secs)
		}
		return time.Duration(secs) * time.Second, nil
	}

	var d time.Duration
	if m := expiresInPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		d = time.Duration(n * float64(expiresInUnit(strings.ToLower(m[2]))))
	} else {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		d = parsed
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (*AppConfig, error) {
	return Load(os.LookupEnv)
}

// Load builds an AppConfig from lookup. It collects all errors encountered
// during loading and returns them together.
func Load(lookup func(string) (string, bool)) (*AppConfig, error) {
	l := &loader{lookup: lookup}

	// Store
	storeCfg := &StoreConfig{
		Driver:        l.oneOf("STORE_DRIVER", DriverMongo, DriverMongo, DriverPostgres, DriverMemory),
		MongoDatabase: l.optional("MONGODB_DATABASE", defaultMongoDatabase),
		PoolSize:      clampPoolSize(l.optionalInt("DB_POOL_SIZE", defaultPoolSize)),
	}
	switch storeCfg.Driver {
	case DriverMongo:
		storeCfg.MongoURI = l.required("MONGODB_URI")
	case DriverPostgres:
		storeCfg.DatabaseURL = l.required("DATABASE_URL")
	}

	// Auth
	authCfg := &AuthConfig{
		JWTSecret:      l.required("JWT_SECRET"),
		TokenLifetime:  defaultExpiresIn,
		PasswordHasher: l.oneOf("PASSWORD_HASHER", HasherBcrypt, HasherBcrypt, HasherArgon2id),
		BcryptCost:     l.optionalInt("BCRYPT_COST", defaultBcryptCost),
	}
	if raw, ok := lookup("EXPIRES_IN"); ok && raw != "" {
		d, err := ParseExpiresIn(raw)
		if err != nil {
			l.fail("invalid value for EXPIRES_IN: %v", err)
		} else {
			authCfg.TokenLifetime = d
		}
	}
	if authCfg.BcryptCost < bcrypt.MinCost || authCfg.BcryptCost > bcrypt.MaxCost {
		l.fail("invalid value for BCRYPT_COST: %d is outside [%d, %d]", authCfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	// Server
	serverCfg := &ServerConfig{
		Port:       l.optional("PORT", defaultPort),
		Production: strings.HasPrefix(strings.ToLower(l.optional("MODE", "")), "p"),
	}

	if err := l.errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("configuration errors: %w", err)
	}

	return &AppConfig{
		Store:  storeCfg,
		Auth:   authCfg,
		Server: serverCfg,
	}, nil
}
