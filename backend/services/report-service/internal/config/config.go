package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "fcreport/backend/libs/config"
	"fcreport/backend/services/report-service/internal/aggregate"
	"fcreport/backend/services/report-service/internal/ingest"
	"fcreport/backend/services/report-service/internal/pdf"
	"fcreport/backend/services/report-service/internal/pipeline"
)

const (
	defaultPort          = "8085"
	defaultUploadTTL     = 60
	defaultMaxUploadMB   = 20
	defaultJWTExpiration = 60
)

// HTTP configures the listener.
type HTTP struct {
	Port        string   `yaml:"port" env:"REPORT_HTTP_PORT"`
	MaxUploadMB int      `yaml:"maxUploadMb" env:"REPORT_MAX_UPLOAD_MB"`
	CORSOrigins []string `yaml:"corsOrigins" env:"REPORT_CORS_ORIGINS"`
}

// Redis configures the upload store. An empty Addr keeps uploads in memory.
type Redis struct {
	Addr             string `yaml:"addr" env:"REPORT_REDIS_ADDR"`
	Password         string `yaml:"password" env:"REPORT_REDIS_PASSWORD"`
	DB               int    `yaml:"db" env:"REPORT_REDIS_DB"`
	UploadTTLMinutes int    `yaml:"uploadTtlMinutes" env:"REPORT_UPLOAD_TTL_MINUTES"`
}

// Database configures the report history. An empty DSN disables it.
type Database struct {
	DSN string `yaml:"dsn" env:"REPORT_POSTGRES_DSN"`
}

// JWT configures bearer auth on the API. An empty Secret disables it.
type JWT struct {
	Secret           string `yaml:"secret" env:"REPORT_JWT_SECRET"`
	ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"REPORT_JWT_EXPIRES_MINUTES"`
}

// Report tunes the pipeline.
type Report struct {
	TopDrivers       int      `yaml:"topDrivers" env:"REPORT_TOP_DRIVERS"`
	TopHubs          int      `yaml:"topHubs" env:"REPORT_TOP_HUBS"`
	Placeholder      string   `yaml:"placeholder" env:"REPORT_TIMESTAMP_PLACEHOLDER"`
	TimeZone         string   `yaml:"timeZone" env:"REPORT_TIME_ZONE"`
	TimestampLayouts []string `yaml:"timestampLayouts" env:"REPORT_TIMESTAMP_LAYOUTS"`
}

// Log configures the zap logger.
type Log struct {
	Level    string `yaml:"level" env:"LOG_LEVEL"`
	Encoding string `yaml:"encoding" env:"LOG_ENCODING"`
}

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Redis    Redis    `yaml:"redis"`
	Database Database `yaml:"database"`
	JWT      JWT      `yaml:"jwt"`
	Report   Report   `yaml:"report"`
	Log      Log      `yaml:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{
		HTTP:  HTTP{Port: defaultPort, MaxUploadMB: defaultMaxUploadMB},
		Redis: Redis{UploadTTLMinutes: defaultUploadTTL},
		JWT:   JWT{ExpiresInMinutes: defaultJWTExpiration},
		Log:   Log{Level: "info", Encoding: "json"},
	}
	cfg.Report = Report{
		TopDrivers:  aggregate.DefaultTopDrivers,
		TopHubs:     aggregate.DefaultTopHubs,
		Placeholder: pdf.DefaultPlaceholder,
		TimeZone:    "UTC",
	}
	return cfg
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := Default()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile is Load with an explicit YAML path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := libconfig.LoadConfigFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Report.TopDrivers <= 0 || c.Report.TopHubs <= 0 {
		return errors.New("config: top driver and hub limits must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.HTTP.MaxUploadMB < 0 {
		return errors.New("config: max upload size must not be negative")
	}
	return nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = defaultPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	mb := c.HTTP.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return int64(mb) << 20
}

// UploadTTL is how long an upload stays available.
func (c *Config) UploadTTL() time.Duration {
	if c.Redis.UploadTTLMinutes <= 0 {
		return defaultUploadTTL * time.Minute
	}
	return time.Duration(c.Redis.UploadTTLMinutes) * time.Minute
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// AuthEnabled reports whether API requests need a bearer token.
func (c *Config) AuthEnabled() bool {
	return strings.TrimSpace(c.JWT.Secret) != ""
}

// Location resolves the time zone naive timestamps are read in.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Report.TimeZone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: time zone %q: %w", name, err)
	}
	return loc, nil
}

// Pipeline maps the report settings onto the pipeline stages.
func (c *Config) Pipeline() (pipeline.Config, error) {
	loc, err := c.Location()
	if err != nil {
		return pipeline.Config{}, err
	}
	return pipeline.Config{
		Ingest:    ingest.Options{Location: loc, TimestampLayouts: c.Report.TimestampLayouts},
		Aggregate: aggregate.Options{TopDrivers: c.Report.TopDrivers, TopHubs: c.Report.TopHubs},
		PDF:       pdf.Options{Placeholder: c.Report.Placeholder},
	}, nil
}
