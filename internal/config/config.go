// Package config reads the settings of the backend from the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	// Time zones must resolve on systems without zoneinfo
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/messmill/backend/internal/report"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const databaseFile = "mill.db"

var (
	ErrInvalidPort      = errors.New("PORT must be between 1 and 65535")
	ErrInvalidAPIURL    = errors.New("API_URL must be an absolute URL with scheme and host")
	ErrInvalidLogFormat = errors.New("LOG_FORMAT must be 'human' or 'json'")
	ErrInvalidGinMode   = errors.New("GIN_MODE must be 'debug', 'release' or 'test'")
)

type Config struct {
	Port      int
	APIURL    *url.URL
	DataDir   string
	Location  *time.Location
	LogFormat string // "human" or "json"
	LogLevel  zerolog.Level
	GinMode   string
	Report    report.Options
}

// Load reads the configuration.
//
// Variables from the env files are only used when they are not set in
// the environment. Missing env files are ignored. Without arguments,
// .env in the working directory is read.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, file := range envFiles {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("could not read %s: %w", file, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", 8080)
	v.SetDefault("data_dir", "data")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("report_language", report.DefaultOptions.Language.String())
	v.SetDefault("report_currency", report.DefaultOptions.Currency.String())

	c := Config{
		Port:    v.GetInt("port"),
		DataDir: v.GetString("data_dir"),
		GinMode: v.GetString("gin_mode"),
	}

	if c.Port < 1 || c.Port > 65535 {
		return Config{}, ErrInvalidPort
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return Config{}, ErrInvalidGinMode
	}

	apiURL := v.GetString("api_url")
	if apiURL == "" {
		apiURL = fmt.Sprintf("http://localhost:%d", c.Port)
	}

	u, err := url.Parse(strings.TrimSuffix(apiURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, ErrInvalidAPIURL
	}
	c.APIURL = u

	c.Location, err = time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	// Without an explicit format, humans get readable logs in debug mode
	c.LogFormat = v.GetString("log_format")
	switch c.LogFormat {
	case "":
		c.LogFormat = "json"
		if c.GinMode == "debug" {
			c.LogFormat = "human"
		}
	case "human", "json":
	default:
		return Config{}, ErrInvalidLogFormat
	}

	c.LogLevel = zerolog.InfoLevel
	if c.GinMode == "debug" {
		c.LogLevel = zerolog.DebugLevel
	}

	if level := v.GetString("log_level"); level != "" {
		c.LogLevel, err = zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	c.Report, err = report.ParseOptions(v.GetString("report_language"), v.GetString("report_currency"))
	if err != nil {
		return Config{}, err
	}
	c.Report.Location = c.Location

	return c, nil
}

// DatabasePath is the path of the SQLite database in the data directory.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, databaseFile)
}

// Addr is the address the HTTP server listens on.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
