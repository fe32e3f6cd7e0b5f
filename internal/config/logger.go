// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // logs.timezone must resolve in minimal containers

	"github.com/tomtom215/afkwarden/internal/validation"
)

// DefaultLoggerConfigPaths lists where afklogger looks for its optional
// settings file, in order.
var DefaultLoggerConfigPaths = []string{
	"afklogger.yaml",
	"afklogger.yml",
	"/etc/afkwarden/afklogger.yaml",
}

// ConfigPathEnvVar overrides the afklogger settings file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// LoggerConfig holds afklogger settings.
type LoggerConfig struct {
	Server   ServerConfig   `koanf:"server"`
	Logs     LogsConfig     `koanf:"logs"`
	Watchdog WatchdogConfig `koanf:"watchdog"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig is the log ingest HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LogsConfig controls the on-disk log files.
type LogsConfig struct {
	Dir       string        `koanf:"dir" validate:"required"`
	Retention time.Duration `koanf:"retention"`
	Timezone  string        `koanf:"timezone" validate:"required"`
}

// Location resolves Timezone. "Local" is the process time zone.
func (c LogsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// WatchdogConfig controls the bot child process.
type WatchdogConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Command      []string      `koanf:"command"`
	RestartDelay time.Duration `koanf:"restart_delay"`
	StopTimeout  time.Duration `koanf:"stop_timeout"`
}

// LoggingConfig is passed to logging.Init.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

func defaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            6969,
			RateLimitReqs:   1200,
			RateLimitWindow: time.Minute,
			ShutdownTimeout: 5 * time.Second,
		},
		Logs: LogsConfig{
			Dir:       "logs",
			Retention: 7 * 24 * time.Hour,
			Timezone:  "Asia/Kolkata",
		},
		Watchdog: WatchdogConfig{
			Enabled:      true,
			Command:      []string{"./afkbot"},
			RestartDelay: 5 * time.Second,
			StopTimeout:  10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var loggerEnvMappings = map[string]string{
	"LOGGER_HOST":       "server.host",
	"LOGGER_PORT":       "server.port",
	"LOGGER_RATE_LIMIT": "server.rate_limit_reqs",
	"LOGS_DIR":          "logs.dir",
	"LOG_RETENTION":     "logs.retention",
	"LOG_TIMEZONE":      "logs.timezone",
	"WATCHDOG_ENABLED":  "watchdog.enabled",
	"BOT_COMMAND":       "watchdog.command",
	"BOT_RESTART_DELAY": "watchdog.restart_delay",
	"BOT_STOP_TIMEOUT":  "watchdog.stop_timeout",
	"LOG_LEVEL":         "logging.level",
	"LOG_FORMAT":        "logging.format",
	"LOG_CALLER":        "logging.caller",
}

// LoadLoggerConfig loads afklogger settings with the precedence
// ENV > afklogger.yaml > defaults. The settings file is optional.
func LoadLoggerConfig() (*LoggerConfig, error) {
	cfg := defaultLoggerConfig()
	path := findConfigFile(ConfigPathEnvVar, DefaultLoggerConfigPaths)

	if err := loadLogger(cfg, path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loggerSliceFields splits BOT_COMMAND on whitespace. Arguments containing
// spaces need the settings file instead.
var loggerSliceFields = map[string]func(string) []string{
	"watchdog.command": strings.Fields,
}

func loadLogger(cfg *LoggerConfig, path string) error {
	return load(cfg, path, loggerEnvMappings, loggerSliceFields)
}

// Validate checks struct rules plus the cross-field constraints the
// validator tags cannot express.
func (c *LoggerConfig) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if _, err := c.Logs.Location(); err != nil {
		return fmt.Errorf("logs.timezone %q: %w", c.Logs.Timezone, err)
	}
	if c.Logs.Retention <= 0 {
		return errors.New("logs.retention must be positive")
	}
	if c.Watchdog.Enabled && len(c.Watchdog.Command) == 0 {
		return errors.New("watchdog.command is required when the watchdog is enabled")
	}
	if c.Watchdog.RestartDelay <= 0 {
		return errors.New("watchdog.restart_delay must be positive")
	}
	return nil
}
