package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/charleshuang3/teamcrm/internal/logging"
)

const (
	defaultLogMaxSizeMB  = 100
	defaultLogMaxBackups = 5
	defaultLogMaxAgeDays = 30
)

type LogConfig struct {
	// Level is a zerolog level name, info by default.
	Level string `yaml:"level"`

	// File, if set, receives the logs instead of the console and is rotated.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func (c *LogConfig) Validate() {
	if c.Level == "" {
		c.Level = zerolog.LevelInfoValue
	}
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		logger.Fatal().Err(err).Msgf("Log: unknown level %q", c.Level)
	}

	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = defaultLogMaxBackups
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = defaultLogMaxAgeDays
	}
}

func (c *LogConfig) writer() io.Writer {
	if c.File == "" {
		return zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
		Compress:   true,
	}
}

// SetupLogging applies the level and points every component logger at the
// configured output.
func (c *LogConfig) SetupLogging() {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	logging.SetOutput(c.writer())
}
