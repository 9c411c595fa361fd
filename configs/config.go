package configs

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const DefaultEnvFile = ".env"

type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	TelegramConfig
	CalendarConfig
}

type TelegramConfig struct {
	Token   string `envconfig:"BOT_TOKEN"`
	AdminID int64  `envconfig:"ADMIN_ID"`
}

type CalendarConfig struct {
	CalendarID  string `envconfig:"CALENDAR_ID"`
	Credentials string `envconfig:"CALENDAR_CREDENTIALS" default:"credentials.json"`
	TimeZone    string `envconfig:"CALENDAR_TIMEZONE" default:"America/Sao_Paulo"`
}

func LoadConfig() (*Config, error) {
	return Load(DefaultEnvFile)
}

// Load reads envFile into the environment when it exists, then decodes the
// environment. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading %s file: %w", envFile, err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}
	return &cfg, nil
}

// RequireBot reports the settings missing for the Telegram front-end.
func (c *Config) RequireBot() error {
	switch {
	case c.Token == "":
		return errors.New("BOT_TOKEN is not set")
	case c.AdminID == 0:
		return errors.New("ADMIN_ID is not set")
	}
	return nil
}

// RequireCalendar reports the settings missing for the calendar export.
func (c *Config) RequireCalendar() error {
	if c.CalendarID == "" {
		return errors.New("CALENDAR_ID is not set")
	}
	return nil
}
