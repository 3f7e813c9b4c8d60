// Package config loads the static bot configuration from a postbot.yaml file
// and POSTBOT_-prefixed environment variables. The result is read-only after
// load; components receive values, never the viper handle.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/plaintextdaily/postbot/internal/brand"
)

// Config is the recognized configuration surface.
type Config struct {
	PrimaryColor string         `mapstructure:"primaryColor"`
	CreamColor   string         `mapstructure:"creamColor"`
	LogoURL      string         `mapstructure:"logoUrl"`
	OpenAI       OpenAIConfig   `mapstructure:"openai"`
	Telegram     TelegramConfig `mapstructure:"telegram"`
}

// OpenAIConfig holds generation service credentials and model overrides.
type OpenAIConfig struct {
	APIKey     string `mapstructure:"apiKey"`
	TextModel  string `mapstructure:"textModel"`
	ImageModel string `mapstructure:"imageModel"`
}

// TelegramConfig holds the delivery shim credentials.
type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

// Load reads configuration with this priority: environment variables, then an
// optional config file, then built-in defaults. A missing config file is fine;
// an unreadable or malformed one is an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("postbot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "postbot"))
		}
	}

	v.SetEnvPrefix("POSTBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("primaryColor", brand.DefaultPrimaryHex)
	v.SetDefault("creamColor", brand.DefaultCreamHex)
	v.SetDefault("openai.textModel", "")
	v.SetDefault("openai.imageModel", "")

	// Widely used credential variables work without the POSTBOT_ prefix.
	_ = v.BindEnv("openai.apiKey", "POSTBOT_OPENAI_APIKEY", "OPENAI_API_KEY")
	_ = v.BindEnv("telegram.token", "POSTBOT_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("logoUrl", "POSTBOT_LOGOURL", "LOGO_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("Using config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.LogoURL = strings.TrimSpace(cfg.LogoURL)
	return &cfg, nil
}

// Brand builds the immutable brand constants from the loaded configuration.
// Bad color overrides are logged and replaced with the built-in defaults.
func (c *Config) Brand() *brand.Brand {
	if _, err := brand.ParseHex(c.PrimaryColor); err != nil && c.PrimaryColor != "" {
		log.Warn().Str("primaryColor", c.PrimaryColor).Msg("Invalid primary color, using default")
	}
	if _, err := brand.ParseHex(c.CreamColor); err != nil && c.CreamColor != "" {
		log.Warn().Str("creamColor", c.CreamColor).Msg("Invalid cream color, using default")
	}
	return brand.New(c.PrimaryColor, c.CreamColor, c.LogoURL)
}
