package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmcdole/mcc/internal/codec"
	"github.com/mmcdole/mcc/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Session SessionConfig `mapstructure:"session"`
	Lists   ListsConfig   `mapstructure:"lists"`
	Input   InputConfig   `mapstructure:"input"`
	Display DisplayConfig `mapstructure:"display"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds the last server logged in to
type ServerConfig struct {
	URL string `mapstructure:"url"` // Base URL, without /api
}

// SessionConfig says where the login and label cache are kept
type SessionConfig struct {
	File string `mapstructure:"file"` // Empty keeps everything in memory
}

// ListsConfig holds page sizes
type ListsConfig struct {
	RecipesPerPage int `mapstructure:"recipes_per_page"`
	PantryPerPage  int `mapstructure:"pantry_per_page"`
}

// InputConfig controls how typed quantities are stored and shown
type InputConfig struct {
	FractionPlaces int `mapstructure:"fraction_places"` // Decimals kept for amounts typed as fractions
	MaxDenominator int `mapstructure:"max_denominator"` // Largest denominator tried when showing amounts
}

// DisplayConfig holds presentation preferences
type DisplayConfig struct {
	DateFormat        string `mapstructure:"date_format"`         // ymd, dmy or mdy
	ExpiryWarningDays int    `mapstructure:"expiry_warning_days"` // Highlight items expiring within this many days
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			File: filepath.Join(defaultDataPath(), "mcc.db"),
		},
		Lists: ListsConfig{
			RecipesPerPage: domain.DefaultPerPage,
			PantryPerPage:  domain.DefaultPerPage,
		},
		Input: InputConfig{
			FractionPlaces: codec.DefaultFractionPlaces,
			MaxDenominator: codec.DefaultMaxDenominator,
		},
		Display: DisplayConfig{
			DateFormat:        string(domain.DateFormatYearMonthDay),
			ExpiryWarningDays: 3,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "mcc.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mcc")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "mcc")
	}
}

// DefaultConfigPath returns the default config directory for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mcc")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "mcc")
	}
}

// LoadConfig loads configuration from the default config directory,
// a .env file in the working directory, and MCC_* environment variables.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigPath(), ".env")
}

// LoadConfigFrom loads config.yaml from dir. Variables in envFile are exported
// first unless already set; a missing envFile is ignored.
func LoadConfigFrom(dir, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading env file: %w", err)
		}
	}

	cfg := DefaultConfig()
	v := newViper(dir)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Session.File = ExpandPath(cfg.Session.File)
	cfg.Logging.File = ExpandPath(cfg.Logging.File)
	return cfg, nil
}

func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	// Environment variable overrides (MCC_SERVER_URL, MCC_LISTS_RECIPES_PER_PAGE...)
	v.SetEnvPrefix("MCC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every key so environment overrides reach Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.url", cfg.Server.URL)
	v.SetDefault("session.file", cfg.Session.File)
	v.SetDefault("lists.recipes_per_page", cfg.Lists.RecipesPerPage)
	v.SetDefault("lists.pantry_per_page", cfg.Lists.PantryPerPage)
	v.SetDefault("input.fraction_places", cfg.Input.FractionPlaces)
	v.SetDefault("input.max_denominator", cfg.Input.MaxDenominator)
	v.SetDefault("display.date_format", cfg.Display.DateFormat)
	v.SetDefault("display.expiry_warning_days", cfg.Display.ExpiryWarningDays)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate rejects values the rest of the program cannot work with
func (c *Config) Validate() error {
	if c.Lists.RecipesPerPage < 1 || c.Lists.PantryPerPage < 1 {
		return fmt.Errorf("lists: page sizes must be at least 1")
	}
	if c.Input.FractionPlaces < 0 {
		return fmt.Errorf("input: fraction_places must not be negative")
	}
	if c.Input.MaxDenominator < 1 {
		return fmt.Errorf("input: max_denominator must be at least 1")
	}
	if _, err := domain.ParseDateFormat(c.Display.DateFormat); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// DateFormat returns the validated display date format
func (c *Config) DateFormat() domain.DateFormat {
	f, err := domain.ParseDateFormat(c.Display.DateFormat)
	if err != nil {
		return domain.DateFormatYearMonthDay
	}
	return f
}

// Approximator returns the fraction approximator for displaying amounts
func (c *Config) Approximator() codec.Approximator {
	return codec.Approximator{
		Epsilon:        codec.DefaultEpsilon,
		MaxDenominator: c.Input.MaxDenominator,
	}
}

// SaveConfig saves the configuration to the default config directory
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(DefaultConfigPath(), cfg)
}

// SaveConfigTo writes config.yaml into dir
func SaveConfigTo(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	// Set fields individually to ensure correct key names (snake_case)
	v.Set("server.url", cfg.Server.URL)
	v.Set("session.file", cfg.Session.File)
	v.Set("lists.recipes_per_page", cfg.Lists.RecipesPerPage)
	v.Set("lists.pantry_per_page", cfg.Lists.PantryPerPage)
	v.Set("input.fraction_places", cfg.Input.FractionPlaces)
	v.Set("input.max_denominator", cfg.Input.MaxDenominator)
	v.Set("display.date_format", cfg.Display.DateFormat)
	v.Set("display.expiry_warning_days", cfg.Display.ExpiryWarningDays)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if a server URL is known
func (c *Config) IsConfigured() bool {
	return c.Server.URL != ""
}

// ExpandPath replaces a leading ~ with the home directory
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
