package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mmcdole/shelf/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Source  domain.Source `mapstructure:"source"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GatewayConfig holds the simulated network behavior
type GatewayConfig struct {
	ReadDelay  time.Duration `mapstructure:"read_delay"`
	WriteDelay time.Duration `mapstructure:"write_delay"`
	FailIDs    []int         `mapstructure:"fail_ids"` // rejected on update and delete
}

// CatalogConfig holds the local catalog location
type CatalogConfig struct {
	Path     string `mapstructure:"path"`      // bbolt file, empty = memory only
	SeedFile string `mapstructure:"seed_file"` // yaml seed, empty = sample data
}

// RemoteConfig holds the gutendex endpoint
type RemoteConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	SuggestionLimit int `mapstructure:"suggestion_limit"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: domain.SourceLocal,
		Gateway: GatewayConfig{
			ReadDelay:  200 * time.Millisecond,
			WriteDelay: 500 * time.Millisecond,
			FailIDs:    []int{102},
		},
		Remote: RemoteConfig{
			URL:     "https://gutendex.com",
			Timeout: 30 * time.Second,
		},
		UI: UIConfig{
			SuggestionLimit: 5,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// Validate rejects values the application cannot run with
func (c *Config) Validate() error {
	var errs []error
	if !c.Source.Valid() {
		errs = append(errs, fmt.Errorf("source %q: %w", c.Source, domain.ErrUnknownSource))
	}
	if c.Gateway.ReadDelay < 0 {
		errs = append(errs, fmt.Errorf("gateway.read_delay must not be negative, got %v", c.Gateway.ReadDelay))
	}
	if c.Gateway.WriteDelay < 0 {
		errs = append(errs, fmt.Errorf("gateway.write_delay must not be negative, got %v", c.Gateway.WriteDelay))
	}
	if c.Remote.Timeout < 0 {
		errs = append(errs, fmt.Errorf("remote.timeout must not be negative, got %v", c.Remote.Timeout))
	}
	return errors.Join(errs...)
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "shelf", "shelf.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "shelf", "shelf.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "shelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "shelf")
	}
}

// RegisterFlags adds the command line flags LoadConfig understands
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to config file")
	fs.String("source", "", "initial data source (local or remote)")
	fs.String("log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	fs.Bool("list", false, "print the book list and exit")
	fs.Bool("version", false, "print version and exit")
}

// LoadConfig loads configuration from defaults, file, environment and
// flags, in increasing priority. flags may be nil.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultConfigPath())
	v.AddConfigPath(".")

	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
		}
		for key, name := range map[string]string{"source": "source", "logging.level": "log-level"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	// Environment variable overrides, e.g. SHELF_GATEWAY_READ_DELAY
	v.SetEnvPrefix("SHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides resolve
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("source", string(cfg.Source))
	v.SetDefault("gateway.read_delay", cfg.Gateway.ReadDelay)
	v.SetDefault("gateway.write_delay", cfg.Gateway.WriteDelay)
	v.SetDefault("gateway.fail_ids", cfg.Gateway.FailIDs)
	v.SetDefault("catalog.path", cfg.Catalog.Path)
	v.SetDefault("catalog.seed_file", cfg.Catalog.SeedFile)
	v.SetDefault("remote.url", cfg.Remote.URL)
	v.SetDefault("remote.timeout", cfg.Remote.Timeout)
	v.SetDefault("ui.suggestion_limit", cfg.UI.SuggestionLimit)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}
