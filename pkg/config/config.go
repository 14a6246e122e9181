package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"lot-backend/pkg/apperror"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"ssl_mode"`
	Path       string `mapstructure:"path"`
	PoolSize   int    `mapstructure:"pool_size"`
	AutoSchema bool   `mapstructure:"auto_schema"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional .env file, an optional config
// file and LOT_* environment variables, in increasing priority.
// An explicit configFile must exist.
func Load(configFile string) (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0) // 0 selects the engine default
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "lot")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.path", "lot.db")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.auto_schema", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetEnvPrefix("lot")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	db := c.Database
	switch db.Driver {
	case "postgres", "mysql":
		if db.Name == "" {
			return apperror.New(apperror.Config, "database.name is required for driver %s", db.Driver)
		}
		if db.Host == "" {
			return apperror.New(apperror.Config, "database.host is required for driver %s", db.Driver)
		}
	case "sqlite":
		if db.Path == "" {
			return apperror.New(apperror.Config, "database.path is required for driver sqlite")
		}
	default:
		return apperror.New(apperror.Config, "unsupported database.driver %q", db.Driver)
	}
	if db.PoolSize <= 0 {
		return apperror.New(apperror.Config, "database.pool_size must be positive, got %d", db.PoolSize)
	}
	return nil
}
