package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Path is a filesystem path read from configuration. A leading "~/" is
// expanded to the user's home directory while decoding.
type Path string

type IndexConfig struct {
	Dir     Path   `mapstructure:"dir"`
	BaseURL string `mapstructure:"base_url"`
}

type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	ShutdownSeconds int    `mapstructure:"shutdown_seconds"`
}

type SearchConfig struct {
	Limit int `mapstructure:"limit"`
}

type SyncConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type CatalogConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Path    Path `mapstructure:"path"`
}

type Config struct {
	Index   IndexConfig   `mapstructure:"index"`
	Server  ServerConfig  `mapstructure:"server"`
	Search  SearchConfig  `mapstructure:"search"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// cacheBase returns the base cache directory for pywtf.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/pywtf as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "pywtf")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "pywtf")
	}
	return filepath.Join(os.TempDir(), "pywtf")
}

// dataBase returns the base data directory for pywtf.
// Checks XDG_DATA_HOME, then ~/.local/share, then /tmp/pywtf as fallback.
func dataBase() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "pywtf")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "pywtf")
	}
	return filepath.Join(os.TempDir(), "pywtf")
}

// DBPath returns the default path of the DuckDB catalog.
func DBPath() string {
	return filepath.Join(dataBase(), "catalog.db")
}

// IndexDir returns the default project index directory.
func IndexDir() string {
	return filepath.Join(dataBase(), "_index")
}

// LogPath returns the path to the server's log file.
func LogPath() string {
	return filepath.Join(cacheBase(), "pywtf.log")
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "pywtf"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "pywtf"))
	}

	viper.SetDefault("index.dir", IndexDir())
	viper.SetDefault("index.base_url", "")
	viper.SetDefault("server.addr", "127.0.0.1:8080")
	viper.SetDefault("server.shutdown_seconds", 5)
	viper.SetDefault("search.limit", 50)
	viper.SetDefault("sync.concurrency", 4)
	viper.SetDefault("catalog.enabled", true)
	viper.SetDefault("catalog.path", DBPath())

	viper.SetEnvPrefix("PYWTF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func expandPathHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(Path("")) || f.Kind() != reflect.String {
			return data, nil
		}
		return Path(expandHome(data.(string))), nil
	}
}

func expandHome(p string) string {
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return p
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       expandPathHookFunc(),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Search.Limit <= 0 {
		return nil, fmt.Errorf("search.limit must be positive, got %d", config.Search.Limit)
	}
	if config.Sync.Concurrency <= 0 {
		config.Sync.Concurrency = 1
	}
	return &config, nil
}
