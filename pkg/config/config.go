// Package config loads boxtower's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/boxtower/config.toml, falling back to
// ~/.config/boxtower/config.toml. A missing file is not an error: every
// setting has a default, and command-line flags override whatever the file
// says.
//
//	[search]
//	max_boxes = 20
//	workers = 0          # 0 = GOMAXPROCS
//	max_corrections = 0  # 0 = one turn per failing pair
//
//	[cache]
//	backend = "file"     # file | redis | none
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[archive]
//	backend = "file"     # memory | file | mongo | none
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	bterrors "github.com/matzehuels/boxtower/pkg/errors"
)

// AppName names the configuration and cache directories.
const AppName = "boxtower"

// Backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Config is the full configuration file.
type Config struct {
	Search  Search  `toml:"search"`
	Cache   Cache   `toml:"cache"`
	Archive Archive `toml:"archive"`
	Server  Server  `toml:"server"`
}

// Search tunes the stack evaluator.
type Search struct {
	MaxBoxes       int `toml:"max_boxes" validate:"gte=0,lte=62"`
	Workers        int `toml:"workers" validate:"gte=0"`
	MaxCorrections int `toml:"max_corrections" validate:"gte=0"`
}

// Cache selects the solution cache backend.
type Cache struct {
	Backend       string   `toml:"backend" validate:"oneof=file redis none"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db" validate:"gte=0"`
	KeyPrefix     string   `toml:"key_prefix"`
	TTL           Duration `toml:"ttl"`
}

// Archive selects where solved runs are recorded.
type Archive struct {
	Backend  string `toml:"backend" validate:"oneof=memory file mongo none"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	Database string `toml:"database"`
}

// Server configures `boxtower serve`.
type Server struct {
	Addr string `toml:"addr" validate:"required"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Search: Search{MaxBoxes: 20},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			KeyPrefix: "boxtower:",
			TTL:       Duration{7 * 24 * time.Hour},
		},
		Archive: Archive{
			Backend:  BackendFile,
			MongoURI: "mongodb://localhost:27017",
			Database: "boxtower",
		},
		Server: Server{Addr: ":8080"},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Dir returns the config directory using XDG standard (~/.config/boxtower/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/boxtower/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads path on top of the defaults. An empty path means the default
// location. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return cfg, bterrors.Wrap(bterrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, bterrors.New(bterrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges and backend names.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return bterrors.New(bterrors.ErrCodeInvalidConfig, "%s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return bterrors.Wrap(bterrors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	return nil
}

// Write encodes c as TOML to path, creating parent directories.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
