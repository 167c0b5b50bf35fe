package cli

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/kgforce/pkg/errors"
	"github.com/matzehuels/kgforce/pkg/force"
	"github.com/matzehuels/kgforce/pkg/layout"
	"github.com/matzehuels/kgforce/pkg/pipeline"
	"github.com/matzehuels/kgforce/pkg/server"
)

// Config is the optional config file. Flags override its values.
//
//	[physics]
//	damping = 0.85
//	charge_strength = -400
//
//	[viewport]
//	width = 1200
//	height = 800
//
//	[server]
//	addr = "127.0.0.1:8080"
//	frame_rate = 60
//	stream_rate = 30
//
//	[cache]
//	dir = "/var/cache/kgforce"
//	redis_addr = "localhost:6379"
//	ttl = "72h"
type Config struct {
	Physics  force.Params    `toml:"physics"`
	Viewport layout.Viewport `toml:"viewport"`
	Server   ServerConfig    `toml:"server"`
	Cache    CacheConfig     `toml:"cache"`
}

// ServerConfig is the [server] section.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	FrameRate  int    `toml:"frame_rate" validate:"gte=0,lte=240"`
	StreamRate int    `toml:"stream_rate" validate:"gte=0,lte=240"`
}

// CacheConfig is the [cache] section.
type CacheConfig struct {
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db" validate:"gte=0,lte=15"`
	TTL           Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a string ("36h", "90m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the values used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Physics: force.DefaultParams(),
		Viewport: layout.Viewport{
			Width:  pipeline.DefaultWidth,
			Height: pipeline.DefaultHeight,
		},
		Server: ServerConfig{
			Addr:       server.DefaultAddr,
			FrameRate:  force.DefaultFrameRate,
			StreamRate: server.DefaultStreamRate,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config: %v", err)
	}
	if err := errors.ValidateViewport(c.Viewport.Width, c.Viewport.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config: %s", errors.UserMessage(err))
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid config: cache ttl must not be negative")
	}
	return nil
}

// LoadConfig reads a TOML config file over [DefaultConfig]. A missing file is
// an error only when explicit is set; otherwise the defaults are returned.
// Unknown keys are rejected so typos do not go unnoticed.
func LoadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			if !explicit {
				return DefaultConfig(), nil
			}
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse %s: %v", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
