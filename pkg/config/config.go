package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/render"
	"github.com/matzehuels/algoviz/pkg/store"
	"github.com/matzehuels/algoviz/pkg/structure"
	"github.com/matzehuels/algoviz/pkg/viz"
)

// AppName names the configuration and data directories.
const AppName = "algoviz"

// Config is the complete algoviz configuration.
type Config struct {
	Animation AnimationConfig  `toml:"animation" yaml:"animation"`
	Viewport  ViewportConfig   `toml:"viewport" yaml:"viewport"`
	Layout    structure.Layout `toml:"layout" yaml:"layout"`
	Store     StoreConfig      `toml:"store" yaml:"store"`
	Server    ServerConfig     `toml:"server" yaml:"server"`
}

// AnimationConfig controls playback timing.
type AnimationConfig struct {
	// Tick is the period between two motion steps.
	Tick time.Duration `toml:"tick" yaml:"tick" validate:"min=1ms,max=10s"`
	// Steps is the number of ticks a default move takes.
	Steps int `toml:"steps" yaml:"steps" validate:"min=1,max=1000"`
	// Autoplay is the delay between commands when the player runs on its own.
	Autoplay time.Duration `toml:"autoplay" yaml:"autoplay" validate:"min=1ms"`
}

// ViewportConfig is the rectangle nodes are visible in.
type ViewportConfig struct {
	X      int `toml:"x" yaml:"x"`
	Y      int `toml:"y" yaml:"y"`
	Width  int `toml:"width" yaml:"width" validate:"min=80"`
	Height int `toml:"height" yaml:"height" validate:"min=80"`
}

// Rect returns the viewport as a rectangle.
func (v ViewportConfig) Rect() render.Rect {
	return render.Rect{X: v.X, Y: v.Y, W: v.Width, H: v.Height}
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Backend  string `toml:"backend" yaml:"backend" validate:"oneof=file badger redis mongo null"`
	Path     string `toml:"path" yaml:"path"`
	Compress bool   `toml:"compress" yaml:"compress"`

	RedisAddr string `toml:"redis_addr" yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB   int    `toml:"redis_db" yaml:"redis_db" validate:"min=0,max=15"`

	MongoURI      string `toml:"mongo_uri" yaml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase string `toml:"mongo_database" yaml:"mongo_database"`
}

// Options converts the section to store options.
func (s StoreConfig) Options() store.Options {
	return store.Options{
		Backend:       s.Backend,
		Path:          s.Path,
		RedisAddr:     s.RedisAddr,
		RedisDB:       s.RedisDB,
		MongoURI:      s.MongoURI,
		MongoDatabase: s.MongoDatabase,
		Compress:      s.Compress,
	}
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr" yaml:"addr" validate:"required,hostname_port"`
	ReadTimeout  time.Duration `toml:"read_timeout" yaml:"read_timeout" validate:"min=0"`
	WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout" validate:"min=0"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Animation: AnimationConfig{
			Tick:     viz.DefaultTickInterval,
			Steps:    12,
			Autoplay: 400 * time.Millisecond,
		},
		Viewport: ViewportConfig{Width: 800, Height: 600},
		Layout:   structure.DefaultLayout(),
		Store: StoreConfig{
			Backend:       store.BackendFile,
			Path:          filepath.Join(DataDir(), "scenarios"),
			MongoDatabase: AppName,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// DataDir returns the directory algoviz keeps its data in.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

var validate = validator.New()

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	if c.Layout.DX <= 0 || c.Layout.DY <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout spacing must be positive")
	}
	return nil
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path selects DefaultPath; a missing file is
// not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	default:
		if err := unmarshal(path, data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.loadFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path in the format its extension selects, creating
// parent directories.
func Save(path string, cfg *Config) error {
	data, err := Marshal(path, cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create config directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// Marshal encodes cfg as TOML, or as YAML when path ends in .yaml or .yml.
func Marshal(path string, cfg *Config) ([]byte, error) {
	if isYAML(path) {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
		return data, nil
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode toml")
	}
	return buf.Bytes(), nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	var err error
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", filepath.Base(path))
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// loadFromEnv applies ALGOVIZ_* overrides. Malformed values are ignored.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("ALGOVIZ_TICK"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Animation.Tick = d
		}
	}
	if v := os.Getenv("ALGOVIZ_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Animation.Steps = n
		}
	}
	if v := os.Getenv("ALGOVIZ_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("ALGOVIZ_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("ALGOVIZ_REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := os.Getenv("ALGOVIZ_MONGO_URI"); v != "" {
		c.Store.MongoURI = v
	}
	if v := os.Getenv("ALGOVIZ_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// TreeOptions returns the structure options the configuration implies: the
// viewport as fixed bounds, and the layout with the animation step count.
func (c *Config) TreeOptions() []structure.Option {
	l := c.Layout
	l.Steps = c.Animation.Steps
	return []structure.Option{
		structure.WithBounds(render.FixedBounds(c.Viewport.Rect())),
		structure.WithLayout(l),
	}
}
