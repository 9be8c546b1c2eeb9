// Package config loads the TOML configuration shared by the demo commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mode777/tgl/sprite"
	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration. Zero fields in a file keep their
// defaults.
type Config struct {
	Window  Window  `toml:"window"`
	Log     Log     `toml:"log"`
	Sprites Sprites `toml:"sprites"`
	Shaders Shaders `toml:"shaders"`
}

// Window configures the native window.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

// Log configures the slog handler installed with tgl.SetLogger.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Sprites configures the batch the demos draw.
type Sprites struct {
	// Texture is the image file sprites are cut from. Empty selects a
	// generated checker texture.
	Texture string `toml:"texture"`
	// Atlas is an optional TexturePacker JSON file naming frames of Texture.
	Atlas string `toml:"atlas"`
	// Layout is an optional YAML batch layout.
	Layout string `toml:"layout"`
	// BatchSize is the number of sprites when no layout is given.
	BatchSize int `toml:"batch_size"`
}

// Shaders points at GLSL files replacing the built-in 2D program. Either
// both paths are set or neither.
type Shaders struct {
	Vertex    string `toml:"vertex"`
	Fragment  string `toml:"fragment"`
	HotReload bool   `toml:"hot_reload"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "tgl",
			Width:  640,
			Height: 480,
			VSync:  true,
		},
		Log:     Log{Level: "info"},
		Sprites: Sprites{BatchSize: 64},
	}
}

// Load reads and validates the configuration at path on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data on top of Default and validates the result.
// Unknown keys are an error.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Sprites.BatchSize <= 0 || c.Sprites.BatchSize > sprite.MaxBatchSize {
		return fmt.Errorf("batch_size %d out of range [1, %d]", c.Sprites.BatchSize, sprite.MaxBatchSize)
	}
	if (c.Shaders.Vertex == "") != (c.Shaders.Fragment == "") {
		return errors.New("shaders: vertex and fragment must be set together")
	}
	if c.Shaders.HotReload && c.Shaders.Vertex == "" {
		return errors.New("shaders: hot_reload needs shader files")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
