// Package config loads basisview settings from defaults, an optional config
// file, BASISVIEW_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/woozymasta/basisview/internal/gpu"
	"github.com/woozymasta/basisview/internal/logging"
	"github.com/woozymasta/basisview/internal/texformat"
)

// EnvPrefix prefixes environment overrides, e.g. BASISVIEW_RENDER_FPS.
const EnvPrefix = "BASISVIEW"

// Setting keys.
const (
	KeyTranscoderWasm = "transcoder.wasm"
	KeyGPUExtensions  = "gpu.extensions"
	KeyRenderFPS      = "render.fps"
	KeyRenderWidth    = "render.width"
	KeyRenderHeight   = "render.height"
	KeyViewFormat     = "view.format"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyHTTPTimeout    = "http.timeout"
)

// ErrInvalid indicates a setting with an unusable value.
var ErrInvalid = errors.New("invalid configuration")

// Config is the resolved configuration.
type Config struct {
	Transcoder TranscoderConfig `mapstructure:"transcoder"`
	GPU        GPUConfig        `mapstructure:"gpu"`
	Render     RenderConfig     `mapstructure:"render"`
	View       ViewConfig       `mapstructure:"view"`
	Log        LogConfig        `mapstructure:"log"`
	HTTP       HTTPConfig       `mapstructure:"http"`
}

// TranscoderConfig selects the transcoder backend.
type TranscoderConfig struct {
	// Wasm is the path of a transcoder wasm module. Empty selects the
	// native EDDS backend.
	Wasm string `mapstructure:"wasm"`
}

// GPUConfig describes the software device.
type GPUConfig struct {
	// Extensions the device advertises.
	Extensions []string `mapstructure:"extensions"`
}

// RenderConfig sizes and paces the render loop.
type RenderConfig struct {
	FPS int `mapstructure:"fps"`
	// Width and Height override the output frame size; 0 keeps the
	// decoded image size.
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// ViewConfig holds the initial view state.
type ViewConfig struct {
	Format string `mapstructure:"format"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// HTTPConfig configures remote fetches.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Logging returns the logger options.
func (c *Config) Logging() logging.Options {
	return logging.Options{Level: c.Log.Level, Format: c.Log.Format}
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// SetDefaults registers the default of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyTranscoderWasm, "")
	v.SetDefault(KeyGPUExtensions, []string{gpu.ExtS3TC})
	v.SetDefault(KeyRenderFPS, 60)
	v.SetDefault(KeyRenderWidth, 0)
	v.SetDefault(KeyRenderHeight, 0)
	v.SetDefault(KeyViewFormat, texformat.NameRGBA32)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logging.FormatConsole)
	v.SetDefault(KeyHTTPTimeout, 30*time.Second)
}

// Load reads file through fs, when set, and resolves v into a Config.
// Without file, basisview.{yaml,toml,json} in the working directory is
// used if present.
func Load(v *viper.Viper, fs afero.Fs, file string) (*Config, error) {
	if fs != nil {
		v.SetFs(fs)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("basisview")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize splits comma-joined extension lists as given in env vars and
// resolves the view format to its selector label.
func normalize(cfg *Config) {
	var exts []string
	for _, e := range cfg.GPU.Extensions {
		exts = append(exts, strings.FieldsFunc(e, func(r rune) bool { return r == ',' || r == ' ' })...)
	}
	cfg.GPU.Extensions = exts
	if name, ok := texformat.Canonical(cfg.View.Format); ok {
		cfg.View.Format = name
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Render.FPS <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, KeyRenderFPS, c.Render.FPS)
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return fmt.Errorf("%w: render size %dx%d", ErrInvalid, c.Render.Width, c.Render.Height)
	}
	if _, ok := texformat.Lookup(texformat.All(), c.View.Format); !ok {
		return fmt.Errorf("%w: %s %q", ErrInvalid, KeyViewFormat, c.View.Format)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("%w: %s %s", ErrInvalid, KeyHTTPTimeout, c.HTTP.Timeout)
	}

	return nil
}
