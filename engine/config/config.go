// Package config loads application settings from a TOML file and turns them into builder options.
//
// Every key is optional. Missing keys keep the defaults returned by Default.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/rendertarget"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shadow"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/pelletier/go-toml/v2"
)

// Config is the root of the settings file.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Engine   EngineConfig   `toml:"engine"`
	Renderer RendererConfig `toml:"renderer"`
	Shadow   ShadowConfig   `toml:"shadow"`
}

// WindowConfig is the [window] table.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  *bool  `toml:"vsync"`
}

// EngineConfig is the [engine] table.
type EngineConfig struct {
	TickRate   float64 `toml:"tick_rate"`
	FrameLimit float64 `toml:"frame_limit"`
	Profiling  bool    `toml:"profiling"`
}

// RendererConfig is the [renderer] table. ClearColor is RGB or RGBA.
type RendererConfig struct {
	ClearColor []float32 `toml:"clear_color"`
	Blending   *bool     `toml:"blending"`
	LightCount int       `toml:"light_count"`
}

// ShadowConfig is the [shadow] table.
type ShadowConfig struct {
	Enabled    bool    `toml:"enabled"`
	Resolution int     `toml:"resolution"`
	Strength   float32 `toml:"strength"`
	Bias       float32 `toml:"bias"`
}

// Default returns the settings used when no file, or an empty file, is given.
func Default() Config {
	vsync, blending := true, true
	return Config{
		Window: WindowConfig{
			Title:  "oxy-gl",
			Width:  1280,
			Height: 720,
			VSync:  &vsync,
		},
		Engine: EngineConfig{
			TickRate: engine.DefaultTickRate,
		},
		Renderer: RendererConfig{
			ClearColor: []float32{common.Gray.R, common.Gray.G, common.Gray.B, common.Gray.A},
			Blending:   &blending,
			LightCount: 4,
		},
		Shadow: ShadowConfig{
			Resolution: 512,
			Strength:   0.5,
			Bias:       0.01,
		},
	}
}

// Load reads and parses the TOML file at path.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - Config: the parsed settings over the defaults
//   - error: error if the file cannot be read or parsed
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse parses TOML settings. Unknown keys are rejected.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the parsed settings over the defaults
//   - error: error if the document is malformed or contains unknown keys
func Parse(data []byte) (Config, error) {
	return Decode(bytes.NewReader(data))
}

// Decode parses TOML settings from r. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	var cfg Config
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.fill(Default())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fill replaces unset values with those of def.
func (c *Config) fill(def Config) {
	c.Window.Title = common.Coalesce(c.Window.Title, def.Window.Title)
	c.Window.Width = common.Coalesce(c.Window.Width, def.Window.Width)
	c.Window.Height = common.Coalesce(c.Window.Height, def.Window.Height)
	if c.Window.VSync == nil {
		c.Window.VSync = def.Window.VSync
	}

	c.Engine.TickRate = common.Coalesce(c.Engine.TickRate, def.Engine.TickRate)

	if len(c.Renderer.ClearColor) == 0 {
		c.Renderer.ClearColor = def.Renderer.ClearColor
	}
	if c.Renderer.Blending == nil {
		c.Renderer.Blending = def.Renderer.Blending
	}
	c.Renderer.LightCount = common.Coalesce(c.Renderer.LightCount, def.Renderer.LightCount)

	c.Shadow.Resolution = common.Coalesce(c.Shadow.Resolution, def.Shadow.Resolution)
	c.Shadow.Strength = common.Coalesce(c.Shadow.Strength, def.Shadow.Strength)
	c.Shadow.Bias = common.Coalesce(c.Shadow.Bias, def.Shadow.Bias)
}

// Validate reports values no component can accept.
func (c Config) Validate() error {
	switch {
	case c.Window.Width < 0 || c.Window.Height < 0:
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Engine.TickRate < 0:
		return fmt.Errorf("tick_rate must be positive, got %v", c.Engine.TickRate)
	case c.Engine.FrameLimit < 0:
		return fmt.Errorf("frame_limit must not be negative, got %v", c.Engine.FrameLimit)
	case len(c.Renderer.ClearColor) != 3 && len(c.Renderer.ClearColor) != 4:
		return fmt.Errorf("clear_color needs 3 or 4 components, got %d", len(c.Renderer.ClearColor))
	case c.Renderer.LightCount < 0:
		return fmt.Errorf("light_count must be positive, got %d", c.Renderer.LightCount)
	case c.Shadow.Resolution < 0:
		return fmt.Errorf("shadow resolution must be positive, got %d", c.Shadow.Resolution)
	case c.Shadow.Strength < 0 || c.Shadow.Strength > 1:
		return fmt.Errorf("shadow strength must be within [0, 1], got %v", c.Shadow.Strength)
	}
	return nil
}

// Encode writes the settings as TOML.
func (c Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ClearColor returns the renderer clear color.
func (c Config) ClearColor() common.Color {
	cc := c.Renderer.ClearColor
	if len(cc) < 3 {
		return common.Gray
	}
	col := common.RGB(cc[0], cc[1], cc[2])
	if len(cc) > 3 {
		col.A = cc[3]
	}
	return col
}

// WindowOptions converts the [window] table into window builder options.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithWidth(c.Window.Width),
		window.WithHeight(c.Window.Height),
		window.WithVSync(common.ValueOr(c.Window.VSync, true)),
	}
}

// EngineOptions converts the [engine] table into engine builder options.
func (c Config) EngineOptions() []engine.EngineBuilderOption {
	return []engine.EngineBuilderOption{
		engine.WithTickRate(c.Engine.TickRate),
		engine.WithRenderFrameLimit(c.Engine.FrameLimit),
		engine.WithProfiling(c.Engine.Profiling),
	}
}

// RendererOptions converts the [renderer] table into renderer builder options.
// The shadow is attached separately once it has been initialized from ShadowOptions.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	return []renderer.RendererBuilderOption{
		renderer.WithClearColor(c.ClearColor()),
		renderer.WithLightCount(c.Renderer.LightCount),
		renderer.WithBlending(common.ValueOr(c.Renderer.Blending, true)),
	}
}

// ShadowResolution returns the square shadow map size.
func (c Config) ShadowResolution() rendertarget.Resolution {
	return rendertarget.Resolution{Width: c.Shadow.Resolution, Height: c.Shadow.Resolution}
}

// ShadowOptions converts the [shadow] table into shadow builder options.
func (c Config) ShadowOptions() []shadow.ShadowBuilderOption {
	return []shadow.ShadowBuilderOption{
		shadow.WithStrength(c.Shadow.Strength),
		shadow.WithBias(c.Shadow.Bias),
	}
}
