// Package config holds the yaml configuration of a render: output settings,
// layout constants, positional-encoding parameters, the colour palette and
// the attention examples that script the attention scene.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/attnviz/internal/coord"
	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/posenc"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/render"
)

const (
	DefaultScene     = "attention"
	DefaultQuality   = "medium"
	DefaultBackend   = render.BackendPNG
	DefaultOutDir    = "renders"
	DefaultRunTime   = 1.0
	DefaultSeqLen    = 48
	DefaultDModel    = 64
	DefaultCellSize  = 0.085
	DefaultChunkSize = 2
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Scene              string             `yaml:"scene"`
	Quality            string             `yaml:"quality"`
	Render             RenderConfig       `yaml:"render"`
	Layout             LayoutConfig       `yaml:"layout"`
	Axes               AxesConfig         `yaml:"axes"`
	PositionalEncoding PEConfig           `yaml:"positional_encoding"`
	Palette            palette.Palette    `yaml:"palette"`
	Attention          []AttentionExample `yaml:"attention"`
}

type RenderConfig struct {
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	FPS        int           `yaml:"fps"`
	UnitsWide  float64       `yaml:"units_wide"`
	Background palette.Color `yaml:"background"`
	Backend    string        `yaml:"backend"`
	OutDir     string        `yaml:"out_dir"`
	RunTime    float64       `yaml:"run_time"`
}

type LayoutConfig struct {
	MinArrowLength float64 `yaml:"min_arrow_length"`
	TipLength      float64 `yaml:"tip_length"`
	TipRatio       float64 `yaml:"tip_ratio"`
	ChipPadX       float64 `yaml:"chip_pad_x"`
	ChipPadY       float64 `yaml:"chip_pad_y"`
	ChipRadius     float64 `yaml:"chip_radius"`
	FontSize       float64 `yaml:"font_size"`
	LabelBuff      float64 `yaml:"label_buff"`
	StrokeWidth    float64 `yaml:"stroke_width"`
	CellSize       float64 `yaml:"cell_size"`
}

type AxesConfig struct {
	X coord.AxisSpec `yaml:"x"`
	Y coord.AxisSpec `yaml:"y"`
}

type PEConfig struct {
	SeqLen int     `yaml:"seq_len"`
	DModel int     `yaml:"d_model"`
	Base   float64 `yaml:"base"`

	// Dims are the encoding dimensions drawn as waves before the heatmap
	// fill.
	Dims []int `yaml:"dims"`

	// ChunkSize is the number of columns revealed per step of the final fill.
	ChunkSize int `yaml:"chunk_size"`
}

// AttentionExample scripts one pass of the attention scene: a token vector
// shifted by weighted updates from the context tokens around it.
type AttentionExample struct {
	Title    string         `yaml:"title"`
	Sentence string         `yaml:"sentence"`
	Token    string         `yaml:"token"`
	Base     [2]float64     `yaml:"base"`
	Anchor   [2]float64     `yaml:"anchor"`
	Updates  []UpdateConfig `yaml:"updates"`
}

type UpdateConfig struct {
	Token  string        `yaml:"token"`
	Delta  [2]float64    `yaml:"delta"`
	Weight float64       `yaml:"weight"`
	Color  palette.Color `yaml:"color"`
}

// BankExamples are the two readings of "bank" used by default.
func BankExamples() []AttentionExample {
	return []AttentionExample{
		{
			Title:    "Attention (example 1)",
			Sentence: "He sat on the river bank.",
			Token:    "bank",
			Base:     [2]float64{2.0, 0.6},
			Anchor:   [2]float64{-3.8, -2.8},
			Updates: []UpdateConfig{
				{Token: "river", Delta: [2]float64{-1.2, 1.3}, Weight: 0.75, Color: palette.Teal},
				{Token: "sat", Delta: [2]float64{-0.6, 0.2}, Weight: 0.55, Color: palette.Green},
			},
		},
		{
			Title:    "Attention (example 2)",
			Sentence: "He deposited cash at the bank.",
			Token:    "bank",
			Base:     [2]float64{2.0, 0.6},
			Anchor:   [2]float64{-3.8, -2.8},
			Updates: []UpdateConfig{
				{Token: "cash", Delta: [2]float64{1.4, 0.6}, Weight: 0.70, Color: palette.Orange},
				{Token: "deposited", Delta: [2]float64{0.8, 1.0}, Weight: 0.60, Color: palette.Red},
			},
		},
	}
}

// DefaultWaveDims runs from the fastest sin/cos pair to the slowest of a
// 64-wide encoding.
func DefaultWaveDims() []int {
	return []int{0, 1, 2, 3, 4, 5, 6, 7, 10, 11, 14, 15, 20, 21, 26, 27, 30, 31, 40, 41, 50, 51, 62, 63}
}

func DefaultConfig() *Config {
	vp := render.DefaultViewport()
	opts := primitive.DefaultOptions()
	return &Config{
		Scene:   DefaultScene,
		Quality: DefaultQuality,
		Render: RenderConfig{
			Width:      vp.Width,
			Height:     vp.Height,
			FPS:        30,
			UnitsWide:  vp.UnitsWide,
			Background: vp.Background,
			Backend:    DefaultBackend,
			OutDir:     DefaultOutDir,
			RunTime:    DefaultRunTime,
		},
		Layout: LayoutConfig{
			MinArrowLength: opts.MinArrowLength,
			TipLength:      opts.TipLength,
			TipRatio:       opts.TipRatio,
			ChipPadX:       opts.ChipPadX,
			ChipPadY:       opts.ChipPadY,
			ChipRadius:     opts.ChipRadius,
			FontSize:       opts.FontSize,
			LabelBuff:      opts.LabelBuff,
			StrokeWidth:    opts.StrokeWidth,
			CellSize:       DefaultCellSize,
		},
		Axes: AxesConfig{
			X: coord.AxisSpec{Min: -6, Max: 6, Length: 12},
			Y: coord.AxisSpec{Min: -3.5, Max: 3.5, Length: 7},
		},
		PositionalEncoding: PEConfig{
			SeqLen:    DefaultSeqLen,
			DModel:    DefaultDModel,
			Base:      posenc.DefaultBase,
			Dims:      DefaultWaveDims(),
			ChunkSize: DefaultChunkSize,
		},
		Palette:   palette.DefaultPalette(),
		Attention: BankExamples(),
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything a render needs before any scene is built.
func (c *Config) Validate() error {
	if err := c.Viewport().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Render.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.Render.FPS)
	}
	if c.Render.RunTime <= 0 {
		return fmt.Errorf("%w: run time %g", ErrInvalidConfig, c.Render.RunTime)
	}
	if _, err := coord.New(c.Axes.X, c.Axes.Y); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	pe := c.PositionalEncoding
	if pe.SeqLen <= 0 || pe.DModel <= 0 {
		return fmt.Errorf("%w: %w: %dx%d", ErrInvalidConfig, posenc.ErrInvalidShape, pe.SeqLen, pe.DModel)
	}
	for _, d := range pe.Dims {
		if d < 0 || d >= pe.DModel {
			return fmt.Errorf("%w: wave dim %d outside d_model %d", ErrInvalidConfig, d, pe.DModel)
		}
	}
	if err := c.BuilderOptions().Validate(); err != nil {
		return fmt.Errorf("%w: layout: %w", ErrInvalidConfig, err)
	}
	if !(c.Layout.CellSize > 0) || math.IsInf(c.Layout.CellSize, 0) {
		return fmt.Errorf("%w: cell size %g", ErrInvalidConfig, c.Layout.CellSize)
	}
	for i, ex := range c.Attention {
		if _, err := ex.AttentionUpdates(); err != nil {
			return fmt.Errorf("%w: attention example %d: %w", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

// Viewport returns the render frame.
func (c *Config) Viewport() render.Viewport {
	return render.Viewport{
		Width:      c.Render.Width,
		Height:     c.Render.Height,
		UnitsWide:  c.Render.UnitsWide,
		Background: c.Render.Background,
	}
}

// BuilderOptions returns the primitive layout options.
func (c *Config) BuilderOptions() primitive.Options {
	opts := primitive.DefaultOptions()
	opts.MinArrowLength = c.Layout.MinArrowLength
	opts.TipLength = c.Layout.TipLength
	opts.TipRatio = c.Layout.TipRatio
	opts.ChipPadX = c.Layout.ChipPadX
	opts.ChipPadY = c.Layout.ChipPadY
	opts.ChipRadius = c.Layout.ChipRadius
	opts.FontSize = c.Layout.FontSize
	opts.LabelBuff = c.Layout.LabelBuff
	opts.StrokeWidth = c.Layout.StrokeWidth
	return opts
}

// RunTime is the default step duration.
func (c *Config) RunTime() time.Duration {
	return time.Duration(c.Render.RunTime * float64(time.Second))
}

// BaseVector is the token's starting position.
func (e AttentionExample) BaseVector() geom.Vector {
	return geom.Vec(e.Base[0], e.Base[1])
}

// AttentionUpdates converts and validates the scripted updates.
func (e AttentionExample) AttentionUpdates() ([]geom.AttentionUpdate, error) {
	out := make([]geom.AttentionUpdate, len(e.Updates))
	for i, u := range e.Updates {
		out[i] = geom.AttentionUpdate{
			Token:  u.Token,
			Delta:  geom.Vec(u.Delta[0], u.Delta[1]),
			Weight: u.Weight,
			Color:  u.Color,
		}
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("update %d: %w", i, err)
		}
	}
	return out, nil
}
