package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/attnviz/internal/coord"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/posenc"
	"github.com/san-kum/attnviz/internal/primitive"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scene != "attention" {
		t.Errorf("expected scene attention, got %s", cfg.Scene)
	}
	if cfg.Render.FPS <= 0 {
		t.Error("fps should be positive")
	}
	if len(cfg.Attention) != 2 {
		t.Errorf("expected 2 attention examples, got %d", len(cfg.Attention))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	q, ok := GetPreset("high")
	if !ok {
		t.Fatal("expected preset")
	}
	if q.Width != 1920 || q.FPS != 60 {
		t.Errorf("unexpected high preset %+v", q)
	}

	if _, ok := GetPreset("nonexistent"); ok {
		t.Error("expected no preset for nonexistent name")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	if presets[0] != "preview" || presets[len(presets)-1] != "high" {
		t.Errorf("presets not ordered by size: %v", presets)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	units := cfg.Render.UnitsWide

	require.NoError(t, cfg.ApplyPreset("low"))
	assert.Equal(t, "low", cfg.Quality)
	assert.Equal(t, 854, cfg.Render.Width)
	assert.Equal(t, 15, cfg.Render.FPS)
	assert.Equal(t, units, cfg.Render.UnitsWide)

	assert.ErrorIs(t, cfg.ApplyPreset("ultra"), ErrInvalidConfig)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attnviz.yaml")
	data := `
scene: pe-heatmap
render:
  fps: 12
positional_encoding:
  seq_len: 20
  dims: [0, 5]
palette:
  query: "#ff0000"
attention:
  - title: custom
    token: bank
    base: [1, 1]
    updates:
      - token: money
        delta: [0.5, 0.5]
        weight: 0.4
        color: "#83c167"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pe-heatmap", cfg.Scene)
	assert.Equal(t, 12, cfg.Render.FPS)
	assert.Equal(t, 1280, cfg.Render.Width, "unset keys keep defaults")
	assert.Equal(t, 20, cfg.PositionalEncoding.SeqLen)
	assert.Equal(t, DefaultDModel, cfg.PositionalEncoding.DModel)
	assert.Equal(t, []int{0, 5}, cfg.PositionalEncoding.Dims)
	assert.Equal(t, palette.MustHex("#ff0000"), cfg.Palette.Query)

	require.Len(t, cfg.Attention, 1)
	ups, err := cfg.Attention[0].AttentionUpdates()
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, "money", ups[0].Token)
	assert.Equal(t, palette.Green, ups[0].Color)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		kind error
	}{
		{"bad axis", "axes:\n  x: {min: 1, max: 1, length: 4}\n", coord.ErrInvalidAxisSpec},
		{"bad shape", "positional_encoding:\n  seq_len: 0\n", posenc.ErrInvalidShape},
		{"bad fps", "render:\n  fps: -1\n", ErrInvalidConfig},
		{"dim out of range", "positional_encoding:\n  dims: [64]\n", ErrInvalidConfig},
		{"negative chip pad", "layout:\n  chip_pad_x: -0.5\n  chip_pad_y: -0.3\n", primitive.ErrInvalidOptions},
		{"zero font size", "layout:\n  font_size: 0\n", primitive.ErrInvalidOptions},
		{"negative stroke", "layout:\n  stroke_width: -1\n", primitive.ErrInvalidOptions},
		{"bad cell size", "layout:\n  cell_size: .inf\n", ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Scene = "analogy"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "analogy", loaded.Scene)
	assert.Equal(t, cfg.Attention[1].Updates[0].Color, loaded.Attention[1].Updates[0].Color)
}

func TestAttentionUpdatesValidate(t *testing.T) {
	ex := AttentionExample{Updates: []UpdateConfig{{Token: "", Weight: 1}}}
	_, err := ex.AttentionUpdates()
	assert.Error(t, err)
}

func TestDerivedSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout.MinArrowLength = 0.5
	cfg.Render.RunTime = 0.25

	assert.Equal(t, 0.5, cfg.BuilderOptions().MinArrowLength)
	assert.Equal(t, int64(250), cfg.RunTime().Milliseconds())
	assert.Equal(t, cfg.Render.Width, cfg.Viewport().Width)
}
