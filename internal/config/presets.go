package config

import (
	"fmt"
	"sort"
)

// Quality is a named frame size and rate.
type Quality struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

var Presets = map[string]Quality{
	"preview": {Width: 480, Height: 270, FPS: 10},
	"low":     {Width: 854, Height: 480, FPS: 15},
	"medium":  {Width: 1280, Height: 720, FPS: 30},
	"high":    {Width: 1920, Height: 1080, FPS: 60},
}

func GetPreset(name string) (Quality, bool) {
	q, ok := Presets[name]
	return q, ok
}

// ListPresets returns the preset names, smallest frame first.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return Presets[names[i]].Width < Presets[names[j]].Width
	})
	return names
}

// ApplyPreset switches the render settings to the named quality. The
// device extent is left alone, so only the pixel density changes.
func (c *Config) ApplyPreset(name string) error {
	q, ok := GetPreset(name)
	if !ok {
		return fmt.Errorf("%w: unknown quality %q", ErrInvalidConfig, name)
	}
	c.Quality = name
	c.Render.Width = q.Width
	c.Render.Height = q.Height
	c.Render.FPS = q.FPS
	return nil
}
