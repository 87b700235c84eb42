package palette

import (
	"gopkg.in/yaml.v3"
)

// Palette is the set of named colors a scene draws with. It is passed into
// builders explicitly instead of living in package state.
type Palette struct {
	Token    Color   `yaml:"token"`
	Embed    Color   `yaml:"embed"`
	Arrow    Color   `yaml:"arrow"`
	Vector   Color   `yaml:"vector"`
	Position Color   `yaml:"position"`
	Result   Color   `yaml:"result"`
	Query    Color   `yaml:"query"`
	Key      Color   `yaml:"key"`
	Value    Color   `yaml:"value"`
	Softmax  Color   `yaml:"softmax"`
	Output   Color   `yaml:"output"`
	Base     Color   `yaml:"base"`
	Current  Color   `yaml:"current"`
	Text     Color   `yaml:"text"`
	Muted    Color   `yaml:"muted"`
	Waves    []Color `yaml:"waves"`
}

func DefaultPalette() Palette {
	return Palette{
		Token:    MustHex("#81c784"),
		Embed:    MustHex("#ffb74d"),
		Arrow:    MustHex("#90a4ae"),
		Vector:   MustHex("#64b5f6"),
		Position: MustHex("#ff8a65"),
		Result:   MustHex("#81c784"),
		Query:    MustHex("#81c784"),
		Key:      MustHex("#f8bbd9"),
		Value:    MustHex("#90caf9"),
		Softmax:  MustHex("#fff59d"),
		Output:   MustHex("#ce93d8"),
		Base:     Yellow,
		Current:  Blue,
		Text:     White,
		Muted:    Gray,
		Waves:    []Color{Blue, Green, Yellow, Orange, Purple},
	}
}

// Wave returns the i-th wave color, cycling through the list.
func (p Palette) Wave(i int) Color {
	if len(p.Waves) == 0 {
		return p.Vector
	}
	return p.Waves[i%len(p.Waves)]
}

// MarshalYAML writes the color as a hex string.
func (c Color) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

// UnmarshalYAML reads a hex string such as "#64b5f6".
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := Hex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
