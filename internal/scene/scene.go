// Package scene builds the animated explainers. A Scene submits its steps to
// a Composer, which binds the primitive builder, the palette, the data-space
// mapper and the timeline that a render runs on.
package scene

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownScene = errors.New("scene: unknown scene")

	// ErrEmptyScript indicates a scene whose configuration leaves it nothing
	// to animate.
	ErrEmptyScript = errors.New("scene: nothing to animate")
)

// Scene scripts one animation. Build only submits steps; nothing is drawn
// until the composer's timeline runs.
type Scene interface {
	Name() string
	Build(c *Composer) error
}

type Registry struct {
	scenes map[string]func() Scene
}

// NewRegistry returns a registry holding the built-in scenes.
func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]func() Scene)}

	r.Register("attention", func() Scene { return Attention{} })
	r.Register("pe-heatmap", func() Scene { return PEHeatmap{} })
	r.Register("analogy", func() Scene { return Analogy{} })
	r.Register("tokenization", func() Scene { return DefaultTokenization() })
	r.Register("position-add", func() Scene { return DefaultPositionAdd() })
	r.Register("self-attention", func() Scene { return DefaultSelfAttention() })
	r.Register("pe-vector-add", func() Scene { return DefaultPEVectorAdd() })
	r.Register("embedding-lookup", func() Scene { return DefaultEmbeddingLookup() })

	return r
}

// Register adds or replaces a scene factory.
func (r *Registry) Register(name string, fn func() Scene) {
	r.scenes[name] = fn
}

func (r *Registry) Get(name string) (Scene, error) {
	fn, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	return fn(), nil
}

// List returns the registered scene names in order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
