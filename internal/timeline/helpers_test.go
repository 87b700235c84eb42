package timeline_test

import (
	"errors"
	"time"

	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/timeline"
)

var errBoom = errors.New("boom")

// frameLog records what the timeline draws.
type frameLog struct {
	current []primitive.Primitive
	frames  [][]primitive.Primitive
	dts     []time.Duration

	failDrawAt int // 1-based frame; 0 never fails
}

func (f *frameLog) Draw(p primitive.Primitive) error {
	if f.failDrawAt > 0 && len(f.frames)+1 == f.failDrawAt {
		return errBoom
	}
	f.current = append(f.current, p)
	return nil
}

func (f *frameLog) Advance(dt time.Duration) error {
	f.frames = append(f.frames, f.current)
	f.current = nil
	f.dts = append(f.dts, dt)
	return nil
}

func (f *frameLog) last() []primitive.Primitive {
	if len(f.frames) == 0 {
		return nil
	}
	return f.frames[len(f.frames)-1]
}

func (f *frameLog) total() time.Duration {
	var sum time.Duration
	for _, d := range f.dts {
		sum += d
	}
	return sum
}

func newBuilder() *primitive.Builder {
	return primitive.NewBuilder(primitive.DefaultOptions())
}

func box(b *primitive.Builder, x float64) primitive.Primitive {
	return b.Box(geom.Pt(x, 0), 1, 1, 0, primitive.Stroked(palette.Blue, 0.04))
}

func named(name string, d time.Duration) timeline.Action {
	return timeline.Func(name, d, func(*timeline.Stage, float64) error { return nil })
}

// events returns the trace entries for one action name.
func events(trace []timeline.Checkpoint, action string) []timeline.Checkpoint {
	var out []timeline.Checkpoint
	for _, c := range trace {
		if c.Action == action {
			out = append(out, c)
		}
	}
	return out
}

func indexOf(trace []timeline.Checkpoint, action string, ev timeline.Event) int {
	for i, c := range trace {
		if c.Action == action && c.Event == ev {
			return i
		}
	}
	return -1
}
