package render

import (
	"time"

	"github.com/san-kum/attnviz/internal/primitive"
)

// Frame is one recorded frame.
type Frame struct {
	Primitives []primitive.Primitive
	DT         time.Duration
}

// Recorder keeps every drawn primitive, grouped by frame.
type Recorder struct {
	frames  []Frame
	pending []primitive.Primitive
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Draw(p primitive.Primitive) error {
	r.pending = append(r.pending, p)
	return nil
}

func (r *Recorder) Advance(dt time.Duration) error {
	r.frames = append(r.frames, Frame{Primitives: r.pending, DT: dt})
	r.pending = nil
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Frames() []Frame { return r.frames }

func (r *Recorder) Len() int { return len(r.frames) }

// Last returns the final frame, or an empty one.
func (r *Recorder) Last() Frame {
	if len(r.frames) == 0 {
		return Frame{}
	}
	return r.frames[len(r.frames)-1]
}

// Duration sums the frame times.
func (r *Recorder) Duration() time.Duration {
	var d time.Duration
	for _, f := range r.frames {
		d += f.DT
	}
	return d
}

// Count returns how many primitives of kind k the frame holds.
func (f Frame) Count(k primitive.Kind) int {
	n := 0
	for _, p := range f.Primitives {
		if p.Kind() == k {
			n++
		}
	}
	return n
}
