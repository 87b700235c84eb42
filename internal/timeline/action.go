package timeline

import (
	"fmt"
	"time"

	"github.com/san-kum/attnviz/internal/primitive"
)

// Instant is the Duration of actions that resolve within their first frame
// and take no time on the clock.
const Instant time.Duration = -1

// Action is one animation inside a step. Begin runs once when the action's
// window opens, Update runs every frame with progress alpha in (0, 1], and
// Finish runs once when alpha reaches 1.
//
// Duration 0 means "use the step's run time".
type Action interface {
	Name() string
	Duration() time.Duration
	Begin(s *Stage) error
	Update(s *Stage, alpha float64) error
	Finish(s *Stage) error
}

type base struct {
	name string
	dur  time.Duration
}

func (b base) Name() string { return b.name }

func (b base) Duration() time.Duration { return b.dur }

func (base) Begin(*Stage) error { return nil }

func (base) Update(*Stage, float64) error { return nil }

func (base) Finish(*Stage) error { return nil }

type timed struct {
	Action
	dur time.Duration
}

func (t timed) Duration() time.Duration { return t.dur }

// For overrides the run time of a.
func For(a Action, d time.Duration) Action {
	if t, ok := a.(timed); ok {
		a = t.Action
	}
	return timed{Action: a, dur: d}
}

type add struct {
	base
	ps []primitive.Primitive
}

// Add puts primitives on stage immediately.
func Add(ps ...primitive.Primitive) Action {
	return add{base: base{name: "add", dur: Instant}, ps: ps}
}

func (a add) Begin(s *Stage) error {
	for _, p := range a.ps {
		s.Put(p)
	}
	return nil
}

type remove struct {
	base
	ps []primitive.Primitive
}

// Remove takes primitives off stage immediately.
func Remove(ps ...primitive.Primitive) Action {
	return remove{base: base{name: "remove", dur: Instant}, ps: ps}
}

func (a remove) Begin(s *Stage) error {
	for _, p := range a.ps {
		s.Remove(p.ID())
	}
	return nil
}

type fadeIn struct {
	base
	ps []primitive.Primitive
}

// FadeIn brings primitives on stage from fully transparent.
func FadeIn(ps ...primitive.Primitive) Action {
	return fadeIn{base: base{name: "fade-in"}, ps: ps}
}

func (a fadeIn) Begin(s *Stage) error {
	return a.Update(s, 0)
}

func (a fadeIn) Update(s *Stage, alpha float64) error {
	for _, p := range a.ps {
		s.Put(p.Dimmed(alpha))
	}
	return nil
}

func (a fadeIn) Finish(s *Stage) error {
	return a.Update(s, 1)
}

type fadeOut struct {
	base
	ps  []primitive.Primitive
	cur []primitive.Primitive
}

// FadeOut fades primitives from their current opacity to transparent and
// removes them.
func FadeOut(ps ...primitive.Primitive) Action {
	return &fadeOut{base: base{name: "fade-out"}, ps: ps}
}

func (a *fadeOut) Begin(s *Stage) error {
	a.cur = make([]primitive.Primitive, len(a.ps))
	for i, p := range a.ps {
		cur, ok := s.Get(p.ID())
		if !ok {
			return fmt.Errorf("%w: %s %d", ErrNotOnStage, p.Kind(), p.ID())
		}
		a.cur[i] = cur
	}
	return nil
}

func (a *fadeOut) Update(s *Stage, alpha float64) error {
	for _, p := range a.cur {
		s.Put(p.Dimmed(1 - alpha))
	}
	return nil
}

func (a *fadeOut) Finish(s *Stage) error {
	for _, p := range a.ps {
		s.Remove(p.ID())
	}
	return nil
}

type fadeTo struct {
	base
	p       primitive.Primitive
	opacity float64
	start   float64
}

// FadeTo dims a primitive already on stage to opacity times its own.
// FadeTo(p, 1) restores it.
func FadeTo(p primitive.Primitive, opacity float64) Action {
	return &fadeTo{base: base{name: "fade-to"}, p: p, opacity: opacity}
}

func (a *fadeTo) Begin(s *Stage) error {
	cur, ok := s.Get(a.p.ID())
	if !ok {
		return fmt.Errorf("%w: %s %d", ErrNotOnStage, a.p.Kind(), a.p.ID())
	}
	// resume from whatever dimming is currently applied
	a.start = 1
	if own := a.p.Opacity(); own > 0 {
		a.start = cur.Opacity() / own
	}
	return nil
}

func (a *fadeTo) Update(s *Stage, alpha float64) error {
	s.Put(a.p.Dimmed(a.start + (a.opacity-a.start)*alpha))
	return nil
}

func (a *fadeTo) Finish(s *Stage) error {
	return a.Update(s, 1)
}

type create struct {
	base
	ps []primitive.Primitive
}

// Create draws primitives progressively: arrows grow from the tail, paths
// are traced and filled shapes fade in.
func Create(ps ...primitive.Primitive) Action {
	return create{base: base{name: "create"}, ps: ps}
}

func (a create) Begin(s *Stage) error {
	return a.Update(s, 0)
}

func (a create) Update(s *Stage, alpha float64) error {
	for _, p := range a.ps {
		s.Put(p.Partial(alpha))
	}
	return nil
}

func (a create) Finish(s *Stage) error {
	for _, p := range a.ps {
		s.Put(p)
	}
	return nil
}

type transform struct {
	base
	tr primitive.Transition
}

// Transform morphs old, which must be on stage, into replacement. The
// replacement takes old's draw slot.
func Transform(old, replacement primitive.Primitive) Action {
	return transform{base: base{name: "transform"}, tr: primitive.Transform(old, replacement)}
}

func (a transform) Begin(s *Stage) error {
	if !s.Replace(a.tr.From.ID(), a.tr.At(0)) {
		return fmt.Errorf("%w: %s %d", ErrNotOnStage, a.tr.From.Kind(), a.tr.From.ID())
	}
	return nil
}

func (a transform) Update(s *Stage, alpha float64) error {
	s.Put(a.tr.At(alpha))
	return nil
}

func (a transform) Finish(s *Stage) error {
	s.Put(a.tr.To)
	return nil
}

type wait struct{ base }

// Wait holds the clock for d. A zero d waits for the step's run time.
func Wait(d time.Duration) Action {
	return wait{base{name: "wait", dur: d}}
}

// UpdateFunc is called every frame of a Func action.
type UpdateFunc func(s *Stage, alpha float64) error

type funcAction struct {
	base
	fn UpdateFunc
}

// Func wraps fn as an action of duration d.
func Func(name string, d time.Duration, fn UpdateFunc) Action {
	return funcAction{base: base{name: name, dur: d}, fn: fn}
}

func (a funcAction) Update(s *Stage, alpha float64) error {
	return a.fn(s, alpha)
}

// Call runs fn once, taking no time.
func Call(name string, fn func(s *Stage) error) Action {
	return funcAction{
		base: base{name: name, dur: Instant},
		fn: func(s *Stage, alpha float64) error {
			if alpha < 1 {
				return nil
			}
			return fn(s)
		},
	}
}
