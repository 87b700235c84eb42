package timeline

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/attnviz/internal/logging"
	"github.com/san-kum/attnviz/internal/primitive"
)

// Renderer is the rendering collaborator. Draw is called for every primitive
// on stage, in draw order, once per frame; Advance then closes the frame.
type Renderer interface {
	Draw(p primitive.Primitive) error
	Advance(dt time.Duration) error
}

const (
	DefaultFPS     = 30
	DefaultRunTime = time.Second
)

// Event marks a point in an action's life.
type Event int

const (
	EventStart Event = iota
	EventResolve
	// EventStepComplete is recorded once per step, after all its actions
	// resolved. Its Action is empty.
	EventStepComplete
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventResolve:
		return "resolve"
	case EventStepComplete:
		return "complete"
	}
	return "unknown"
}

// Checkpoint is one trace entry, stamped with logical time.
type Checkpoint struct {
	Step   int
	Action string
	Event  Event
	At     time.Duration
}

type Option func(*Timeline)

func WithFPS(fps int) Option {
	return func(t *Timeline) {
		if fps > 0 {
			t.fps = fps
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Timeline) {
		if l != nil {
			t.log = l
		}
	}
}

// WithDefaultRunTime sets the run time of steps that do not set one.
func WithDefaultRunTime(d time.Duration) Option {
	return func(t *Timeline) {
		if d > 0 {
			t.runTime = d
		}
	}
}

// Timeline executes submitted steps in order on a logical clock. It is not
// safe for concurrent use.
type Timeline struct {
	r       Renderer
	log     *slog.Logger
	fps     int
	runTime time.Duration
	stage   *Stage

	status Status
	steps  []Step
	next   int
	clock  time.Duration
	frames int
	trace  []Checkpoint
	err    error
}

func New(r Renderer, opts ...Option) *Timeline {
	t := &Timeline{
		r:       r,
		log:     logging.NewNop(),
		fps:     DefaultFPS,
		runTime: DefaultRunTime,
		stage:   NewStage(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Timeline) Status() Status { return t.status }

func (t *Timeline) Stage() *Stage { return t.stage }

// Elapsed is the logical time consumed so far.
func (t *Timeline) Elapsed() time.Duration { return t.clock }

// Frames is the number of frames handed to the renderer.
func (t *Timeline) Frames() int { return t.frames }

// Err returns the failure that moved the timeline to Failed.
func (t *Timeline) Err() error { return t.err }

// Trace returns the checkpoints recorded so far.
func (t *Timeline) Trace() []Checkpoint {
	out := make([]Checkpoint, len(t.trace))
	copy(out, t.trace)
	return out
}

// Pending is the number of submitted steps that have not run.
func (t *Timeline) Pending() int { return len(t.steps) - t.next }

// Submit queues step. The first submission moves an idle timeline to
// Running. Steps may also be submitted from inside a running action; they
// run after the steps already queued.
func (t *Timeline) Submit(step Step) error {
	if t.status.Terminal() {
		return fmt.Errorf("%w: status %s", ErrTimelineClosed, t.status)
	}
	if err := step.validate(); err != nil {
		return err
	}
	t.steps = append(t.steps, step)
	if t.status == Idle {
		t.status = Running
	}
	return nil
}

// Run executes queued steps until none remain and returns the final status.
// A failure leaves the stage as it was when the failing action stopped.
func (t *Timeline) Run() (Status, error) {
	if t.status.Terminal() {
		return t.status, fmt.Errorf("%w: status %s", ErrTimelineClosed, t.status)
	}

	for t.next < len(t.steps) {
		idx := t.next
		t.next++
		if err := t.runStep(idx, t.steps[idx]); err != nil {
			t.status = Failed
			t.err = err
			t.log.Error("timeline failed", "step", idx, "error", err)
			return t.status, err
		}
	}

	t.status = Complete
	t.log.Debug("timeline complete", "steps", len(t.steps), "frames", t.frames, "elapsed", t.clock)
	return t.status, nil
}

func (t *Timeline) runStep(idx int, step Step) error {
	slots, total := step.schedule(t.runTime)
	t.log.Debug("step start", "step", idx, "kind", step.Kind, "actions", len(slots), "duration", total)

	start := t.clock

	// instant-only steps resolve without drawing a frame
	if total == 0 {
		if err := t.tick(idx, slots, start, 0); err != nil {
			return err
		}
	}

	n := t.frameCount(total)
	var prev time.Duration
	for k := 1; k <= n; k++ {
		local := time.Duration(int64(total) * int64(k) / int64(n))
		if err := t.tick(idx, slots, start, local); err != nil {
			return err
		}
		if err := t.draw(idx, local-prev); err != nil {
			return err
		}
		prev = local
		t.clock = start + local
	}

	t.clock = start + total
	t.record(idx, "", EventStepComplete, t.clock)
	t.log.Debug("step complete", "step", idx, "at", t.clock)
	return nil
}

// frameCount spreads d over whole frames at the configured rate.
func (t *Timeline) frameCount(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return max(int(math.Ceil(d.Seconds()*float64(t.fps)-1e-9)), 1)
}

// tick advances every open action to local time tau.
func (t *Timeline) tick(idx int, slots []*slot, start, tau time.Duration) error {
	for _, s := range slots {
		if s.done || tau < s.start {
			continue
		}
		a := s.action
		if !s.begun {
			s.begun = true
			t.record(idx, a.Name(), EventStart, start+s.start)
			if err := a.Begin(t.stage); err != nil {
				return &ActionError{Step: idx, Action: a.Name(), Err: err}
			}
		}

		alpha := 1.0
		if span := s.end - s.start; span > 0 {
			alpha = min(float64(tau-s.start)/float64(span), 1)
		}
		if err := a.Update(t.stage, alpha); err != nil {
			return &ActionError{Step: idx, Action: a.Name(), Err: err}
		}

		if tau >= s.end {
			if err := a.Finish(t.stage); err != nil {
				return &ActionError{Step: idx, Action: a.Name(), Err: err}
			}
			s.done = true
			t.record(idx, a.Name(), EventResolve, start+s.end)
		}
	}
	return nil
}

func (t *Timeline) draw(idx int, dt time.Duration) error {
	for _, p := range t.stage.Primitives() {
		if err := t.r.Draw(p); err != nil {
			return &ActionError{Step: idx, Action: "draw", Err: err}
		}
	}
	if err := t.r.Advance(dt); err != nil {
		return &ActionError{Step: idx, Action: "advance", Err: err}
	}
	t.frames++
	return nil
}

func (t *Timeline) record(step int, action string, ev Event, at time.Duration) {
	t.trace = append(t.trace, Checkpoint{Step: step, Action: action, Event: ev, At: at})
}
