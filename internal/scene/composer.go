package scene

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/attnviz/internal/config"
	"github.com/san-kum/attnviz/internal/coord"
	"github.com/san-kum/attnviz/internal/logging"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/primitive"
	"github.com/san-kum/attnviz/internal/render"
	"github.com/san-kum/attnviz/internal/timeline"
)

// Composer collects the steps of a scene. Its play helpers are sticky on
// error: after the first failed submission every later call is a no-op and
// Err reports the failure.
type Composer struct {
	Builder *primitive.Builder
	Palette palette.Palette
	Mapper  *coord.Mapper
	Config  *config.Config

	vp  render.Viewport
	tl  *timeline.Timeline
	log *slog.Logger
	err error
}

// NewComposer prepares a composer that draws onto r. A nil logger discards
// output.
func NewComposer(cfg *config.Config, r timeline.Renderer, log *slog.Logger) (*Composer, error) {
	if log == nil {
		log = logging.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := coord.New(cfg.Axes.X, cfg.Axes.Y)
	if err != nil {
		return nil, err
	}
	tl := timeline.New(r,
		timeline.WithFPS(cfg.Render.FPS),
		timeline.WithDefaultRunTime(cfg.RunTime()),
		timeline.WithLogger(log),
	)
	return &Composer{
		Builder: primitive.NewBuilder(cfg.BuilderOptions()),
		Palette: cfg.Palette,
		Mapper:  m,
		Config:  cfg,
		vp:      cfg.Viewport(),
		tl:      tl,
		log:     log,
	}, nil
}

func (c *Composer) Timeline() *timeline.Timeline { return c.tl }

func (c *Composer) Err() error { return c.err }

func (c *Composer) submit(step timeline.Step) {
	if c.err != nil {
		return
	}
	if err := c.tl.Submit(step); err != nil {
		c.err = fmt.Errorf("step %d: %w", c.tl.Pending(), err)
	}
}

// Play runs actions one after another, each for d. A zero d uses the
// configured run time.
func (c *Composer) Play(d time.Duration, actions ...timeline.Action) {
	c.submit(timeline.Seq(actions...).In(d))
}

// PlayPar runs actions together for d. A zero d uses the configured run
// time.
func (c *Composer) PlayPar(d time.Duration, actions ...timeline.Action) {
	c.submit(timeline.Par(actions...).In(d))
}

// PlayLagged staggers actions: each one starts once the previous has run
// for lag of its duration d.
func (c *Composer) PlayLagged(d time.Duration, lag float64, actions ...timeline.Action) {
	c.submit(timeline.Lagged(lag, actions...).In(d))
}

// Add puts primitives on stage without animating them.
func (c *Composer) Add(ps ...primitive.Primitive) {
	c.submit(timeline.Seq(timeline.Add(ps...)))
}

func (c *Composer) Wait(d time.Duration) {
	c.submit(timeline.Pause(d))
}

// Fail records err unless an earlier error is already recorded.
func (c *Composer) Fail(err error) {
	if c.err == nil && err != nil {
		c.err = err
	}
}

// Frame edges in device units.

func (c *Composer) Left() float64 { return -c.vp.UnitsWide / 2 }

func (c *Composer) Right() float64 { return c.vp.UnitsWide / 2 }

func (c *Composer) Top() float64 { return c.vp.UnitsHigh() / 2 }

func (c *Composer) Bottom() float64 { return -c.vp.UnitsHigh() / 2 }

// Result summarizes a finished render.
type Result struct {
	Scene   string
	Status  timeline.Status
	Steps   int
	Frames  int
	Elapsed time.Duration
	Trace   []timeline.Checkpoint
}

// Render builds s and runs its timeline against r.
func Render(s Scene, cfg *config.Config, r timeline.Renderer, log *slog.Logger) (Result, error) {
	res := Result{Scene: s.Name()}
	c, err := NewComposer(cfg, r, log)
	if err != nil {
		return res, err
	}
	if err := s.Build(c); err != nil {
		return res, fmt.Errorf("scene %s: %w", s.Name(), err)
	}
	if err := c.Err(); err != nil {
		return res, fmt.Errorf("scene %s: %w", s.Name(), err)
	}

	res.Steps = c.tl.Pending()
	c.log.Debug("scene built", "scene", s.Name(), "steps", res.Steps)

	res.Status, err = c.tl.Run()
	res.Frames = c.tl.Frames()
	res.Elapsed = c.tl.Elapsed()
	res.Trace = c.tl.Trace()
	if err != nil {
		return res, fmt.Errorf("scene %s: %w", s.Name(), err)
	}
	return res, nil
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// fs converts a point-style font size to device units.
func fs(size float64) float64 { return size / 100 }
