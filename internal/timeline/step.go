package timeline

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects how a step's actions share the clock.
type Kind int

const (
	Sequential Kind = iota
	Parallel
)

func (k Kind) String() string {
	if k == Parallel {
		return "parallel"
	}
	return "sequential"
}

// Step is one unit of submission.
type Step struct {
	Kind    Kind
	Actions []Action

	// Duration is the run time of actions whose own Duration is zero. Zero
	// falls back to the timeline's default run time.
	Duration time.Duration

	// Lag staggers a Parallel step: action i opens once action i-1 has run
	// for Lag of its duration. Zero starts everything together.
	Lag float64
}

// Seq runs actions one after another.
func Seq(actions ...Action) Step {
	return Step{Kind: Sequential, Actions: actions}
}

// Par runs actions over the same window.
func Par(actions ...Action) Step {
	return Step{Kind: Parallel, Actions: actions}
}

// Lagged runs actions in parallel, each starting lag of the previous
// action's duration after it.
func Lagged(lag float64, actions ...Action) Step {
	return Step{Kind: Parallel, Actions: actions, Lag: lag}
}

// Pause holds the timeline for d.
func Pause(d time.Duration) Step {
	return Seq(Wait(d))
}

// In returns a copy of s with the given run time.
func (s Step) In(d time.Duration) Step {
	s.Duration = d
	return s
}

func (s Step) validate() error {
	if len(s.Actions) == 0 {
		return ErrEmptyStep
	}
	for i, a := range s.Actions {
		if a == nil {
			return fmt.Errorf("%w: action %d is nil", ErrEmptyStep, i)
		}
	}
	if s.Duration < 0 || s.Lag < 0 {
		return fmt.Errorf("%w: negative duration or lag", ErrEmptyStep)
	}
	return nil
}

func (s Step) String() string {
	names := make([]string, len(s.Actions))
	for i, a := range s.Actions {
		names[i] = a.Name()
	}
	return fmt.Sprintf("%s(%s)", s.Kind, strings.Join(names, ", "))
}

// slot is an action placed on the step's local clock.
type slot struct {
	action     Action
	start, end time.Duration
	begun      bool
	done       bool
}

// schedule lays out the step's actions relative to its start and returns the
// step length.
func (s Step) schedule(runTime time.Duration) ([]*slot, time.Duration) {
	if s.Duration > 0 {
		runTime = s.Duration
	}
	slots := make([]*slot, len(s.Actions))
	var cursor, total time.Duration
	for i, a := range s.Actions {
		d := a.Duration()
		switch {
		case d == Instant:
			d = 0
		case d <= 0:
			d = runTime
		}

		start := cursor
		if s.Kind == Parallel {
			start = 0
			if i > 0 {
				prev := slots[i-1]
				start = prev.start + time.Duration(s.Lag*float64(prev.end-prev.start))
			}
		}
		slots[i] = &slot{action: a, start: start, end: start + d}
		cursor = start + d
		total = max(total, start+d)
	}
	return slots, total
}
