// Package timeline schedules animation steps over a logical clock and feeds
// the resulting frames to a Renderer.
//
// A Timeline accepts steps in order. A Sequential step runs its actions one
// after another; a Parallel step interpolates all of them over one shared
// window and completes when the slowest action completes. Everything runs on
// the caller's goroutine; Parallel only means "drawn in the same frames".
//
// Primitives never change once built. Actions express change by putting
// draw-time snapshots or replacement primitives on the Stage.
package timeline
