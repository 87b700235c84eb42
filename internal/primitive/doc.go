// Package primitive builds the immutable shapes the animation core draws.
//
// A [Primitive] is a tagged value over five kinds (arrow, box, label, grid
// cell, wave path). Geometry is always in device space; data-space input is
// mapped through a coord.Mapper by the [Builder] before a primitive exists.
// Primitives are never modified after construction. A change of shape is a
// second primitive plus a [Transition] describing how to interpolate from one
// to the other.
package primitive
