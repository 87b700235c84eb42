// Package palette maps scalars to colors and carries the named colors that
// scenes are drawn with.
//
// A [Gradient] is an ordered list of at least two [Stop] values. Interpolate
// clamps its input to the gradient domain and blends RGB linearly between the
// two surrounding stops, so the mapping is continuous, exact at every stop and
// never cycles. [Heatmap] is the Blue -> White -> Red gradient over [-1, 1]
// used for positional-encoding grids.
package palette
