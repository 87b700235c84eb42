// Package geom holds the small value types shared by every layer of the
// animation core:
//
//   - [Point]: a 2D location, in data space or device space
//   - [Vector]: a 2D embedding position with additive updates
//   - [AttentionUpdate]: one weighted contribution of a context token
//
// Data-space and device-space points share the same Go type. They are only
// ever converted through a coord.Mapper, never mixed by arithmetic.
package geom
