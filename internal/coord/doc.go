// Package coord maps data-space points onto device space.
//
// A [Mapper] is built from one [AxisSpec] per axis. Each axis domain
// [Min, Max] is mapped linearly onto [-Length/2, +Length/2] and then offset by
// the mapper's origin, so the domain extremes always land on the device
// extremes and ratios along an axis are preserved.
//
//	m, err := coord.New(
//		coord.AxisSpec{Min: -6, Max: 6, Length: 12},
//		coord.AxisSpec{Min: -3.5, Max: 3.5, Length: 7},
//	)
//	tip := m.ToDevice(2.0, 0.6)
//
// Mappers are immutable and safe to share between builders.
package coord
