// Package posenc generates sinusoidal positional-encoding matrices.
//
// For position p and dimension d of a model with width dModel:
//
//	pair  = d / 2
//	angle = p / base^(2*pair/dModel)
//	PE[p][d] = sin(angle) if d is even, cos(angle) if d is odd
//
// Each sin/cos pair shares one frequency; lower dimensions oscillate fastest.
// An odd dModel is accepted as given: the last column is a sine whose cosine
// partner does not exist.
package posenc
