// Package render turns stage primitives into frames. Every backend
// implements Draw and Advance, so any of them can drive a timeline:
//
//   - [Raster]: anti-aliased pixels through gogpu/gg, written as PNG
//     sequences or an animated GIF
//   - [SVG]: one SVG document per frame
//   - [Braille]: terminal frames on a braille dot canvas
//   - [Recorder]: an in-memory draw log
//
// Device space has its origin at the frame centre and y pointing up; a
// [Viewport] converts it to pixels.
package render
