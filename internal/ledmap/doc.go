// Package ledmap encodes images into packed bitmaps for LED displays.
//
// Two addressing schemes are supported:
//
//   - Grid: a Resolution x Resolution matrix, row-major, one bit per pixel,
//     MSB-first. A pixel sets its bit when it is brighter than the threshold.
//   - Polar: a spinning persistence-of-vision arm of Resolution LEDs swept
//     through Divisions angular slices. A sample lights its LED when it is
//     darker than the threshold.
//
// # Pipeline
//
// Convert validates Settings, applies the optional tone adjustments,
// letterboxes the source onto a square surface (imaging.Normalize) and runs
// the grid or polar encoder. Grid mode normalizes straight to the output
// resolution; polar mode samples a fixed working surface (600x600 by
// default) so angular precision does not depend on the LED count.
//
// # Polar Layout
//
// The arm crosses the rotation hub. Positions 0..n/2-1 cover the ray at the
// slice angle, ordered from the rim inward; positions n/2..n-1 cover the
// opposite ray, ordered from the hub outward. Each PolarLine carries the lit
// positions twice: as a sparse color list and as packed bits. Both are filled
// from one sampling pass and always agree.
//
// # Determinism
//
// Every function here is pure: identical inputs give byte-identical output
// and the source image is never written. ConvertBatch runs conversions in
// parallel but reports them in submission order.
package ledmap
