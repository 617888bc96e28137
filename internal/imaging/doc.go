// Package imaging provides the image-side plumbing for LED bitmap conversion.
//
// It loads and caches source images, letterboxes them onto a square working
// surface, applies optional tone adjustments, and exposes the per-pixel color
// and luminance helpers the encoders sample with. All operations work with
// standard Go image.Image types and use a coordinate system where (0,0) is the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Normalization
//
// Normalize paints a white square of the requested side, scales the source by
// min(S/width, S/height) and centers it. Nothing is cropped: the area outside
// the scaled image keeps the background color exactly.
//
// # Luminance
//
// Luminance uses ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B) on 8-bit
// components, giving a value in [0, 255].
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless and never mutates its input image.
package imaging
