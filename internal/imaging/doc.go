// Package imaging provides the image handling used by shelf occupancy analysis.
//
// This package loads shelf photographs from disk, reduces them to single-channel
// luma, computes brightness statistics over rectangular regions, and renders
// annotated slot overlays for visual inspection. All operations work with
// standard Go image.Image types and use a coordinate system where (0,0) is at
// the top-left corner, X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left) and Max is exclusive (bottom-right)
//
// # Grayscale Conversion
//
// Color images are converted with the ITU-R BT.601 luma weights
// (0.299*R + 0.587*G + 0.114*B), rounded to the nearest 8-bit value. This is
// the conventional perceptual grayscale used by most image libraries.
//
// # Caching
//
// Images are never cached. Every Load call reads and decodes the file again,
// so results always reflect what is on disk at the time of the call.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - File I/O errors during image loading
//   - Undecodable or unsupported image data
//   - Invalid overlay color specifications
package imaging
