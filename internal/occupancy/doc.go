// Package occupancy classifies shelf slots as occupied or empty.
//
// A shelf photograph is split into N equal-width vertical slots. Each slot's
// mean luma is compared with a brightness threshold: darker slots hold product
// (occupied), brighter ones show bare shelf (empty).
//
// # Slot Geometry
//
// Slot width is floor(W / N). Slot i covers columns [i*w, (i+1)*w) over every
// row. The W mod N rightmost columns are never sampled and belong to no slot.
//
// # Indexing
//
// Slot indices are 0-based everywhere in this package. Result.OccupiedNumbers
// and Result.EmptyNumbers convert to the 1-based numbering used in API
// responses and on-screen labels.
//
// # Degenerate Images
//
// An image narrower than the slot count (or with no rows) would produce slots
// with no pixels. Classify rejects such images with ErrImageTooNarrow instead of
// averaging over nothing.
package occupancy
