package occupancy

import (
	"image"

	"github.com/pkg/errors"

	"github.com/ironsheep/shelf-occupancy/internal/imaging"
)

const (
	// DefaultSlots is the number of slots a shelf image is split into.
	DefaultSlots = 10

	// DefaultThreshold is the mean luma (0-255) at or above which a slot is empty.
	DefaultThreshold = 220
)

var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid occupancy config")

	// ErrImageTooNarrow is returned when the image cannot give every slot at
	// least one pixel.
	ErrImageTooNarrow = errors.New("image too small for slot count")
)

// Config holds the classifier parameters.
type Config struct {
	// Slots is the number of equal-width vertical slots. Must be >= 1.
	Slots int `json:"slots" yaml:"slots"`

	// Threshold is the brightness cutoff on a 0-255 scale. A slot whose mean
	// luma is strictly below Threshold is occupied.
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// DefaultConfig returns 10 slots with a threshold of 220.
func DefaultConfig() Config {
	return Config{
		Slots:     DefaultSlots,
		Threshold: DefaultThreshold,
	}
}

// Validate checks that the slot count is positive and the threshold lies in [0, 255].
func (c Config) Validate() error {
	if c.Slots < 1 {
		return errors.Wrapf(ErrInvalidConfig, "slots must be >= 1, got %d", c.Slots)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return errors.Wrapf(ErrInvalidConfig, "threshold must be within [0, 255], got %g", c.Threshold)
	}
	return nil
}

// Slot is the classification of a single slot.
type Slot struct {
	// Index is the 0-based slot position from the left.
	Index int `json:"index" yaml:"index"`

	// Bounds is the pixel region the slot covers.
	Bounds image.Rectangle `json:"-" yaml:"-"`

	// MeanBrightness is the average luma (0-255) over Bounds.
	MeanBrightness float64 `json:"mean_brightness" yaml:"mean_brightness"`

	Occupied bool `json:"occupied" yaml:"occupied"`
}

// Result is the outcome of classifying one image.
type Result struct {
	TotalSlots int `json:"total_slots" yaml:"total_slots"`
	SlotWidth  int `json:"slot_width" yaml:"slot_width"`

	// Slots holds every slot in ascending index order.
	Slots []Slot `json:"slots" yaml:"slots"`

	// Occupied and Empty hold 0-based slot indices in ascending order.
	Occupied []int `json:"occupied" yaml:"occupied"`
	Empty    []int `json:"empty" yaml:"empty"`
}

// OccupiedCount returns the number of occupied slots.
func (r *Result) OccupiedCount() int { return len(r.Occupied) }

// EmptyCount returns the number of empty slots.
func (r *Result) EmptyCount() int { return len(r.Empty) }

// OccupiedNumbers returns the occupied slots as 1-based numbers.
func (r *Result) OccupiedNumbers() []int { return toNumbers(r.Occupied) }

// EmptyNumbers returns the empty slots as 1-based numbers.
func (r *Result) EmptyNumbers() []int { return toNumbers(r.Empty) }

func toNumbers(indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = idx + 1
	}
	return out
}

// Classify splits gray into cfg.Slots vertical slots and labels each one.
//
// The function is pure: it reads gray and cfg only, and identical inputs always
// produce identical results.
//
// # Errors
//
//   - ErrInvalidConfig if cfg fails Validate
//   - ErrImageTooNarrow if the image is narrower than cfg.Slots or has no rows
func Classify(gray *image.Gray, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	slotWidth := width / cfg.Slots
	if slotWidth == 0 || height == 0 {
		return nil, errors.Wrapf(ErrImageTooNarrow,
			"image is %dx%d, need at least %d columns and 1 row for %d slots",
			width, height, cfg.Slots, cfg.Slots)
	}

	result := &Result{
		TotalSlots: cfg.Slots,
		SlotWidth:  slotWidth,
		Slots:      make([]Slot, 0, cfg.Slots),
		Occupied:   []int{},
		Empty:      []int{},
	}

	for i := 0; i < cfg.Slots; i++ {
		x1 := bounds.Min.X + i*slotWidth
		region := image.Rect(x1, bounds.Min.Y, x1+slotWidth, bounds.Max.Y)

		// slotWidth and height are both positive, so the region is never empty.
		mean, _ := imaging.MeanGray(gray, region)
		occupied := mean < cfg.Threshold

		result.Slots = append(result.Slots, Slot{
			Index:          i,
			Bounds:         region,
			MeanBrightness: mean,
			Occupied:       occupied,
		})
		if occupied {
			result.Occupied = append(result.Occupied, i)
		} else {
			result.Empty = append(result.Empty, i)
		}
	}

	return result, nil
}

// Analyze converts img to luma and classifies it.
func Analyze(img image.Image, cfg Config) (*Result, error) {
	return Classify(imaging.ToGray(img), cfg)
}

// AnalyzeFile loads the image at path and classifies it.
//
// The decoded image is returned alongside the result so callers can render it
// without reading the file twice.
func AnalyzeFile(path string, cfg Config) (*Result, image.Image, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, nil, err
	}

	result, err := Analyze(img, cfg)
	if err != nil {
		return nil, nil, err
	}

	return result, img, nil
}
