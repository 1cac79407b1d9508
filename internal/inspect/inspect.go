// Package inspect runs the slot classifier on a single image for manual review.
//
// It prints a summary of the classification and writes a copy of the image
// with every slot outlined (occupied and empty in different colors) and the
// occupied slots labeled "Slot <n>".
package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/shelf-occupancy/internal/imaging"
	"github.com/ironsheep/shelf-occupancy/internal/occupancy"
)

// Output formats understood by Run.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options configures one inspection run.
type Options struct {
	// ImagePath is the shelf photograph to analyze. Required.
	ImagePath string

	// OverlayPath is where the annotated PNG goes. Empty means
	// DefaultOverlayPath(ImagePath).
	OverlayPath string

	// SkipOverlay disables writing the annotated image.
	SkipOverlay bool

	Occupancy occupancy.Config

	// OccupiedColor and EmptyColor are hex colors; empty keeps the defaults.
	OccupiedColor string
	EmptyColor    string

	// Format is text, json or yaml. Empty means text.
	Format string
}

// SlotReport describes one slot with its 1-based number.
type SlotReport struct {
	Number         int     `json:"number" yaml:"number"`
	MeanBrightness float64 `json:"mean_brightness" yaml:"mean_brightness"`
	Occupied       bool    `json:"occupied" yaml:"occupied"`
}

// Report is the printed outcome of a run.
type Report struct {
	Image               imaging.ImageInfo `json:"image" yaml:"image"`
	TotalSlots          int               `json:"total_slots" yaml:"total_slots"`
	SlotWidth           int               `json:"slot_width" yaml:"slot_width"`
	Threshold           float64           `json:"threshold" yaml:"threshold"`
	OccupiedSlots       int               `json:"occupied_slots" yaml:"occupied_slots"`
	EmptySlots          int               `json:"empty_slots" yaml:"empty_slots"`
	OccupiedSlotNumbers []int             `json:"occupied_slot_numbers" yaml:"occupied_slot_numbers"`
	EmptySlotNumbers    []int             `json:"empty_slot_numbers" yaml:"empty_slot_numbers"`
	Slots               []SlotReport      `json:"slots" yaml:"slots"`
	OverlayPath         string            `json:"overlay_path,omitempty" yaml:"overlay_path,omitempty"`
}

// DefaultOverlayPath returns "<dir>/<stem>_slots.png" for an input image path.
func DefaultOverlayPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + "_slots.png"
}

// Run analyzes opts.ImagePath, writes the overlay and prints the report to w.
func Run(opts Options, w io.Writer) (*Report, error) {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = FormatText
	}
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("unknown format %q (want text, json or yaml)", opts.Format)
	}

	style, err := overlayStyle(opts)
	if err != nil {
		return nil, err
	}

	if opts.ImagePath == "" {
		return nil, fmt.Errorf("image path required")
	}
	if !imaging.FileExists(opts.ImagePath) {
		return nil, fmt.Errorf("image not found: %s", opts.ImagePath)
	}

	result, img, err := occupancy.AnalyzeFile(opts.ImagePath, opts.Occupancy)
	if err != nil {
		return nil, err
	}

	info, err := imaging.Describe(opts.ImagePath, img)
	if err != nil {
		return nil, err
	}

	report := newReport(info, result, opts.Occupancy.Threshold)

	if !opts.SkipOverlay {
		out := opts.OverlayPath
		if out == "" {
			out = DefaultOverlayPath(opts.ImagePath)
		}
		overlay := imaging.DrawOverlay(img, Boxes(result), style)
		if err := imgio.Save(out, overlay, imgio.PNGEncoder()); err != nil {
			return nil, fmt.Errorf("failed to write overlay: %w", err)
		}
		report.OverlayPath = out
	}

	if err := write(w, report, format); err != nil {
		return nil, err
	}
	return report, nil
}

// Boxes turns a classification into overlay boxes. Occupied slots are labeled
// with their 1-based number.
func Boxes(result *occupancy.Result) []imaging.OverlayBox {
	boxes := make([]imaging.OverlayBox, 0, len(result.Slots))
	for _, slot := range result.Slots {
		box := imaging.OverlayBox{
			Rect:     slot.Bounds,
			Occupied: slot.Occupied,
		}
		if slot.Occupied {
			box.Label = fmt.Sprintf("Slot %d", slot.Index+1)
		}
		boxes = append(boxes, box)
	}
	return boxes
}

func overlayStyle(opts Options) (imaging.OverlayStyle, error) {
	style := imaging.DefaultOverlayStyle()
	if opts.OccupiedColor != "" {
		c, err := imaging.ParseColor(opts.OccupiedColor)
		if err != nil {
			return style, fmt.Errorf("occupied color: %w", err)
		}
		style.OccupiedColor = c
	}
	if opts.EmptyColor != "" {
		c, err := imaging.ParseColor(opts.EmptyColor)
		if err != nil {
			return style, fmt.Errorf("empty color: %w", err)
		}
		style.EmptyColor = c
	}
	return style, nil
}

func newReport(info *imaging.ImageInfo, result *occupancy.Result, threshold float64) *Report {
	slots := make([]SlotReport, 0, len(result.Slots))
	for _, s := range result.Slots {
		slots = append(slots, SlotReport{
			Number:         s.Index + 1,
			MeanBrightness: s.MeanBrightness,
			Occupied:       s.Occupied,
		})
	}

	return &Report{
		Image:               *info,
		TotalSlots:          result.TotalSlots,
		SlotWidth:           result.SlotWidth,
		Threshold:           threshold,
		OccupiedSlots:       result.OccupiedCount(),
		EmptySlots:          result.EmptyCount(),
		OccupiedSlotNumbers: result.OccupiedNumbers(),
		EmptySlotNumbers:    result.EmptyNumbers(),
		Slots:               slots,
	}
}

func write(w io.Writer, r *Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Image size: %dx%d\n", r.Image.Width, r.Image.Height)
	fmt.Fprintf(&b, "Slot width: %d\n", r.SlotWidth)
	for _, s := range r.Slots {
		state := "empty"
		if s.Occupied {
			state = "occupied"
		}
		fmt.Fprintf(&b, "  Slot %2d  mean %6.2f  %s\n", s.Number, s.MeanBrightness, state)
	}
	fmt.Fprintf(&b, "Total slots: %d\n", r.TotalSlots)
	fmt.Fprintf(&b, "Occupied slots: %d\n", r.OccupiedSlots)
	fmt.Fprintf(&b, "Empty slots: %d\n", r.EmptySlots)
	fmt.Fprintf(&b, "Occupied slot numbers: %v\n", r.OccupiedSlotNumbers)
	fmt.Fprintf(&b, "Empty slot numbers: %v\n", r.EmptySlotNumbers)
	if r.OverlayPath != "" {
		fmt.Fprintf(&b, "Overlay: %s\n", r.OverlayPath)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
