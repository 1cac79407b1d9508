package inspect

import (
	"github.com/urfave/cli/v2"

	"github.com/ironsheep/shelf-occupancy/internal/occupancy"
)

// Flags returns the command line flags understood by Action.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "image",
			Aliases:  []string{"i"},
			Usage:    "shelf image to analyze",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "slots",
			Usage: "number of equal-width vertical slots",
			Value: occupancy.DefaultSlots,
		},
		&cli.Float64Flag{
			Name:  "threshold",
			Usage: "mean brightness (0-255) at or above which a slot is empty",
			Value: occupancy.DefaultThreshold,
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "overlay PNG path (default <image>_slots.png)",
		},
		&cli.BoolFlag{
			Name:  "no-overlay",
			Usage: "do not write the overlay image",
		},
		&cli.StringFlag{
			Name:  "occupied-color",
			Usage: "outline color for occupied slots",
			Value: "#008000",
		},
		&cli.StringFlag{
			Name:  "empty-color",
			Usage: "outline color for empty slots",
			Value: "#FF0000",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "summary format: text, json or yaml",
			Value:   FormatText,
		},
	}
}

// Action handles the inspect command.
func Action(c *cli.Context) error {
	opts := Options{
		ImagePath:   c.String("image"),
		OverlayPath: c.String("out"),
		SkipOverlay: c.Bool("no-overlay"),
		Occupancy: occupancy.Config{
			Slots:     c.Int("slots"),
			Threshold: c.Float64("threshold"),
		},
		OccupiedColor: c.String("occupied-color"),
		EmptyColor:    c.String("empty-color"),
		Format:        c.String("format"),
	}

	_, err := Run(opts, c.App.Writer)
	return err
}
