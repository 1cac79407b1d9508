package occupancy

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solidGray returns a width x height gray image filled with v.
func solidGray(width, height int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, width, height))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

// gradientGray returns an image whose column x has luma x*255/(width-1).
func gradientGray(width, height int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.SetGray(x, y, color.Gray{Y: uint8(x * 255 / (width - 1))})
		}
	}
	return g
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10, cfg.Slots)
	assert.Equal(t, 220.0, cfg.Threshold)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"one slot", Config{Slots: 1, Threshold: 0}, false},
		{"max threshold", Config{Slots: 3, Threshold: 255}, false},
		{"zero slots", Config{Slots: 0, Threshold: 220}, true},
		{"negative slots", Config{Slots: -2, Threshold: 220}, true},
		{"negative threshold", Config{Slots: 10, Threshold: -1}, true},
		{"threshold too high", Config{Slots: 10, Threshold: 256}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClassify_AllBlack(t *testing.T) {
	result, err := Classify(solidGray(100, 50, 0), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 10, result.TotalSlots)
	assert.Equal(t, 10, result.SlotWidth)
	assert.Equal(t, 10, result.OccupiedCount())
	assert.Equal(t, 0, result.EmptyCount())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, result.OccupiedNumbers())
	assert.Equal(t, []int{}, result.EmptyNumbers())
}

func TestClassify_AllWhite(t *testing.T) {
	result, err := Classify(solidGray(100, 50, 255), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 0, result.OccupiedCount())
	assert.Equal(t, 10, result.EmptyCount())
	assert.Equal(t, []int{}, result.OccupiedNumbers())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, result.EmptyNumbers())
}

func TestClassify_TrailingColumnsIgnored(t *testing.T) {
	g := solidGray(105, 50, 255)
	for y := 0; y < 50; y++ {
		for x := 100; x < 105; x++ {
			g.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	result, err := Classify(g, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 10, result.SlotWidth)
	assert.Equal(t, []int{}, result.Occupied)
	assert.Contains(t, result.EmptyNumbers(), 10)
	assert.Equal(t, image.Rect(90, 0, 100, 50), result.Slots[9].Bounds)
	assert.Equal(t, 255.0, result.Slots[9].MeanBrightness)
}

func TestClassify_ThresholdTieIsEmpty(t *testing.T) {
	result, err := Classify(solidGray(20, 4, 220), Config{Slots: 2, Threshold: 220})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, result.Empty)

	result, err = Classify(solidGray(20, 4, 219), Config{Slots: 2, Threshold: 220})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, result.Occupied)
}

func TestClassify_MixedSlots(t *testing.T) {
	// Slots 0, 2 and 4 dark; 1 and 3 bright.
	g := solidGray(50, 10, 255)
	for _, slot := range []int{0, 2, 4} {
		for y := 0; y < 10; y++ {
			for x := slot * 10; x < slot*10+10; x++ {
				g.SetGray(x, y, color.Gray{Y: 30})
			}
		}
	}

	result, err := Classify(g, Config{Slots: 5, Threshold: 220})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 4}, result.Occupied)
	assert.Equal(t, []int{1, 3}, result.Empty)
	assert.Equal(t, []int{1, 3, 5}, result.OccupiedNumbers())
	assert.Equal(t, []int{2, 4}, result.EmptyNumbers())
	assert.InDelta(t, 30.0, result.Slots[2].MeanBrightness, 1e-9)
}

func TestClassify_MeanAcrossSlot(t *testing.T) {
	// Half the columns of the only slot are 0, half 255: mean 127.5 < 220.
	g := solidGray(4, 2, 255)
	g.SetGray(0, 0, color.Gray{})
	g.SetGray(1, 0, color.Gray{})
	g.SetGray(0, 1, color.Gray{})
	g.SetGray(1, 1, color.Gray{})

	result, err := Classify(g, Config{Slots: 1, Threshold: 220})
	require.NoError(t, err)
	assert.InDelta(t, 127.5, result.Slots[0].MeanBrightness, 1e-9)
	assert.True(t, result.Slots[0].Occupied)
}

func TestClassify_NonZeroOrigin(t *testing.T) {
	g := image.NewGray(image.Rect(7, 3, 27, 8))
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	for y := 3; y < 8; y++ {
		for x := 7; x < 17; x++ {
			g.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	result, err := Classify(g, Config{Slots: 2, Threshold: 220})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, result.Occupied)
	assert.Equal(t, []int{1}, result.Empty)
	assert.Equal(t, image.Rect(17, 3, 27, 8), result.Slots[1].Bounds)
}

func TestClassify_TooNarrow(t *testing.T) {
	_, err := Classify(solidGray(9, 50, 0), DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrImageTooNarrow))
	assert.Contains(t, err.Error(), "9x50")
}

func TestClassify_NoRows(t *testing.T) {
	_, err := Classify(image.NewGray(image.Rect(0, 0, 100, 0)), DefaultConfig())
	assert.True(t, errors.Is(err, ErrImageTooNarrow))
}

func TestClassify_InvalidConfig(t *testing.T) {
	_, err := Classify(solidGray(100, 50, 0), Config{Slots: 0, Threshold: 220})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestClassify_Partition(t *testing.T) {
	g := gradientGray(257, 7)

	for slots := 1; slots <= 257; slots += 16 {
		result, err := Classify(g, Config{Slots: slots, Threshold: 128})
		require.NoError(t, err)

		seen := make(map[int]bool)
		for _, n := range append(result.OccupiedNumbers(), result.EmptyNumbers()...) {
			require.False(t, seen[n], "slot %d listed twice", n)
			require.True(t, n >= 1 && n <= slots, "slot %d out of range", n)
			seen[n] = true
		}
		assert.Len(t, seen, slots)
		assert.Equal(t, result.TotalSlots, result.OccupiedCount()+result.EmptyCount())
	}
}

func TestClassify_Idempotent(t *testing.T) {
	g := gradientGray(120, 10)
	cfg := Config{Slots: 12, Threshold: 100}

	first, err := Classify(g, cfg)
	require.NoError(t, err)
	second, err := Classify(g, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassify_ThresholdMonotonic(t *testing.T) {
	g := gradientGray(200, 5)

	var prev map[int]bool
	for threshold := 0.0; threshold <= 255; threshold += 15 {
		result, err := Classify(g, Config{Slots: 10, Threshold: threshold})
		require.NoError(t, err)

		occupied := make(map[int]bool)
		for _, idx := range result.Occupied {
			occupied[idx] = true
		}
		for idx := range prev {
			assert.True(t, occupied[idx], "slot %d left occupied set at threshold %g", idx, threshold)
		}
		prev = occupied
	}
}

func TestAnalyze_ColorImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if x < 50 {
				c = color.RGBA{200, 30, 30, 255}
			}
			img.Set(x, y, c)
		}
	}

	result, err := Analyze(img, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, result.OccupiedNumbers())
	assert.Equal(t, []int{6, 7, 8, 9, 10}, result.EmptyNumbers())
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, solidGray(100, 50, 0)))
	require.NoError(t, f.Close())

	result, img, err := AnalyzeFile(path, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 10, result.OccupiedCount())
}

func TestAnalyzeFile_Missing(t *testing.T) {
	_, _, err := AnalyzeFile(filepath.Join(t.TempDir(), "missing.png"), DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
