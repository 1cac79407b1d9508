package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// ToGray reduces an image to a single 8-bit luma channel.
//
// Images that are already *image.Gray are returned unchanged. Everything else
// goes through imaging.Grayscale (BT.601 weights) and the red channel of the
// result is copied into a new *image.Gray anchored at (0,0). Alpha is ignored.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	nrgba := imaging.Grayscale(img)
	bounds := nrgba.Bounds()
	gray := image.NewGray(bounds)

	for y := 0; y < bounds.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+bounds.Dx()*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+bounds.Dx()]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}

	return gray
}

// MeanGray returns the arithmetic mean of the luma samples inside region.
//
// The region is clipped to the image bounds first. The second return value is
// false when the clipped region holds no pixels, in which case the mean is
// undefined and reported as 0.
func MeanGray(g *image.Gray, region image.Rectangle) (float64, bool) {
	r := region.Intersect(g.Rect)
	if r.Empty() {
		return 0, false
	}

	var sum uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := g.PixOffset(r.Min.X, y)
		for _, v := range g.Pix[start : start+r.Dx()] {
			sum += uint64(v)
		}
	}

	return float64(sum) / float64(r.Dx()*r.Dy()), true
}
