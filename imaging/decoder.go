package imaging

import (
	"fmt"
	"image"
	"os"

	// Raster codecs registered for image.Decode. The sensors upload jpeg;
	// the rest cover manually recovered captures.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Grid is a decoded grayscale intensity grid, row-major, values in [0, 255]
type Grid struct {
	Pixels []float64
	Width  int
	Height int
}

// At returns the intensity at (x, y)
func (g *Grid) At(x, y int) float64 {
	return g.Pixels[y*g.Width+x]
}

// DecodeFile decodes one raster file to a grayscale grid. Zero-length and
// undecodable files return an error; callers count those as extraction
// failures.
func DecodeFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("image decode %s: %w", path, err)
	}
	return toGrayscale(img), nil
}

// toGrayscale converts any decoded image to a float64 luminance grid using
// the BT.601 weights
func toGrayscale(img image.Image) *Grid {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	g := &Grid{
		Pixels: make([]float64, w*h),
		Width:  w,
		Height: h,
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, gr, b, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit channels; scale luminance to [0, 255]
			lum := 0.299*float64(r) + 0.587*float64(gr) + 0.114*float64(b)
			g.Pixels[i] = lum / 257.0
			i++
		}
	}
	return g
}
