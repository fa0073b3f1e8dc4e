package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformGrid(w, h int, value float64) *Grid {
	g := &Grid{Pixels: make([]float64, w*h), Width: w, Height: h}
	for i := range g.Pixels {
		g.Pixels[i] = value
	}
	return g
}

func checkerGrid(w, h int) *Grid {
	g := &Grid{Pixels: make([]float64, w*h), Width: w, Height: h}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				g.Pixels[y*w+x] = 255
			}
		}
	}
	return g
}

func TestLaplacianVariance_Uniform(t *testing.T) {
	assert.Equal(t, 0.0, LaplacianVariance(uniformGrid(10, 10, 128)),
		"a single-intensity image has zero blur score")
}

func TestLaplacianVariance_SharpEdges(t *testing.T) {
	blur := LaplacianVariance(checkerGrid(16, 16))
	assert.Greater(t, blur, 0.0, "high-frequency detail must score above zero")
}

func TestLaplacianVariance_TinyGrid(t *testing.T) {
	assert.Equal(t, 0.0, LaplacianVariance(uniformGrid(2, 2, 10)))
}

func TestBrightness(t *testing.T) {
	assert.Equal(t, 128.0, Brightness(uniformGrid(8, 8, 128)))
	assert.InDelta(t, 127.5, Brightness(checkerGrid(16, 16)), 1e-9)
}

func TestContrast(t *testing.T) {
	assert.Equal(t, 0.0, Contrast(uniformGrid(8, 8, 77)),
		"a uniform image has zero contrast")
	assert.InDelta(t, 127.5, Contrast(checkerGrid(16, 16)), 1e-9)
	assert.GreaterOrEqual(t, Contrast(checkerGrid(5, 5)), 0.0)
}

// writePNG writes a grayscale PNG for decode tests
func writePNG(t *testing.T, path string, w, h int, intensity func(x, y int) uint8) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: intensity(x, y)})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestDecodeFile_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, path, 12, 9, func(x, y int) uint8 { return 200 })

	g, err := DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 12, g.Width)
	assert.Equal(t, 9, g.Height)
	assert.InDelta(t, 200.0, Brightness(g), 0.5)
	assert.InDelta(t, 0.0, Contrast(g), 1e-9)
	assert.InDelta(t, 0.0, LaplacianVariance(g), 1e-9)
}

func TestDecodeFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := DecodeFile(path)
	assert.Error(t, err)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 8, 8, func(x, y int) uint8 {
		if (x+y)%2 == 0 {
			return 255
		}
		return 0
	})

	e := NewExtractor(dir)
	row, err := e.ExtractFile("a.png", "2025-01-01")
	require.NoError(t, err)

	assert.Equal(t, "a.png", row.File)
	assert.Greater(t, row.Blur, 0.0)
	assert.Greater(t, row.Contrast, 0.0)
	assert.Equal(t, 8, row.Width)
	assert.Equal(t, 8, row.Height)
	assert.Greater(t, row.SizeBytes, int64(0))
}

func TestExtractFile_Missing(t *testing.T) {
	e := NewExtractor(t.TempDir())
	_, err := e.ExtractFile("ghost.jpg", "2025-01-01")
	assert.Error(t, err)
}
