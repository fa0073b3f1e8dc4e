package imaging

import "math"

// Image quality metrics over a grayscale grid. Blur is the variance of the
// discrete Laplacian response: defocused images have weak second
// derivatives everywhere, so low variance flags out-of-focus captures.

// LaplacianVariance computes the blur score using the 4-neighbor Laplacian
// kernel over interior pixels. Grids smaller than 3x3 and uniform grids
// score 0.
func LaplacianVariance(g *Grid) float64 {
	if g.Width < 3 || g.Height < 3 {
		return 0.0
	}

	n := (g.Width - 2) * (g.Height - 2)
	responses := make([]float64, 0, n)
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			lap := g.At(x, y-1) + g.At(x-1, y) + g.At(x+1, y) + g.At(x, y+1) - 4*g.At(x, y)
			responses = append(responses, lap)
		}
	}

	mean := 0.0
	for _, r := range responses {
		mean += r
	}
	mean /= float64(len(responses))

	variance := 0.0
	for _, r := range responses {
		d := r - mean
		variance += d * d
	}
	return variance / float64(len(responses))
}

// Brightness is the mean pixel intensity
func Brightness(g *Grid) float64 {
	if len(g.Pixels) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, p := range g.Pixels {
		sum += p
	}
	return sum / float64(len(g.Pixels))
}

// Contrast is the population standard deviation of pixel intensity. A
// uniform image has contrast 0.
func Contrast(g *Grid) float64 {
	if len(g.Pixels) == 0 {
		return 0.0
	}

	mean := Brightness(g)
	sum := 0.0
	for _, p := range g.Pixels {
		d := p - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(g.Pixels)))
}
