package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRMS(t *testing.T) {
	assert.Equal(t, 0.0, RMS(nil))
	assert.Equal(t, 0.0, RMS([]float64{0, 0, 0, 0}), "silence has zero RMS")
	assert.InDelta(t, 0.5, RMS([]float64{0.5, -0.5, 0.5, -0.5}), 1e-12)

	// Full-scale sine: RMS = amplitude / sqrt(2)
	n := 48000
	pcm := make([]float64, n)
	for i := range pcm {
		pcm[i] = math.Sin(2 * math.Pi * 100 * float64(i) / float64(n))
	}
	assert.InDelta(t, 1/math.Sqrt2, RMS(pcm), 1e-3)
}

func TestRMS_NonNegative(t *testing.T) {
	signals := [][]float64{
		{-1, -1, -1},
		{0.1, -0.9, 0.4},
		{0},
	}
	for _, s := range signals {
		assert.GreaterOrEqual(t, RMS(s), 0.0)
	}
}

func TestRMSToDBFS(t *testing.T) {
	assert.InDelta(t, 0.0, RMSToDBFS(1.0), 1e-12)
	assert.InDelta(t, -6.0206, RMSToDBFS(0.5), 1e-3)
	// Silence clamps at the floor instead of -Inf
	assert.False(t, math.IsInf(RMSToDBFS(0), -1))
}

func TestZeroCrossingRate(t *testing.T) {
	assert.Equal(t, 0.0, ZeroCrossingRate(nil))
	assert.Equal(t, 0.0, ZeroCrossingRate([]float64{0.3}))
	assert.Equal(t, 0.0, ZeroCrossingRate([]float64{0, 0, 0, 0}), "all-zero waveform has ZCR 0")
	assert.Equal(t, 0.0, ZeroCrossingRate([]float64{0.1, 0.2, 0.3}))

	// Alternating signal crosses at every step
	assert.Equal(t, 1.0, ZeroCrossingRate([]float64{1, -1, 1, -1, 1}))

	// One crossing over four gaps
	assert.Equal(t, 0.25, ZeroCrossingRate([]float64{0.5, 0.4, 0.3, -0.2, -0.1}))
}

func TestZeroCrossingRate_Bounded(t *testing.T) {
	pcm := make([]float64, 1000)
	for i := range pcm {
		pcm[i] = math.Sin(float64(i) * 0.7)
	}
	zcr := ZeroCrossingRate(pcm)
	assert.GreaterOrEqual(t, zcr, 0.0)
	assert.LessOrEqual(t, zcr, 1.0)
}
