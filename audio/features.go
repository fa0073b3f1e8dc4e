package audio

import "math"

// Whole-file waveform metrics. These are the loudness and noisiness proxies
// the daily aggregation reads; framewise analysis is deliberately out.

// dbfsFloor avoids log of zero for silent captures
const dbfsFloor = 1e-12

// RMS calculates root-mean-square amplitude over the whole file
func RMS(pcm []float64) float64 {
	if len(pcm) == 0 {
		return 0.0
	}

	sumSquares := 0.0
	for _, sample := range pcm {
		sumSquares += sample * sample
	}
	return math.Sqrt(sumSquares / float64(len(pcm)))
}

// RMSToDBFS converts an RMS amplitude to decibels relative to full scale
func RMSToDBFS(rms float64) float64 {
	return 20.0 * math.Log10(math.Max(rms, dbfsFloor))
}

// ZeroCrossingRate calculates the normalized zero-crossing rate: sign
// changes between consecutive samples divided by the maximum possible
// count. Always in [0, 1]; an all-zero waveform yields 0.
func ZeroCrossingRate(pcm []float64) float64 {
	if len(pcm) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(pcm); i++ {
		if (pcm[i-1] >= 0 && pcm[i] < 0) || (pcm[i-1] < 0 && pcm[i] >= 0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(pcm)-1)
}
