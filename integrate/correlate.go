package integrate

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/veldt-labs/kerbwatch/table"
)

// numericColumn pairs an integrated-table column name with its value
// accessor. Counts come back as floats so every column correlates the same
// way; null cells come back as NaN.
type numericColumn struct {
	name string
	get  func(r table.IntegratedDailyRow) float64
}

func numericColumns() []numericColumn {
	return []numericColumn{
		{"n_events", func(r table.IntegratedDailyRow) float64 { return float64(r.NEvents) }},
		{"snd_lvl_mean", func(r table.IntegratedDailyRow) float64 { return float64(r.SndLvlMean) }},
		{"snd_lvl_std", func(r table.IntegratedDailyRow) float64 { return float64(r.SndLvlStd) }},
		{"dba_mean", func(r table.IntegratedDailyRow) float64 { return float64(r.DBAMean) }},
		{"dba_std", func(r table.IntegratedDailyRow) float64 { return float64(r.DBAStd) }},
		{"dba_p90", func(r table.IntegratedDailyRow) float64 { return float64(r.DBAP90) }},
		{"n_audio", func(r table.IntegratedDailyRow) float64 { return float64(r.NAudio) }},
		{"rms_mean", func(r table.IntegratedDailyRow) float64 { return float64(r.RMSMean) }},
		{"rms_std", func(r table.IntegratedDailyRow) float64 { return float64(r.RMSStd) }},
		{"rms_p10", func(r table.IntegratedDailyRow) float64 { return float64(r.RMSP10) }},
		{"rms_p90", func(r table.IntegratedDailyRow) float64 { return float64(r.RMSP90) }},
		{"zcr_mean", func(r table.IntegratedDailyRow) float64 { return float64(r.ZCRMean) }},
		{"zcr_std", func(r table.IntegratedDailyRow) float64 { return float64(r.ZCRStd) }},
		{"duration_mean", func(r table.IntegratedDailyRow) float64 { return float64(r.DurationMean) }},
		{"audio_file_size_mean", func(r table.IntegratedDailyRow) float64 { return float64(r.AudioSize) }},
		{"n_images", func(r table.IntegratedDailyRow) float64 { return float64(r.NImages) }},
		{"blur_mean", func(r table.IntegratedDailyRow) float64 { return float64(r.BlurMean) }},
		{"blur_std", func(r table.IntegratedDailyRow) float64 { return float64(r.BlurStd) }},
		{"blur_p10", func(r table.IntegratedDailyRow) float64 { return float64(r.BlurP10) }},
		{"brightness_mean", func(r table.IntegratedDailyRow) float64 { return float64(r.BrightnessMean) }},
		{"brightness_std", func(r table.IntegratedDailyRow) float64 { return float64(r.BrightnessStd) }},
		{"contrast_mean", func(r table.IntegratedDailyRow) float64 { return float64(r.ContrastMean) }},
		{"contrast_std", func(r table.IntegratedDailyRow) float64 { return float64(r.ContrastStd) }},
		{"image_file_size_mean", func(r table.IntegratedDailyRow) float64 { return float64(r.ImageSize) }},
		{"audio_refs", func(r table.IntegratedDailyRow) float64 { return float64(r.AudioRefs) }},
		{"image_refs", func(r table.IntegratedDailyRow) float64 { return float64(r.ImageRefs) }},
		{"imbalance", func(r table.IntegratedDailyRow) float64 { return float64(r.Imbalance) }},
		{"audio_persistence", func(r table.IntegratedDailyRow) float64 { return float64(r.AudioPersistence) }},
		{"image_persistence", func(r table.IntegratedDailyRow) float64 { return float64(r.ImagePersistence) }},
	}
}

// CorrelationMatrix holds pairwise Pearson correlations between the
// integrated table's numeric columns. Cells are NaN when fewer than two
// days carry both values, or when a column is constant over those days.
type CorrelationMatrix struct {
	Columns []string
	Cells   [][]float64
}

// Correlate computes the matrix over the integrated table. Each pair of
// columns correlates over the days where both hold a value, so sparse
// branches shrink the sample rather than poisoning it.
func Correlate(rows []table.IntegratedDailyRow) CorrelationMatrix {
	cols := numericColumns()

	names := make([]string, len(cols))
	values := make([][]float64, len(cols))
	for i, c := range cols {
		names[i] = c.name
		col := make([]float64, len(rows))
		for j, r := range rows {
			col[j] = c.get(r)
		}
		values[i] = col
	}

	cells := make([][]float64, len(cols))
	for i := range cols {
		cells[i] = make([]float64, len(cols))
		for j := range cols {
			cells[i][j] = pairwiseCorrelation(values[i], values[j])
		}
	}
	return CorrelationMatrix{Columns: names, Cells: cells}
}

func pairwiseCorrelation(x, y []float64) float64 {
	var xs, ys []float64
	for k := range x {
		if !math.IsNaN(x[k]) && !math.IsNaN(y[k]) {
			xs = append(xs, x[k])
			ys = append(ys, y[k])
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
