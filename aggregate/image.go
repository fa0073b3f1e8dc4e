package aggregate

import (
	"sort"

	"github.com/veldt-labs/kerbwatch/algorithms/stats"
	"github.com/veldt-labs/kerbwatch/table"
)

// ImageDaily groups per-file image quality metrics by calendar date
func ImageDaily(rows []table.ImageFileRow) []table.ImageDailyRow {
	groups := make(map[table.Date][]table.ImageFileRow)
	for _, r := range rows {
		groups[r.Date] = append(groups[r.Date], r)
	}

	daily := make([]table.ImageDailyRow, 0, len(groups))
	for date, files := range groups {
		blur := make([]float64, len(files))
		bright := make([]float64, len(files))
		contrast := make([]float64, len(files))
		size := make([]float64, len(files))
		for i, f := range files {
			blur[i] = f.Blur
			bright[i] = f.Brightness
			contrast[i] = f.Contrast
			size[i] = float64(f.SizeBytes)
		}

		blurS := stats.Describe(blur)
		brightS := stats.Describe(bright)
		contrastS := stats.Describe(contrast)
		daily = append(daily, table.ImageDailyRow{
			Date:           date,
			NImages:        len(files),
			BlurMean:       table.F(blurS.Mean),
			BlurStd:        table.F(blurS.Std),
			BlurP10:        table.F(blurS.P10),
			BrightnessMean: table.F(brightS.Mean),
			BrightnessStd:  table.F(brightS.Std),
			ContrastMean:   table.F(contrastS.Mean),
			ContrastStd:    table.F(contrastS.Std),
			SizeMean:       table.F(stats.Mean(size)),
		})
	}

	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })
	return daily
}

// ImageClipBounds holds quantile clamp bounds per image metric, computed
// over the whole per-file table rather than per day so sparse days clip
// against the same reference distribution as busy ones.
type ImageClipBounds struct {
	Blur       stats.ClipBounds
	Brightness stats.ClipBounds
	Contrast   stats.ClipBounds
}

// ComputeImageClipBounds derives clamp bounds at the given quantiles
func ComputeImageClipBounds(rows []table.ImageFileRow, lowerQ, upperQ float64) ImageClipBounds {
	blur := make([]float64, len(rows))
	bright := make([]float64, len(rows))
	contrast := make([]float64, len(rows))
	for i, r := range rows {
		blur[i] = r.Blur
		bright[i] = r.Brightness
		contrast[i] = r.Contrast
	}
	return ImageClipBounds{
		Blur:       stats.QuantileBounds(blur, lowerQ, upperQ),
		Brightness: stats.QuantileBounds(bright, lowerQ, upperQ),
		Contrast:   stats.QuantileBounds(contrast, lowerQ, upperQ),
	}
}

// ClipImageRows returns a copy of rows with metric values clamped to the
// bounds. The input rows stay untouched.
func ClipImageRows(rows []table.ImageFileRow, bounds ImageClipBounds) []table.ImageFileRow {
	clipped := make([]table.ImageFileRow, len(rows))
	for i, r := range rows {
		r.Blur = bounds.Blur.Clamp(r.Blur)
		r.Brightness = bounds.Brightness.Clamp(r.Brightness)
		r.Contrast = bounds.Contrast.Clamp(r.Contrast)
		clipped[i] = r
	}
	return clipped
}
