package aggregate

import (
	"sort"

	"github.com/veldt-labs/kerbwatch/algorithms/stats"
	"github.com/veldt-labs/kerbwatch/table"
)

// AudioDaily groups per-file waveform metrics by calendar date. Every date
// present in the input yields exactly one row whose count equals its number
// of per-file rows.
func AudioDaily(rows []table.AudioFileRow) []table.AudioDailyRow {
	groups := make(map[table.Date][]table.AudioFileRow)
	for _, r := range rows {
		groups[r.Date] = append(groups[r.Date], r)
	}

	daily := make([]table.AudioDailyRow, 0, len(groups))
	for date, files := range groups {
		rms := make([]float64, len(files))
		zcr := make([]float64, len(files))
		dur := make([]float64, len(files))
		size := make([]float64, len(files))
		for i, f := range files {
			rms[i] = f.RMS
			zcr[i] = f.ZCR
			dur[i] = f.DurationSec
			size[i] = float64(f.SizeBytes)
		}

		rmsS := stats.Describe(rms)
		zcrS := stats.Describe(zcr)
		daily = append(daily, table.AudioDailyRow{
			Date:         date,
			NAudio:       len(files),
			RMSMean:      table.F(rmsS.Mean),
			RMSStd:       table.F(rmsS.Std),
			RMSP10:       table.F(rmsS.P10),
			RMSP90:       table.F(rmsS.P90),
			ZCRMean:      table.F(zcrS.Mean),
			ZCRStd:       table.F(zcrS.Std),
			DurationMean: table.F(stats.Mean(dur)),
			SizeMean:     table.F(stats.Mean(size)),
		})
	}

	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })
	return daily
}
