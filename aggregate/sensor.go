package aggregate

import (
	"sort"

	"github.com/veldt-labs/kerbwatch/algorithms/stats"
	"github.com/veldt-labs/kerbwatch/sensorlog"
	"github.com/veldt-labs/kerbwatch/table"
)

// SensorDaily groups sensor events by calendar date and summarizes the
// sensor-reported sound levels: the instantaneous level per event, and
// every value observed in the rolling dBA windows that day, flattened.
// Dates with zero events simply do not appear; the join stage makes that
// absence explicit.
func SensorDaily(events []sensorlog.Event) []table.SensorDailyRow {
	type group struct {
		n      int
		levels []float64
		dba    []float64
	}

	groups := make(map[table.Date]*group)
	for _, ev := range events {
		g := groups[ev.Date]
		if g == nil {
			g = &group{}
			groups[ev.Date] = g
		}
		g.n++
		if !ev.SoundLevel.IsNull() {
			g.levels = append(g.levels, float64(ev.SoundLevel))
		}
		g.dba = append(g.dba, ev.DBAWindow...)
	}

	rows := make([]table.SensorDailyRow, 0, len(groups))
	for date, g := range groups {
		lvl := stats.Describe(g.levels)
		dba := stats.Describe(g.dba)
		rows = append(rows, table.SensorDailyRow{
			Date:       date,
			NEvents:    g.n,
			SndLvlMean: table.F(lvl.Mean),
			SndLvlStd:  table.F(lvl.Std),
			DBAMean:    table.F(dba.Mean),
			DBAStd:     table.F(dba.Std),
			DBAP90:     table.F(dba.P90),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}
