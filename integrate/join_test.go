package integrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt-labs/kerbwatch/sensorlog"
	"github.com/veldt-labs/kerbwatch/table"
)

func TestCountRefs(t *testing.T) {
	events := []sensorlog.Event{
		{Date: "2025-01-01", ImageRef: "a.jpg"},
		{Date: "2025-01-01", AudioRef: "b.mp3"},
		{Date: "2025-01-01"},
		{Date: "2025-01-02", AudioRef: "c.mp3", ImageRef: "d.jpg"},
	}

	refs := CountRefs(events)
	assert.Equal(t, DayRefs{Audio: 1, Image: 1}, refs["2025-01-01"])
	assert.Equal(t, DayRefs{Audio: 1, Image: 1}, refs["2025-01-02"])
}

func TestJoin_OuterUnionOfDates(t *testing.T) {
	sensor := []table.SensorDailyRow{
		{Date: "2025-01-01", NEvents: 2, SndLvlMean: table.F(66.25)},
		{Date: "2025-01-02", NEvents: 1, SndLvlMean: table.F(59)},
	}
	audio := []table.AudioDailyRow{
		{Date: "2025-01-02", NAudio: 3, RMSMean: table.F(0.2)},
		{Date: "2025-01-03", NAudio: 1, RMSMean: table.F(0.5)},
	}
	image := []table.ImageDailyRow{
		{Date: "2025-01-04", NImages: 5, BlurMean: table.F(1200)},
	}

	rows := Join(sensor, audio, image, nil, DefaultConfig())
	require.Len(t, rows, 4, "output dates must be the union, not the intersection")

	dates := make([]table.Date, len(rows))
	for i, r := range rows {
		dates[i] = r.Date
	}
	assert.Equal(t, []table.Date{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04"}, dates,
		"sorted ascending, one row per date")
}

func TestJoin_MissingModalityIsExplicit(t *testing.T) {
	sensor := []table.SensorDailyRow{
		{Date: "2025-01-01", NEvents: 4, SndLvlMean: table.F(71.2), DBAMean: table.F(70)},
	}

	rows := Join(sensor, nil, nil, map[table.Date]DayRefs{
		"2025-01-01": {Audio: 4, Image: 4},
	}, DefaultConfig())
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, 4, r.NEvents)
	assert.Equal(t, table.F(71.2), r.SndLvlMean)
	assert.Equal(t, 0, r.NAudio, "missing branch keeps zero count")
	assert.True(t, r.RMSMean.IsNull(), "missing branch keeps null stats, not zeros")
	assert.True(t, r.BlurMean.IsNull())

	// Capture failure: everything expected, nothing found
	assert.Equal(t, table.F(0), r.AudioPersistence)
	assert.Equal(t, table.F(0), r.ImagePersistence)
}

func TestJoin_SpecExampleScenario(t *testing.T) {
	// Two events on 2025-01-01: one image ref, one audio ref, levels 62.5 and 70
	sensor := []table.SensorDailyRow{
		{Date: "2025-01-01", NEvents: 2, SndLvlMean: table.F(66.25)},
	}
	audio := []table.AudioDailyRow{{Date: "2025-01-01", NAudio: 1}}
	image := []table.ImageDailyRow{{Date: "2025-01-01", NImages: 1}}
	refs := map[table.Date]DayRefs{"2025-01-01": {Audio: 1, Image: 1}}

	rows := Join(sensor, audio, image, refs, DefaultConfig())
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, table.F(66.25), r.SndLvlMean)
	assert.Equal(t, 1, r.NAudio)
	assert.Equal(t, 1, r.NImages)
	assert.Equal(t, table.F(0), r.Imbalance)
	assert.Equal(t, table.F(1), r.AudioPersistence)

	// Same day, but b.mp3 never landed on storage
	audioGone := Join(sensor, nil, image, refs, DefaultConfig())
	require.Len(t, audioGone, 1)
	r = audioGone[0]
	assert.Equal(t, 0, r.NAudio)
	assert.Equal(t, table.F(66.25), r.SndLvlMean, "sensor stats stay populated")
	assert.Equal(t, table.F(0), r.AudioPersistence)
	assert.Equal(t, table.F(1), r.Imbalance, "all captures on one side")
}

func TestImbalance_Bounds(t *testing.T) {
	assert.Equal(t, table.F(0), imbalance(0, 0))
	assert.Equal(t, table.F(1), imbalance(10, 0))
	assert.Equal(t, table.F(-1), imbalance(0, 7))
	assert.InDelta(t, 1.0/3.0, float64(imbalance(2, 1)), 1e-12)

	for img := 0; img <= 5; img++ {
		for aud := 0; aud <= 5; aud++ {
			v := float64(imbalance(img, aud))
			assert.GreaterOrEqual(t, v, -1.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestPersistence_NullWhenNothingExpected(t *testing.T) {
	assert.True(t, persistence(0, 0).IsNull(),
		"no expectations must not read as a perfect day")
	assert.Equal(t, table.F(0.5), persistence(1, 2))
	assert.Equal(t, table.F(1), persistence(3, 3))
}

func TestJoin_FixedExpectedSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExpectedSource = "fixed"
	cfg.ExpectedAudioPerDay = 10
	cfg.ExpectedImagePerDay = 0

	audio := []table.AudioDailyRow{{Date: "2025-01-01", NAudio: 5}}
	rows := Join(nil, audio, nil, nil, cfg)
	require.Len(t, rows, 1)

	assert.Equal(t, table.F(0.5), rows[0].AudioPersistence)
	assert.True(t, rows[0].ImagePersistence.IsNull())
}

func TestJoin_AnomalyFlags(t *testing.T) {
	var audio []table.AudioDailyRow
	var image []table.ImageDailyRow
	for _, d := range []table.Date{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04"} {
		audio = append(audio, table.AudioDailyRow{Date: d, NAudio: 100})
		image = append(image, table.ImageDailyRow{Date: d, NImages: 100, BlurMean: table.F(1000)})
	}
	// One nearly dead, badly defocused day
	audio = append(audio, table.AudioDailyRow{Date: "2025-01-05", NAudio: 2})
	image = append(image, table.ImageDailyRow{Date: "2025-01-05", NImages: 1, BlurMean: table.F(50)})

	rows := Join(nil, audio, image, nil, DefaultConfig())
	require.Len(t, rows, 5)

	for _, r := range rows[:4] {
		assert.False(t, r.CountAnomaly, "healthy day flagged: %s", r.Date)
		assert.False(t, r.QualityAnomaly)
	}
	bad := rows[4]
	assert.True(t, bad.CountAnomaly)
	assert.True(t, bad.QualityAnomaly)
	assert.True(t, bad.AnyAnomaly)
}
