package integrate

import (
	"sort"

	"github.com/veldt-labs/kerbwatch/algorithms/stats"
	"github.com/veldt-labs/kerbwatch/sensorlog"
	"github.com/veldt-labs/kerbwatch/table"
)

// Config controls the derived cross-modal metrics
type Config struct {
	// ExpectedSource selects the persistence-ratio denominator:
	// "references" uses the per-day file references counted from the event
	// table, "fixed" uses the configured per-day expectations.
	ExpectedSource      string  `yaml:"expected_source"`
	ExpectedAudioPerDay int     `yaml:"expected_audio_per_day"`
	ExpectedImagePerDay int     `yaml:"expected_image_per_day"`
	CountFraction       float64 `yaml:"count_fraction"`
	QualityFraction     float64 `yaml:"quality_fraction"`
	LogFraction         float64 `yaml:"log_fraction"`
}

// DefaultConfig mirrors the thresholds the analysis has historically used
func DefaultConfig() Config {
	return Config{
		ExpectedSource:  "references",
		CountFraction:   0.3,
		QualityFraction: 0.4,
		LogFraction:     0.3,
	}
}

// DayRefs counts the capture files the sensor events said should exist on
// one day. Persistence compares these against what actually decoded.
type DayRefs struct {
	Audio int
	Image int
}

// CountRefs tallies per-day file references from the event table
func CountRefs(events []sensorlog.Event) map[table.Date]DayRefs {
	refs := make(map[table.Date]DayRefs)
	for _, ev := range events {
		r := refs[ev.Date]
		if ev.HasAudio() {
			r.Audio++
		}
		if ev.HasImage() {
			r.Image++
		}
		refs[ev.Date] = r
	}
	return refs
}

// Join performs a full outer join on calendar date across the three daily
// tables plus the per-day reference counts. The output covers the union of
// all input dates, sorted ascending, one row per date. A date missing from
// a branch keeps zero counts and null statistics there.
func Join(
	sensor []table.SensorDailyRow,
	audio []table.AudioDailyRow,
	image []table.ImageDailyRow,
	refs map[table.Date]DayRefs,
	cfg Config,
) []table.IntegratedDailyRow {
	sensorByDate := make(map[table.Date]table.SensorDailyRow, len(sensor))
	for _, r := range sensor {
		sensorByDate[r.Date] = r
	}
	audioByDate := make(map[table.Date]table.AudioDailyRow, len(audio))
	for _, r := range audio {
		audioByDate[r.Date] = r
	}
	imageByDate := make(map[table.Date]table.ImageDailyRow, len(image))
	for _, r := range image {
		imageByDate[r.Date] = r
	}

	dateSet := make(map[table.Date]struct{})
	for d := range sensorByDate {
		dateSet[d] = struct{}{}
	}
	for d := range audioByDate {
		dateSet[d] = struct{}{}
	}
	for d := range imageByDate {
		dateSet[d] = struct{}{}
	}
	for d := range refs {
		dateSet[d] = struct{}{}
	}

	dates := make([]table.Date, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	rows := make([]table.IntegratedDailyRow, 0, len(dates))
	for _, d := range dates {
		row := emptyRow(d)

		if s, ok := sensorByDate[d]; ok {
			row.NEvents = s.NEvents
			row.SndLvlMean = s.SndLvlMean
			row.SndLvlStd = s.SndLvlStd
			row.DBAMean = s.DBAMean
			row.DBAStd = s.DBAStd
			row.DBAP90 = s.DBAP90
		}
		if a, ok := audioByDate[d]; ok {
			row.NAudio = a.NAudio
			row.RMSMean = a.RMSMean
			row.RMSStd = a.RMSStd
			row.RMSP10 = a.RMSP10
			row.RMSP90 = a.RMSP90
			row.ZCRMean = a.ZCRMean
			row.ZCRStd = a.ZCRStd
			row.DurationMean = a.DurationMean
			row.AudioSize = a.SizeMean
		}
		if im, ok := imageByDate[d]; ok {
			row.NImages = im.NImages
			row.BlurMean = im.BlurMean
			row.BlurStd = im.BlurStd
			row.BlurP10 = im.BlurP10
			row.BrightnessMean = im.BrightnessMean
			row.BrightnessStd = im.BrightnessStd
			row.ContrastMean = im.ContrastMean
			row.ContrastStd = im.ContrastStd
			row.ImageSize = im.SizeMean
		}

		dayRefs := refs[d]
		row.AudioRefs = dayRefs.Audio
		row.ImageRefs = dayRefs.Image
		row.Imbalance = imbalance(row.NImages, row.NAudio)
		row.AudioPersistence = persistence(row.NAudio, expected(dayRefs.Audio, cfg.ExpectedAudioPerDay, cfg))
		row.ImagePersistence = persistence(row.NImages, expected(dayRefs.Image, cfg.ExpectedImagePerDay, cfg))

		rows = append(rows, row)
	}

	flagAnomalies(rows, cfg)
	return rows
}

func emptyRow(d table.Date) table.IntegratedDailyRow {
	null := table.NullFloat()
	return table.IntegratedDailyRow{
		Date:       d,
		SndLvlMean: null, SndLvlStd: null, DBAMean: null, DBAStd: null, DBAP90: null,
		RMSMean: null, RMSStd: null, RMSP10: null, RMSP90: null,
		ZCRMean: null, ZCRStd: null, DurationMean: null, AudioSize: null,
		BlurMean: null, BlurStd: null, BlurP10: null,
		BrightnessMean: null, BrightnessStd: null,
		ContrastMean: null, ContrastStd: null, ImageSize: null,
		Imbalance: null, AudioPersistence: null, ImagePersistence: null,
	}
}

// imbalance is the normalized image/audio count difference, in [-1, 1].
// Days with no captures at all score 0, not null.
func imbalance(images, audios int) table.Float {
	total := images + audios
	if total == 0 {
		return table.F(0)
	}
	return table.F(float64(images-audios) / float64(total))
}

// persistence is found files over expected files, null when nothing was
// expected
func persistence(found, expected int) table.Float {
	if expected <= 0 {
		return table.NullFloat()
	}
	return table.F(float64(found) / float64(expected))
}

func expected(refCount, fixed int, cfg Config) int {
	if cfg.ExpectedSource == "fixed" {
		return fixed
	}
	return refCount
}

// flagAnomalies marks days whose volume or quality falls below a fraction
// of the observation-window median
func flagAnomalies(rows []table.IntegratedDailyRow, cfg Config) {
	totals := make([]float64, len(rows))
	events := make([]float64, len(rows))
	var blurs []float64
	for i, r := range rows {
		totals[i] = float64(r.NAudio + r.NImages)
		events[i] = float64(r.NEvents)
		if !r.BlurMean.IsNull() {
			blurs = append(blurs, float64(r.BlurMean))
		}
	}

	medTotal := stats.Median(totals)
	medEvents := stats.Median(events)
	medBlur := stats.Median(blurs)

	for i := range rows {
		r := &rows[i]
		r.CountAnomaly = float64(r.NAudio+r.NImages) < cfg.CountFraction*medTotal
		r.LogAnomaly = float64(r.NEvents) < cfg.LogFraction*medEvents
		r.QualityAnomaly = !r.BlurMean.IsNull() && len(blurs) > 0 &&
			float64(r.BlurMean) < cfg.QualityFraction*medBlur
		r.AnyAnomaly = r.CountAnomaly || r.QualityAnomaly || r.LogAnomaly
	}
}
