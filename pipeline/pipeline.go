package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/veldt-labs/kerbwatch/aggregate"
	"github.com/veldt-labs/kerbwatch/audio"
	"github.com/veldt-labs/kerbwatch/config"
	"github.com/veldt-labs/kerbwatch/imaging"
	"github.com/veldt-labs/kerbwatch/integrate"
	"github.com/veldt-labs/kerbwatch/logging"
	"github.com/veldt-labs/kerbwatch/sensorlog"
	"github.com/veldt-labs/kerbwatch/table"
)

// Output file names. Stable: the plotting tooling reads these.
const (
	AudioFilesCSV        = "audio_quality.csv"
	AudioDailyCSV        = "audio_quality_daily.csv"
	SensorDailyCSV       = "audio_sensor_daily.csv"
	ImageFilesCSV        = "image_quality.csv"
	ImageDailyCSV        = "image_quality_daily.csv"
	ImageDailyClippedCSV = "image_quality_daily_clipped.csv"
	IntegratedCSV        = "daily_master.csv"
	CorrelationsCSV      = "daily_master_correlations.csv"
)

// Summary reports what a run produced and what it had to skip. No failure
// below is fatal; the tables land partial and the counters say why.
type Summary struct {
	RunID string

	LogLines      int
	Events        int
	ParseFailures int

	AudioRefs      int
	AudioExtracted int
	AudioMissing   int
	AudioFailed    int

	ImageRefs      int
	ImageExtracted int
	ImageMissing   int
	ImageFailed    int

	Days int
}

// Pipeline wires the stages: parse, extract per modality, aggregate daily,
// join, write. Each stage is a pure transform over materialized tables.
type Pipeline struct {
	cfg config.Config
	log logging.Logger
}

// New creates a pipeline for one batch run
func New(cfg config.Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		log: logging.GetGlobalLogger(),
	}
}

// fileRef is one unique referenced capture with the date of the event that
// referenced it first
type fileRef struct {
	ref  string
	date table.Date
}

// Run executes the whole batch and writes every output table
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	log := p.log.WithFields(logging.Fields{"run_id": summary.RunID})

	// Stage 1: parse sensor logs
	parser := sensorlog.NewParser()
	events, parseStats, err := parser.ParseGlob(p.cfg.Inputs.LogGlob)
	if err != nil {
		return summary, err
	}
	summary.LogLines = parseStats.Lines
	summary.Events = parseStats.Parsed
	summary.ParseFailures = parseStats.Failures

	audioRefs, imageRefs := collectRefs(events)
	summary.AudioRefs = len(audioRefs)
	summary.ImageRefs = len(imageRefs)
	log.Info("collected file references", logging.Fields{
		"audio_refs": len(audioRefs),
		"image_refs": len(imageRefs),
	})

	// Stage 2: per-file feature extraction, fanned out per modality
	workers := p.cfg.WorkerCount()
	audioExt := audio.NewExtractor(p.cfg.Inputs.AudioRoot, p.cfg.Extract.Audio)
	audioRows := extractAll(workers, len(audioRefs), func(i int) (table.AudioFileRow, error) {
		return audioExt.ExtractFile(ctx, audioRefs[i].ref, audioRefs[i].date)
	}, &summary.AudioMissing, &summary.AudioFailed)
	summary.AudioExtracted = len(audioRows)

	imageExt := imaging.NewExtractor(p.cfg.Inputs.ImageRoot)
	imageRows := extractAll(workers, len(imageRefs), func(i int) (table.ImageFileRow, error) {
		return imageExt.ExtractFile(imageRefs[i].ref, imageRefs[i].date)
	}, &summary.ImageMissing, &summary.ImageFailed)
	summary.ImageExtracted = len(imageRows)

	log.Info("extraction finished", logging.Fields{
		"audio_ok":      summary.AudioExtracted,
		"audio_missing": summary.AudioMissing,
		"audio_failed":  summary.AudioFailed,
		"image_ok":      summary.ImageExtracted,
		"image_missing": summary.ImageMissing,
		"image_failed":  summary.ImageFailed,
	})

	// Stage 3: daily aggregation per branch
	sensorDaily := aggregate.SensorDaily(events)
	audioDaily := aggregate.AudioDaily(audioRows)
	imageDaily := aggregate.ImageDaily(imageRows)

	bounds := aggregate.ComputeImageClipBounds(imageRows,
		p.cfg.Clip.LowerQuantile, p.cfg.Clip.UpperQuantile)
	imageDailyClipped := aggregate.ImageDaily(aggregate.ClipImageRows(imageRows, bounds))

	// Stage 4: cross-modal outer join
	integrated := integrate.Join(sensorDaily, audioDaily, imageDaily,
		integrate.CountRefs(events), p.cfg.Join)
	summary.Days = len(integrated)
	correlations := integrate.Correlate(integrated)

	// Stage 5: write all tables
	if err := p.writeTables(audioRows, audioDaily, sensorDaily,
		imageRows, imageDaily, imageDailyClipped, integrated, correlations); err != nil {
		return summary, err
	}

	log.Info("run complete", logging.Fields{
		"days":           summary.Days,
		"events":         summary.Events,
		"parse_failures": summary.ParseFailures,
	})
	return summary, nil
}

// collectRefs dedupes file references in input order, keeping the date of
// the first event that referenced each file
func collectRefs(events []sensorlog.Event) (audioRefs, imageRefs []fileRef) {
	seenAudio := make(map[string]struct{})
	seenImage := make(map[string]struct{})
	for _, ev := range events {
		if ev.HasAudio() {
			if _, ok := seenAudio[ev.AudioRef]; !ok {
				seenAudio[ev.AudioRef] = struct{}{}
				audioRefs = append(audioRefs, fileRef{ref: ev.AudioRef, date: ev.Date})
			}
		}
		if ev.HasImage() {
			if _, ok := seenImage[ev.ImageRef]; !ok {
				seenImage[ev.ImageRef] = struct{}{}
				imageRefs = append(imageRefs, fileRef{ref: ev.ImageRef, date: ev.Date})
			}
		}
	}
	return audioRefs, imageRefs
}

// extractAll fans n extractions out over the worker pool, one result slot
// per index. Missing and undecodable files are counted, never fatal.
func extractAll[T any](workers, n int, extract func(i int) (T, error), missing, failed *int) []T {
	if n == 0 {
		return nil
	}

	type slot struct {
		row T
		err error
	}
	slots := make([]slot, n)

	workers = min(workers, n)
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				slots[i].row, slots[i].err = extract(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	rows := make([]T, 0, n)
	for _, s := range slots {
		switch {
		case s.err == nil:
			rows = append(rows, s.row)
		case errors.Is(s.err, fs.ErrNotExist):
			*missing++
		default:
			*failed++
		}
	}
	return rows
}

func (p *Pipeline) writeTables(
	audioRows []table.AudioFileRow,
	audioDaily []table.AudioDailyRow,
	sensorDaily []table.SensorDailyRow,
	imageRows []table.ImageFileRow,
	imageDaily, imageDailyClipped []table.ImageDailyRow,
	integrated []table.IntegratedDailyRow,
	correlations integrate.CorrelationMatrix,
) error {
	dir := p.cfg.Output.Dir
	writes := []struct {
		name  string
		write func(path string) error
	}{
		{AudioFilesCSV, func(path string) error { return table.WriteCSV(path, audioRows) }},
		{AudioDailyCSV, func(path string) error { return table.WriteCSV(path, audioDaily) }},
		{SensorDailyCSV, func(path string) error { return table.WriteCSV(path, sensorDaily) }},
		{ImageFilesCSV, func(path string) error { return table.WriteCSV(path, imageRows) }},
		{ImageDailyCSV, func(path string) error { return table.WriteCSV(path, imageDaily) }},
		{ImageDailyClippedCSV, func(path string) error { return table.WriteCSV(path, imageDailyClipped) }},
		{IntegratedCSV, func(path string) error { return table.WriteCSV(path, integrated) }},
		{CorrelationsCSV, func(path string) error {
			return table.WriteMatrixCSV(path, correlations.Columns, correlations.Cells)
		}},
	}

	for _, w := range writes {
		path := filepath.Join(dir, w.name)
		if err := w.write(path); err != nil {
			return err
		}
		p.log.Debug("wrote table", logging.Fields{"path": path})
	}
	return nil
}
