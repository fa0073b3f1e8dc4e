package audio

import (
	"context"
	"os"
	"path/filepath"

	"github.com/veldt-labs/kerbwatch/table"
)

// Extractor turns referenced audio files into per-file metric rows
type Extractor struct {
	decoder *Decoder
	root    string
}

// NewExtractor creates an extractor resolving references under root
func NewExtractor(root string, config DecoderConfig) *Extractor {
	return &Extractor{
		decoder: NewDecoder(config),
		root:    root,
	}
}

// Resolve maps a log file reference to a filesystem path
func (e *Extractor) Resolve(ref string) string {
	if e.root == "" || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(e.root, ref)
}

// ExtractFile decodes one referenced file and computes its metrics. A
// missing file surfaces as an fs.ErrNotExist-wrapping error so callers can
// keep absence distinct from decode failures.
func (e *Extractor) ExtractFile(ctx context.Context, ref string, date table.Date) (table.AudioFileRow, error) {
	path := e.Resolve(ref)

	info, err := os.Stat(path)
	if err != nil {
		return table.AudioFileRow{}, err
	}

	data, err := e.decoder.DecodeFile(ctx, path)
	if err != nil {
		return table.AudioFileRow{}, err
	}

	rms := RMS(data.PCM)
	return table.AudioFileRow{
		File:        ref,
		Date:        date,
		RMS:         rms,
		RMSDBFS:     RMSToDBFS(rms),
		ZCR:         ZeroCrossingRate(data.PCM),
		DurationSec: data.Duration(),
		SampleRate:  data.SampleRate,
		SizeBytes:   info.Size(),
	}, nil
}
