package imaging

import (
	"os"
	"path/filepath"

	"github.com/veldt-labs/kerbwatch/table"
)

// Extractor turns referenced image files into per-file metric rows
type Extractor struct {
	root string
}

// NewExtractor creates an extractor resolving references under root
func NewExtractor(root string) *Extractor {
	return &Extractor{root: root}
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
func (e *Extractor) ExtractFile(ref string, date table.Date) (table.ImageFileRow, error) {
	path := e.Resolve(ref)

	info, err := os.Stat(path)
	if err != nil {
		return table.ImageFileRow{}, err
	}

	grid, err := DecodeFile(path)
	if err != nil {
		return table.ImageFileRow{}, err
	}

	return table.ImageFileRow{
		File:       ref,
		Date:       date,
		Blur:       LaplacianVariance(grid),
		Brightness: Brightness(grid),
		Contrast:   Contrast(grid),
		Width:      grid.Width,
		Height:     grid.Height,
		SizeBytes:  info.Size(),
	}, nil
}
