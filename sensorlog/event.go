package sensorlog

import (
	"time"

	"github.com/veldt-labs/kerbwatch/table"
)

// Event is one structured sensor log record. Events are immutable once
// parsed; downstream stages group by Date themselves and never rely on
// input order being chronological.
type Event struct {
	Date      table.Date
	TimeOfDay string
	Timestamp time.Time

	// Referenced capture files, relative to the modality roots.
	// Empty means the event carried no capture for that modality.
	AudioRef string
	ImageRef string

	// Instantaneous A-weighted sound level. Null when the record had none.
	SoundLevel table.Float

	// Rolling window of recent dBA readings, oldest first
	DBAWindow []float64

	// Source log file, for diagnostics
	Source string
}

// HasAudio reports whether the event references an audio capture
func (e Event) HasAudio() bool {
	return e.AudioRef != ""
}

// HasImage reports whether the event references an image capture
func (e Event) HasImage() bool {
	return e.ImageRef != ""
}
