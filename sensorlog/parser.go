package sensorlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/veldt-labs/kerbwatch/logging"
	"github.com/veldt-labs/kerbwatch/table"
)

// maxLineBytes bounds a single log line; rolling windows keep records small
// but the sensor firmware has emitted multi-megabyte lines after faults.
// Longer lines are discarded and counted as parse failures.
const maxLineBytes = 1 << 20

// warnLimit caps per-file malformed-line warnings so a corrupt file does
// not flood the log
const warnLimit = 10

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var errNoTimestamp = errors.New("record has no parseable timestamp")

// Stats counts the outcome of a parse run
type Stats struct {
	Lines    int
	Parsed   int
	Failures int
}

func (s *Stats) add(o Stats) {
	s.Lines += o.Lines
	s.Parsed += o.Parsed
	s.Failures += o.Failures
}

// record covers both generations of the log schema: the flat form
// {ts, img, aud, snd_lvl, dba} and the nested form {dto, img, snd:{...}}.
type record struct {
	TS     string    `json:"ts"`
	DTO    string    `json:"dto"`
	Img    string    `json:"img"`
	Aud    string    `json:"aud"`
	SndLvl *float64  `json:"snd_lvl"`
	DBA    []float64 `json:"dba"`
	Snd    *sndBlock `json:"snd"`
}

type sndBlock struct {
	SndLvl *float64 `json:"snd_lvl"`
	Res    struct {
		DBA []float64 `json:"dba"`
	} `json:"res"`
}

// Parser turns newline-delimited JSON sensor logs into an event table
type Parser struct {
	log logging.Logger
}

// NewParser creates a Parser using the global logger
func NewParser() *Parser {
	return &Parser{log: logging.GetGlobalLogger()}
}

// ParseGlob parses every file matching pattern, in sorted filename order.
// Output event order is input order across files.
func (p *Parser) ParseGlob(pattern string) ([]Event, Stats, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("bad log glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, Stats{}, fmt.Errorf("no log files match %q", pattern)
	}
	sort.Strings(paths)

	var events []Event
	var stats Stats
	for _, path := range paths {
		evs, st, err := p.ParseFile(path)
		if err != nil {
			return nil, stats, err
		}
		events = append(events, evs...)
		stats.add(st)
	}

	p.log.Info("parsed sensor logs", logging.Fields{
		"files":    len(paths),
		"lines":    stats.Lines,
		"events":   stats.Parsed,
		"failures": stats.Failures,
	})
	return events, stats, nil
}

// ParseFile parses a single newline-delimited JSON log file
func (p *Parser) ParseFile(path string) ([]Event, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open log %s: %w", path, err)
	}
	defer f.Close()

	return p.Parse(f, filepath.Base(path))
}

// Parse reads newline-delimited JSON records from r. Each line parses
// independently; a malformed line, a line without a usable timestamp, or a
// line over maxLineBytes is counted as a failure and skipped, never fatal.
// Stats.Lines counts every physical line, blanks included, so the line
// numbers in skip warnings match the file.
func (p *Parser) Parse(r io.Reader, source string) ([]Event, Stats, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var events []Event
	var stats Stats

	for {
		line, tooLong, err := readLine(br)
		if err != nil && err != io.EOF {
			return events, stats, fmt.Errorf("read %s: %w", source, err)
		}
		eof := err == io.EOF
		if eof && len(line) == 0 && !tooLong {
			break
		}
		stats.Lines++

		switch {
		case tooLong:
			stats.Failures++
			if stats.Failures <= warnLimit {
				p.log.Warn("skipping oversized log line", logging.Fields{
					"source": source,
					"line":   stats.Lines,
					"limit":  maxLineBytes,
				})
			}
		case len(line) == 0:
			// blank line, counted but nothing to parse
		default:
			ev, perr := parseLine(line, source)
			if perr != nil {
				stats.Failures++
				if stats.Failures <= warnLimit {
					p.log.Warn("skipping malformed log line", logging.Fields{
						"source": source,
						"line":   stats.Lines,
						"reason": perr.Error(),
					})
				}
				break
			}
			events = append(events, ev)
			stats.Parsed++
		}

		if eof {
			break
		}
	}
	return events, stats, nil
}

// readLine returns the next line without its terminator. A line longer
// than maxLineBytes is drained and flagged instead of returned.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if len(buf)+len(chunk) > maxLineBytes {
			return nil, true, drainLine(br, err)
		}
		buf = append(buf, chunk...)
		switch err {
		case nil, io.EOF:
			return trimLineEnding(buf), false, err
		case bufio.ErrBufferFull:
			continue
		default:
			return nil, false, err
		}
	}
}

// drainLine discards the rest of the current line after an overflow
func drainLine(br *bufio.Reader, err error) error {
	for err == bufio.ErrBufferFull {
		_, err = br.ReadSlice('\n')
	}
	return err
}

func trimLineEnding(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))
	return bytes.TrimSuffix(b, []byte("\r"))
}

func parseLine(line []byte, source string) (Event, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return Event{}, err
	}

	ts, err := parseTimestamp(rec)
	if err != nil {
		return Event{}, err
	}

	ev := Event{
		Date:       table.DateOf(ts),
		TimeOfDay:  ts.Format("15:04:05"),
		Timestamp:  ts,
		AudioRef:   rec.Aud,
		ImageRef:   rec.Img,
		SoundLevel: table.NullFloat(),
		Source:     source,
	}

	switch {
	case rec.SndLvl != nil:
		ev.SoundLevel = table.F(*rec.SndLvl)
	case rec.Snd != nil && rec.Snd.SndLvl != nil:
		ev.SoundLevel = table.F(*rec.Snd.SndLvl)
	}

	switch {
	case rec.DBA != nil:
		ev.DBAWindow = rec.DBA
	case rec.Snd != nil:
		ev.DBAWindow = rec.Snd.Res.DBA
	}

	return ev, nil
}

func parseTimestamp(rec record) (time.Time, error) {
	for _, raw := range []string{rec.TS, rec.DTO} {
		if raw == "" {
			continue
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, errNoTimestamp
}
