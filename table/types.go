package table

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Date is a calendar day in canonical YYYY-MM-DD form. Lexical order is
// chronological order, so dates sort and join as plain strings.
type Date string

// DateOf truncates a timestamp to its calendar date
func DateOf(t time.Time) Date {
	return Date(t.Format("2006-01-02"))
}

// ParseDate validates and canonicalizes a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return string(d)
}

// Float is a nullable CSV cell. NaN marshals to an empty field and an empty
// field unmarshals to NaN, so "statistic undefined for this day" survives a
// round trip as absence rather than zero.
type Float float64

// F wraps a plain float64
func F(v float64) Float {
	return Float(v)
}

// NullFloat returns the null cell value
func NullFloat() Float {
	return Float(math.NaN())
}

// IsNull reports whether the cell is empty
func (f Float) IsNull() bool {
	return math.IsNaN(float64(f))
}

// MarshalCSV implements gocsv.TypeMarshaller
func (f Float) MarshalCSV() (string, error) {
	if f.IsNull() {
		return "", nil
	}
	return strconv.FormatFloat(float64(f), 'g', -1, 64), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller
func (f *Float) UnmarshalCSV(s string) error {
	if s == "" {
		*f = NullFloat()
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid float cell %q: %w", s, err)
	}
	*f = Float(v)
	return nil
}
