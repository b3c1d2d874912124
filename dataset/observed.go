// Package dataset reads the observed hospitalization series and writes
// per-city daily results as CSV.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissingColumn indicates a configured column is absent from the header.
	ErrMissingColumn = errors.New("dataset: missing column")

	// ErrBadValue indicates a cell that does not parse as a number.
	ErrBadValue = errors.New("dataset: bad value")

	// ErrEmpty indicates a file with a header and no rows.
	ErrEmpty = errors.New("dataset: no rows")
)

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{"2006-01-02", "2006/1/2", "1/2/2006", "2006-01-02 15:04:05"}

// Columns names the columns to read. Ratio may be empty.
type Columns struct {
	Date   string
	Total  string
	Ratio  string
	Cities []string
}

// Series is the observed data aligned to simulated day index: row d is day d.
type Series struct {
	Dates []string
	// Total is the pooled hospitalization count compared during calibration.
	Total []float64
	// Ratio is the daily commuting ratio; nil when no ratio column was read.
	Ratio []float64
	// Cities holds one column per Columns.Cities entry.
	Cities [][]float64
}

// Len returns the number of days.
func (s Series) Len() int { return len(s.Total) }

// RatioAt returns the commuting ratio for day, or fallback when the series
// has none for it.
func (s Series) RatioAt(day int, fallback float64) float64 {
	if day < 0 || day >= len(s.Ratio) {
		return fallback
	}
	return s.Ratio[day]
}

// CityAt returns every city's observation for day; NaN when out of range.
func (s Series) CityAt(day int) []float64 {
	out := make([]float64, len(s.Cities))
	for i, col := range s.Cities {
		if day >= 0 && day < len(col) {
			out[i] = col[day]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// TotalAt returns the pooled observation for day, NaN when out of range.
func (s Series) TotalAt(day int) float64 {
	if day < 0 || day >= len(s.Total) {
		return math.NaN()
	}
	return s.Total[day]
}

// DateAt labels day: the recorded date when present, otherwise the first
// date plus day days. Unparseable dates give "".
func (s Series) DateAt(day int) string {
	if day >= 0 && day < len(s.Dates) {
		return s.Dates[day]
	}
	if len(s.Dates) == 0 {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s.Dates[0]); err == nil {
			return t.AddDate(0, 0, day).Format("2006-01-02")
		}
	}
	return ""
}

// ReadObserved reads a CSV file of observations.
func ReadObserved(path string, cols Columns) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, fmt.Errorf("ReadObserved(%s): %w", path, err)
	}
	defer f.Close()

	s, err := ParseObserved(f, cols)
	if err != nil {
		return Series{}, fmt.Errorf("ReadObserved(%s): %w", path, err)
	}
	return s, nil
}

// ParseObserved reads observations from r. The first row is the header;
// extra columns are ignored.
func ParseObserved(r io.Reader, cols Columns) (Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return Series{}, fmt.Errorf("ParseObserved: header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	lookup := func(name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, fmt.Errorf("ParseObserved: %q: %w", name, ErrMissingColumn)
		}
		return i, nil
	}

	dateIdx, err := lookup(cols.Date)
	if err != nil {
		return Series{}, err
	}
	totalIdx, err := lookup(cols.Total)
	if err != nil {
		return Series{}, err
	}
	ratioIdx := -1
	if cols.Ratio != "" {
		if ratioIdx, err = lookup(cols.Ratio); err != nil {
			return Series{}, err
		}
	}
	cityIdx := make([]int, len(cols.Cities))
	for i, name := range cols.Cities {
		if cityIdx[i], err = lookup(name); err != nil {
			return Series{}, err
		}
	}

	s := Series{Cities: make([][]float64, len(cols.Cities))}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Series{}, fmt.Errorf("ParseObserved: line %d: %w", line, err)
		}
		s.Dates = append(s.Dates, rec[dateIdx])

		v, err := parseCell(rec, totalIdx, line, cols.Total)
		if err != nil {
			return Series{}, err
		}
		s.Total = append(s.Total, v)
		if ratioIdx >= 0 {
			if v, err = parseCell(rec, ratioIdx, line, cols.Ratio); err != nil {
				return Series{}, err
			}
			s.Ratio = append(s.Ratio, v)
		}
		for i, idx := range cityIdx {
			if v, err = parseCell(rec, idx, line, cols.Cities[i]); err != nil {
				return Series{}, err
			}
			s.Cities[i] = append(s.Cities[i], v)
		}
	}
	if len(s.Total) == 0 {
		return Series{}, fmt.Errorf("ParseObserved: %w", ErrEmpty)
	}

	return s, nil
}

func parseCell(rec []string, idx, line int, column string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("ParseObserved: line %d column %q: %w: %w", line, column, ErrBadValue, err)
	}
	return v, nil
}
