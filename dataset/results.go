// File: results.go
// Role: the daily result table, one CSV per city plus the pooled aggregate.

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/oudeng/Interconnected-SEIRAH/stats"
)

// ResultHeader is the column layout of a result file.
var ResultHeader = []string{
	"Date", "Day", "beta_t", "S", "E", "I", "R", "A", "H",
	"Rt_NWK", "Tt_NWK", "realH", "N", "k", "p", "NCom",
}

// Row is one day of one city (or of the aggregate).
type Row struct {
	Date   string
	Day    int
	Beta   float64
	Vector [stats.VectorLen]float64
	// RealH is the observed count, NaN when unknown.
	RealH     float64
	N         int
	K         int
	P         float64
	Commuters int
}

// ResultWriter writes rows under ResultHeader.
type ResultWriter struct {
	w *csv.Writer
}

// NewResultWriter writes the header to w.
func NewResultWriter(w io.Writer) (*ResultWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultHeader); err != nil {
		return nil, fmt.Errorf("NewResultWriter: %w", err)
	}
	return &ResultWriter{w: cw}, nil
}

// Write appends one row.
func (rw *ResultWriter) Write(r Row) error {
	rec := make([]string, 0, len(ResultHeader))
	rec = append(rec, r.Date, strconv.Itoa(r.Day), formatFloat(r.Beta))
	for _, v := range r.Vector {
		rec = append(rec, formatFloat(v))
	}
	rec = append(rec,
		formatFloat(r.RealH),
		strconv.Itoa(r.N),
		strconv.Itoa(r.K),
		formatFloat(r.P),
		strconv.Itoa(r.Commuters),
	)
	if err := rw.w.Write(rec); err != nil {
		return fmt.Errorf("ResultWriter.Write(day %d): %w", r.Day, err)
	}
	return nil
}

// Flush writes buffered rows and reports any write error.
func (rw *ResultWriter) Flush() error {
	rw.w.Flush()
	return rw.w.Error()
}

// ReadResults parses a file produced by ResultWriter.
func ReadResults(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ResultHeader)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("ReadResults: header: %w", err)
	}
	for i, name := range ResultHeader {
		if header[i] != name {
			return nil, fmt.Errorf("ReadResults: column %d is %q, want %q: %w", i, header[i], name, ErrMissingColumn)
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadResults: line %d: %w", line, err)
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("ReadResults: line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ReadResults: %w", ErrEmpty)
	}
	return rows, nil
}

func parseRow(rec []string) (Row, error) {
	var (
		row  = Row{Date: rec[0]}
		errs []error
	)
	num := func(i int) float64 {
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", ResultHeader[i], rec[i], ErrBadValue))
		}
		return v
	}
	integer := func(i int) int {
		v, err := strconv.Atoi(rec[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", ResultHeader[i], rec[i], ErrBadValue))
		}
		return v
	}

	row.Day = integer(1)
	row.Beta = num(2)
	for i := range row.Vector {
		row.Vector[i] = num(3 + i)
	}
	row.RealH = num(11)
	row.N = integer(12)
	row.K = integer(13)
	row.P = num(14)
	row.Commuters = integer(15)

	return row, errors.Join(errs...)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ResultSet owns one result file per name in a directory.
type ResultSet struct {
	files   []*os.File
	writers []*ResultWriter
}

// CreateResultSet creates dir/<prefix>_<name>.csv for every name.
func CreateResultSet(dir, prefix string, names []string) (*ResultSet, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("CreateResultSet(%s): %w", dir, err)
	}
	rs := &ResultSet{}
	for _, name := range names {
		f, err := os.Create(ResultPath(dir, prefix, name))
		if err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("CreateResultSet(%s): %w", dir, err)
		}
		rs.files = append(rs.files, f)
		w, err := NewResultWriter(f)
		if err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("CreateResultSet(%s): %w", dir, err)
		}
		rs.writers = append(rs.writers, w)
	}
	return rs, nil
}

// ResultPath returns the file name used for name.
func ResultPath(dir, prefix, name string) string {
	return filepath.Join(dir, prefix+"_"+name+".csv")
}

// Write appends row to the i-th file.
func (rs *ResultSet) Write(i int, row Row) error {
	if i < 0 || i >= len(rs.writers) {
		return fmt.Errorf("ResultSet.Write: file %d of %d", i, len(rs.writers))
	}
	return rs.writers[i].Write(row)
}

// Close flushes and closes every file, returning the first error.
func (rs *ResultSet) Close() error {
	var errs []error
	for i, f := range rs.files {
		if i < len(rs.writers) {
			errs = append(errs, rs.writers[i].Flush())
		}
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}
