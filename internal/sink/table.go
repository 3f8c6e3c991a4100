package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// DefaultDelimiter separates CSV fields.
const DefaultDelimiter = ';'

// Table appends rows of named scalar columns. The first value of every row
// is the time.
type Table interface {
	Append(t float64, values []float64) error
	Close() error
}

// Column is a named scalar produced once per tick.
type Column struct {
	Name  string
	Value func() float64
}

// Names lists the column names in order.
func Names(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

// NewTable opens a table by kind: "csv" (default) or "sqlite".
func NewTable(kind, path, runID string, names []string) (Table, error) {
	switch kind {
	case "", "csv":
		return NewCSVTable(path, names, DefaultDelimiter)
	case "sqlite":
		return newSQLiteTable(path, runID, names)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownSink, kind)
	}
}

// Recorder samples columns into a table on every tick.
type Recorder struct {
	table Table
	cols  []Column
	time  float64
	rows  int
}

// NewRecorder ties cols to table.
func NewRecorder(table Table, cols []Column) *Recorder {
	return &Recorder{table: table, cols: cols}
}

// Tick advances the clock by dt and appends one row.
func (r *Recorder) Tick(dt float64) error {
	r.time += dt
	values := make([]float64, len(r.cols))
	for i, c := range r.cols {
		values[i] = c.Value()
	}
	if err := r.table.Append(r.time, values); err != nil {
		return fmt.Errorf("row %d: %w", r.rows, err)
	}
	r.rows++
	return nil
}

// Rows reports how many rows were appended.
func (r *Recorder) Rows() int { return r.rows }

// Close closes the table.
func (r *Recorder) Close() error { return r.table.Close() }

// CSVTable writes delimiter separated rows with a header line.
type CSVTable struct {
	file   *os.File
	writer *csv.Writer
	width  int
}

// NewCSVTable creates path and writes the header "time" followed by names.
func NewCSVTable(path string, names []string, delim rune) (*CSVTable, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(file)
	w.Comma = delim
	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		_ = file.Close()
		return nil, err
	}
	return &CSVTable{file: file, writer: w, width: len(names)}, nil
}

// Append writes one row.
func (c *CSVTable) Append(t float64, values []float64) error {
	if len(values) != c.width {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), c.width)
	}
	record := make([]string, 0, len(values)+1)
	record = append(record, strconv.FormatFloat(t, 'f', -1, 64))
	for _, v := range values {
		record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return c.writer.Write(record)
}

// Close flushes and closes the file.
func (c *CSVTable) Close() error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		_ = c.file.Close()
		return err
	}
	return c.file.Close()
}
