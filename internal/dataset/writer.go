package dataset

import (
	"encoding/csv"
	"errors"
	"os"

	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/klauspost/compress/gzip"
)

// Writer streams the rows of one table to a CSV file, gzip-compressed when the
// path ends in ".gz". The header is written on creation.
type Writer struct {
	path string
	file *os.File
	gz   *gzip.Writer
	csv  *csv.Writer
	rows int
}

// Create truncates path and writes the header of t.
func Create(path string, t Table) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, failure.IO(err, "create %s", path)
	}

	w := &Writer{path: path, file: file}
	if IsCompressed(path) {
		w.gz = gzip.NewWriter(file)
		w.csv = csv.NewWriter(w.gz)
	} else {
		w.csv = csv.NewWriter(file)
	}

	if err := w.csv.Write(t.Columns); err != nil {
		w.Close()
		return nil, failure.IO(err, "write header of %s", path)
	}
	return w, nil
}

// Write appends one data row.
func (w *Writer) Write(record []string) error {
	if err := w.csv.Write(record); err != nil {
		return failure.IO(err, "write row %d of %s", w.rows+1, w.path)
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int {
	return w.rows
}

// Close flushes buffered rows and closes the file. It is safe to call more than once.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}

	var errs []error
	w.csv.Flush()
	errs = append(errs, w.csv.Error())
	if w.gz != nil {
		errs = append(errs, w.gz.Close())
	}
	errs = append(errs, w.file.Close())
	w.file = nil

	if err := errors.Join(errs...); err != nil {
		return failure.IO(err, "close %s", w.path)
	}
	return nil
}
