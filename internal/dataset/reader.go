package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/klauspost/compress/gzip"
)

// Reader reads the data rows of one table file written by Writer.
type Reader struct {
	path string
	file *os.File
	gz   *gzip.Reader
	csv  *csv.Reader
	line int
}

// Open opens path and checks that its header matches t exactly.
func Open(path string, t Table) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, failure.IO(err, "open %s", path)
	}

	r := &Reader{path: path, file: file}
	var src io.Reader = file
	if IsCompressed(path) {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, failure.IO(err, "open gzip stream %s", path)
		}
		r.gz = gz
		src = gz
	}

	r.csv = csv.NewReader(src)
	r.csv.FieldsPerRecord = len(t.Columns)

	header, err := r.csv.Read()
	if err != nil {
		r.Close()
		return nil, failure.IO(err, "read header of %s", path)
	}
	r.line = 1
	if strings.Join(header, ",") != strings.Join(t.Columns, ",") {
		r.Close()
		return nil, failure.IO(fmt.Errorf("got %v, want %v", header, t.Columns), "unexpected header in %s", path)
	}
	return r, nil
}

// Read returns the next data row, or io.EOF after the last one.
func (r *Reader) Read() ([]string, error) {
	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, failure.IO(err, "read %s", r.path)
	}
	r.line++
	return record, nil
}

// Line returns the file line of the row returned by the last Read.
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	var gzErr error
	if r.gz != nil {
		gzErr = r.gz.Close()
	}
	err := errors.Join(gzErr, r.file.Close())
	r.file = nil
	return err
}

// ReadAll reads every data row of a table file.
func ReadAll(path string, t Table) ([][]string, error) {
	r, err := Open(path, t)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var rows [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
}
