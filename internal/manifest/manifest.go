package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const utf8BOM = "\ufeff"

// Row is one data record from the manifest.
type Row struct {
	// Line is the 1-based record number in the file (the header is line 1).
	Line   int
	fields map[string]string
	order  []string
}

// NewRow builds a Row from parallel header and value slices. Values beyond
// the header are ignored; headers beyond the values are left absent.
func NewRow(line int, header, values []string) Row {
	row := Row{Line: line, fields: make(map[string]string, len(header))}
	for i, name := range header {
		if i >= len(values) {
			break
		}
		if _, dup := row.fields[name]; !dup {
			row.order = append(row.order, name)
		}
		row.fields[name] = values[i]
	}
	return row
}

// Get returns the value stored under column name.
func (r Row) Get(name string) (string, bool) {
	value, ok := r.fields[name]
	return value, ok
}

// Columns returns the column names present in this row, in header order.
func (r Row) Columns() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// InputError reports a manifest that cannot be opened, parsed, or has no
// header record.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// ErrNoHeader is wrapped by InputError when the manifest is empty.
var ErrNoHeader = errors.New("no header record")

// Load reads every record of the CSV file at path.
func Load(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	defer file.Close()

	rows, err := Read(file)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	return rows, nil
}

// Read parses manifest records from r.
func Read(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	header = append([]string(nil), header...)

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line++
		rows = append(rows, NewRow(line, header, record))
	}
	return rows, nil
}
