// Package filestore persists grid values as CSV. Only computed values
// are stored; formulas and error states do not survive a save/load
// round trip.
package filestore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrBadFile indicates a file that could not be read or parsed.
var ErrBadFile = errors.New("filestore: bad file")

// Save writes the value rows as CSV.
func Save(w io.Writer, values [][]int64) error {
	cw := csv.NewWriter(w)
	record := make([]string, 0, 16)
	for _, row := range values {
		record = record[:0]
		for _, v := range row {
			record = append(record, strconv.FormatInt(v, 10))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Load parses CSV into value rows. Every field must be an integer;
// ragged rows are rejected by the CSV reader.
func Load(r io.Reader) ([][]int64, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFile, err)
	}

	out := make([][]int64, 0, len(records))
	for i, record := range records {
		row := make([]int64, len(record))
		for j, field := range record {
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d field %d: %q is not an integer", ErrBadFile, i+1, j+1, field)
			}
			row[j] = v
		}
		out = append(out, row)
	}
	return out, nil
}

// SaveFile writes the values to path, replacing any existing file.
func SaveFile(path string, values [][]int64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadFile, err)
	}
	if err := Save(f, values); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrBadFile, err)
	}
	return f.Close()
}

// LoadFile reads values from the CSV at path.
func LoadFile(path string) ([][]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFile, err)
	}
	defer f.Close()
	return Load(f)
}
