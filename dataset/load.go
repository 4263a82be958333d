// Package dataset reads FEN collections from text files and stores decoded
// positions in compact binary or parquet files.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fenblit/blitboard"
)

// Entry is one accepted line of a FEN collection.
type Entry struct {
	Line     int
	FEN      string // normalized record
	Position blitboard.Position
}

// LineError is one rejected line of a FEN collection.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e LineError) Unwrap() error { return e.Err }

// LoadFENs reads a text collection whose first column holds a FEN record.
// Columns are tab separated, or comma separated when isCSV is set; lines
// starting with '#' are skipped. A line that fails to decode does not stop
// the load: it is reported in the returned LineError slice instead.
func LoadFENs(path string, isCSV bool, maxRows int) ([]Entry, []LineError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadFENs(f, isCSV, maxRows)
}

// ReadFENs is LoadFENs over an open reader.
func ReadFENs(src io.Reader, isCSV bool, maxRows int) ([]Entry, []LineError, error) {
	r := csv.NewReader(bufio.NewReader(src))
	r.Comma = '\t'
	if isCSV {
		r.Comma = ','
	}
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var (
		out      []Entry
		rejected []LineError
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read: %w", err)
		}
		line, _ := r.FieldPos(0)

		fen := strings.TrimSpace(rec[0])
		if fen == "" {
			continue
		}
		dec, err := blitboard.Decode(fen)
		if err != nil {
			rejected = append(rejected, LineError{Line: line, Err: err})
			continue
		}
		out = append(out, Entry{Line: line, FEN: dec.FEN, Position: dec.Position})
		if maxRows > 0 && len(out) >= maxRows {
			break
		}
	}
	return out, rejected, nil
}

// Positions returns the positions of entries in order.
func Positions(entries []Entry) []blitboard.Position {
	out := make([]blitboard.Position, len(entries))
	for i := range entries {
		out[i] = entries[i].Position
	}
	return out
}
