package dataset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"fenblit/blitboard"
)

// headerSize is the little-endian record count at the start of a binary file.
const headerSize = 8

// maxPrealloc bounds the slice allocated up front from a header count.
const maxPrealloc = 1 << 16

// ErrHeader is returned when a header claims more records than the file holds.
var ErrHeader = errors.New("dataset: record count exceeds file size")

// ZstdExt marks binary files written as a zstd stream.
const ZstdExt = ".zst"

func compressed(path string) bool { return strings.HasSuffix(path, ZstdExt) }

// WriteBinary writes positions to path as a count header followed by
// fixed-size records.
func WriteBinary(path string, positions []blitboard.Position) error {
	return writeBinary(path, positions, nil)
}

func writeBinary(path string, positions []blitboard.Position, progress func(done int)) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close file: %w", cerr)
		}
	}()
	return encodeStream(f, compressed(path), positions, progress)
}

// encodeStream buffers w and, when compress is set, wraps it in a zstd
// stream. The encoder is closed on every return path.
func encodeStream(w io.Writer, compress bool, positions []blitboard.Position, progress func(done int)) (err error) {
	if compress {
		var enc *zstd.Encoder
		enc, err = zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("create zstd encoder: %w", err)
		}
		defer func() {
			if cerr := enc.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("close zstd encoder: %w", cerr)
			}
		}()
		w = enc
	}

	bw := bufio.NewWriter(w)
	if err := EncodeBinary(bw, positions, progress); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// EncodeBinary writes the count header and one record per position to w.
// progress, if set, is called after every 100000 records.
func EncodeBinary(w io.Writer, positions []blitboard.Position, progress func(done int)) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(positions))); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range positions {
		if err := positions[i].WriteRecord(w); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
		if progress != nil && (i+1)%100000 == 0 {
			progress(i + 1)
		}
	}
	return nil
}

// DecodeBinary reads a count header and up to maxRows records (0 = all).
// The header is not trusted: a stream shorter than it claims ends in a
// read error.
func DecodeBinary(r io.Reader, maxRows int) ([]blitboard.Position, error) {
	count, err := readHeader(r, math.MaxUint64)
	if err != nil {
		return nil, err
	}
	return decodeRecords(r, count, maxRows)
}

// readHeader reads the record count and rejects counts above limit.
func readHeader(r io.Reader, limit uint64) (uint64, error) {
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	if count > limit {
		return 0, fmt.Errorf("%w: header claims %d records, room for %d", ErrHeader, count, limit)
	}
	return count, nil
}

func decodeRecords(r io.Reader, count uint64, maxRows int) ([]blitboard.Position, error) {
	if maxRows > 0 && uint64(maxRows) < count {
		count = uint64(maxRows)
	}

	positions := make([]blitboard.Position, 0, min(count, maxPrealloc))
	for i := uint64(0); i < count; i++ {
		var p blitboard.Position
		if err := p.ReadRecord(r); err != nil {
			return nil, fmt.Errorf("read record %d: %w", i, err)
		}
		positions = append(positions, p)
	}
	return positions, nil
}

// openBinary opens path for reading, undoing zstd compression if needed.
// limit is the largest record count the file can hold: exact for plain
// files, math.MaxInt for zstd streams.
func openBinary(path string) (r io.Reader, limit uint64, done func(), err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("open file: %w", err)
	}
	if !compressed(path) {
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, 0, nil, fmt.Errorf("stat file: %w", err)
		}
		if size := fi.Size(); size > headerSize {
			limit = uint64(size-headerSize) / blitboard.RecordSize
		}
		return bufio.NewReader(f), limit, func() { f.Close() }, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, 0, nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return dec, math.MaxInt, func() { dec.Close(); f.Close() }, nil
}

// LoadBinary loads up to maxRows positions (0 = all) from a binary file.
func LoadBinary(path string, maxRows int) ([]blitboard.Position, error) {
	r, limit, done, err := openBinary(path)
	if err != nil {
		return nil, err
	}
	defer done()

	count, err := readHeader(r, limit)
	if err != nil {
		return nil, err
	}
	return decodeRecords(r, count, maxRows)
}

// BinarySize returns the record count stored in a binary file's header.
func BinarySize(path string) (int, error) {
	r, limit, done, err := openBinary(path)
	if err != nil {
		return 0, err
	}
	defer done()

	count, err := readHeader(r, limit)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// BinaryBytes is the uncompressed size of a binary file holding n records.
func BinaryBytes(n int) int64 { return int64(headerSize + n*blitboard.RecordSize) }
