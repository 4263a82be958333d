package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"fenblit/blitboard"
)

// ParquetRecord is the columnar form of a position. Masks are stored as
// INT64 bit patterns.
type ParquetRecord struct {
	FEN            string `parquet:"name=fen, type=BYTE_ARRAY, convertedtype=UTF8"`
	Pawns          int64  `parquet:"name=pawns, type=INT64"`
	Knights        int64  `parquet:"name=knights, type=INT64"`
	Bishops        int64  `parquet:"name=bishops, type=INT64"`
	Rooks          int64  `parquet:"name=rooks, type=INT64"`
	Queens         int64  `parquet:"name=queens, type=INT64"`
	Kings          int64  `parquet:"name=kings, type=INT64"`
	White          int64  `parquet:"name=white, type=INT64"`
	Black          int64  `parquet:"name=black, type=INT64"`
	SideToMove     int32  `parquet:"name=side_to_move, type=INT32"`
	CastlingRights int32  `parquet:"name=castling_rights, type=INT32"`
	EPTarget       int32  `parquet:"name=ep_target, type=INT32"`
	HalfmoveClock  int32  `parquet:"name=halfmove_clock, type=INT32"`
	FullmoveNumber int32  `parquet:"name=fullmove_number, type=INT32"`
}

// NewParquetRecord flattens p; the FEN column holds its canonical encoding.
func NewParquetRecord(p blitboard.Position) ParquetRecord {
	return ParquetRecord{
		FEN:            p.ToFEN(),
		Pawns:          int64(p.Pawns),
		Knights:        int64(p.Knights),
		Bishops:        int64(p.Bishops),
		Rooks:          int64(p.Rooks),
		Queens:         int64(p.Queens),
		Kings:          int64(p.Kings),
		White:          int64(p.White),
		Black:          int64(p.Black),
		SideToMove:     int32(p.SideToMove),
		CastlingRights: int32(p.CastlingRights),
		EPTarget:       int32(p.EPTarget),
		HalfmoveClock:  int32(p.HalfmoveClock),
		FullmoveNumber: int32(p.FullmoveNumber),
	}
}

// Position rebuilds the position held in r.
func (r ParquetRecord) Position() blitboard.Position {
	return blitboard.Position{
		Pawns:          uint64(r.Pawns),
		Knights:        uint64(r.Knights),
		Bishops:        uint64(r.Bishops),
		Rooks:          uint64(r.Rooks),
		Queens:         uint64(r.Queens),
		Kings:          uint64(r.Kings),
		White:          uint64(r.White),
		Black:          uint64(r.Black),
		SideToMove:     blitboard.Color(r.SideToMove),
		CastlingRights: blitboard.CastlingRights(r.CastlingRights),
		EPTarget:       blitboard.Square(r.EPTarget),
		HalfmoveClock:  uint32(r.HalfmoveClock),
		FullmoveNumber: uint32(r.FullmoveNumber),
	}
}

// WriteParquet writes positions to a snappy-compressed parquet file.
func WriteParquet(path string, positions []blitboard.Position, parallel int64) error {
	return writeParquet(path, positions, parallel, nil)
}

func writeParquet(path string, positions []blitboard.Position, parallel int64, progress func(done int)) error {
	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(ParquetRecord), parallel)
	if err != nil {
		fileWriter.Close()
		return fmt.Errorf("create parquet writer: %w", err)
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	werr := writeRows(parquetWriter, positions, progress)
	// the footer is written even after a failed row so the writer's
	// goroutines and buffers are released
	serr := parquetWriter.WriteStop()
	cerr := fileWriter.Close()
	switch {
	case werr != nil:
		return werr
	case serr != nil:
		return fmt.Errorf("finish parquet: %w", serr)
	}
	return cerr
}

// rowWriter is the part of writer.ParquetWriter that writeRows drives.
type rowWriter interface {
	Write(src interface{}) error
}

func writeRows(w rowWriter, positions []blitboard.Position, progress func(done int)) error {
	for i := range positions {
		if err := w.Write(NewParquetRecord(positions[i])); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
		if progress != nil && (i+1)%100000 == 0 {
			progress(i + 1)
		}
	}
	return nil
}

// ReadParquet loads every position from a parquet file written by
// WriteParquet.
func ReadParquet(path string, parallel int64) ([]blitboard.Position, error) {
	absPath := path
	if !filepath.IsAbs(path) {
		if resolved, err := filepath.Abs(path); err == nil {
			absPath = resolved
		}
	}
	fileReader, err := local.NewLocalFileReader(absPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(ParquetRecord), parallel)
	if err != nil {
		return nil, fmt.Errorf("create parquet reader: %w", err)
	}
	defer parquetReader.ReadStop()

	num := int(parquetReader.GetNumRows())
	positions := make([]blitboard.Position, 0, num)
	batchSize := 1024
	for offset := 0; offset < num; offset += batchSize {
		if remain := num - offset; remain < batchSize {
			batchSize = remain
		}
		batch := make([]ParquetRecord, batchSize)
		if err := parquetReader.Read(&batch); err != nil {
			return nil, fmt.Errorf("read rows at %d: %w", offset, err)
		}
		for i := range batch {
			positions = append(positions, batch[i].Position())
		}
	}
	return positions, nil
}
