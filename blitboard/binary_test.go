package blitboard_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	bb "fenblit/blitboard"
)

func TestPositionBinary(t *testing.T) {
	p := bb.MustParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	data, err := p.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(data) != bb.RecordSize {
		t.Fatalf("record size: got %d want %d", len(data), bb.RecordSize)
	}
	// Layout: masks first, then the scalars.
	if got := binary.LittleEndian.Uint64(data[0:8]); got != p.Pawns {
		t.Fatalf("pawns at offset 0: got %#x want %#x", got, p.Pawns)
	}
	if got := binary.LittleEndian.Uint32(data[72:76]); got != uint32(p.EPTarget) {
		t.Fatalf("ep target at offset 72: got %d want %d", got, p.EPTarget)
	}

	var q bb.Position
	if err := q.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if q != p {
		t.Fatalf("binary round trip mismatch:\n got %+v\nwant %+v", q, p)
	}

	if err := q.UnmarshalBinary(data[:10]); !errors.Is(err, bb.ErrRecordSize) {
		t.Fatalf("short record: got %v want ErrRecordSize", err)
	}
}

func TestPositionRecordStream(t *testing.T) {
	positions := []bb.Position{
		bb.MustParseFEN(bb.FENStartPos),
		bb.MustParseFEN("8/8/8/8/8/8/8/K6k b - - 12 40"),
	}
	var buf bytes.Buffer
	for i := range positions {
		if err := positions[i].WriteRecord(&buf); err != nil {
			t.Fatalf("WriteRecord: %v", err)
		}
	}
	if buf.Len() != 2*bb.RecordSize {
		t.Fatalf("stream size: got %d", buf.Len())
	}

	for i := range positions {
		var p bb.Position
		if err := p.ReadRecord(&buf); err != nil {
			t.Fatalf("ReadRecord %d: %v", i, err)
		}
		if p != positions[i] {
			t.Fatalf("record %d mismatch", i)
		}
	}
	var p bb.Position
	if err := p.ReadRecord(&buf); err != io.EOF {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
	if err := p.ReadRecord(bytes.NewReader(make([]byte, 5))); err != io.ErrUnexpectedEOF {
		t.Fatalf("expected io.ErrUnexpectedEOF on short record, got %v", err)
	}
}
