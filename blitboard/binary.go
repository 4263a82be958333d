package blitboard

import (
	"encoding/binary"
	"errors"
	"io"
)

// RecordSize is the encoded size of a Position: eight masks followed by five
// 32-bit scalars, all little-endian.
const RecordSize = 8*8 + 5*4

// ErrRecordSize is returned when a binary record is not RecordSize bytes long.
var ErrRecordSize = errors.New("blitboard: invalid number of bytes for position record (expected 84)")

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (p Position) MarshalBinary() ([]byte, error) {
	data := make([]byte, RecordSize)
	p.put(data)
	return data, nil
}

func (p *Position) put(data []byte) {
	masks := [8]uint64{p.Pawns, p.Knights, p.Bishops, p.Rooks, p.Queens, p.Kings, p.White, p.Black}
	for i, m := range masks {
		binary.LittleEndian.PutUint64(data[i*8:], m)
	}
	scalars := [5]uint32{
		uint32(p.SideToMove),
		uint32(p.CastlingRights),
		uint32(p.EPTarget),
		p.HalfmoveClock,
		p.FullmoveNumber,
	}
	for i, s := range scalars {
		binary.LittleEndian.PutUint32(data[64+i*4:], s)
	}
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
// The record is loaded as-is; no invariants are checked.
func (p *Position) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return ErrRecordSize
	}
	u64 := func(i int) uint64 { return binary.LittleEndian.Uint64(data[i*8:]) }
	u32 := func(i int) uint32 { return binary.LittleEndian.Uint32(data[64+i*4:]) }

	*p = Position{
		Pawns:          u64(0),
		Knights:        u64(1),
		Bishops:        u64(2),
		Rooks:          u64(3),
		Queens:         u64(4),
		Kings:          u64(5),
		White:          u64(6),
		Black:          u64(7),
		SideToMove:     Color(u32(0)),
		CastlingRights: CastlingRights(u32(1)),
		EPTarget:       Square(u32(2)),
		HalfmoveClock:  u32(3),
		FullmoveNumber: u32(4),
	}
	return nil
}

// WriteRecord writes the binary record of p to w.
func (p *Position) WriteRecord(w io.Writer) error {
	var buf [RecordSize]byte
	p.put(buf[:])
	_, err := w.Write(buf[:])
	return err
}

// ReadRecord reads one binary record from r into p. It returns io.EOF when r
// is exhausted before the first byte and io.ErrUnexpectedEOF on a short record.
func (p *Position) ReadRecord(r io.Reader) error {
	var buf [RecordSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	return p.UnmarshalBinary(buf[:])
}
