package bench

import (
	"bytes"
	"testing"

	"fenblit/blitboard"
	"fenblit/dataset"
	"fenblit/interop"
	"fenblit/render"
)

var records = []struct {
	name string
	fen  string
}{
	{"Initial", blitboard.FENStartPos},
	{"Kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"},
	{"Pos6", "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10"},
	{"Empty", "8/8/8/8/8/8/8/8 w - - 0 1"},
}

func BenchmarkDecode(b *testing.B) {
	for _, r := range records {
		b.Run(r.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := blitboard.Decode(r.fen); err != nil {
					b.Fatalf("Decode: %v", err)
				}
			}
		})
	}
}

func BenchmarkEncode(b *testing.B) {
	for _, r := range records {
		p := blitboard.MustParseFEN(r.fen)
		b.Run(r.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = p.ToFEN()
			}
		})
	}
}

func BenchmarkDecodeError(b *testing.B) {
	const bad = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN9 w KQkq - 0 1"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := blitboard.Decode(bad); err == nil {
			b.Fatal("expected error")
		}
	}
}

func BenchmarkBinaryDataset(b *testing.B) {
	positions := make([]blitboard.Position, 0, 1024)
	for len(positions) < cap(positions) {
		for _, r := range records {
			positions = append(positions, blitboard.MustParseFEN(r.fen))
		}
	}
	var buf bytes.Buffer
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := dataset.EncodeBinary(&buf, positions, nil); err != nil {
			b.Fatal(err)
		}
		if _, err := dataset.DecodeBinary(&buf, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRenderBoard(b *testing.B) {
	p := blitboard.MustParseFEN(records[1].fen)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = render.Board(p)
	}
}

func BenchmarkToChess(b *testing.B) {
	p := blitboard.MustParseFEN(records[1].fen)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := interop.ToChess(p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkToDragontooth(b *testing.B) {
	p := blitboard.MustParseFEN(records[1].fen)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := interop.ToDragontooth(p); err != nil {
			b.Fatal(err)
		}
	}
}
