package blitboard_test

import (
	"testing"

	bb "fenblit/blitboard"
)

func TestPieceAt(t *testing.T) {
	p := bb.MustParseFEN(bb.FENStartPos)

	cases := []struct {
		sq    bb.Square
		pt    bb.PieceType
		color bb.Color
	}{
		{bb.A1, bb.PieceTypeRook, bb.White},   // a1
		{bb.E1, bb.PieceTypeKing, bb.White},   // e1
		{bb.A8, bb.PieceTypeRook, bb.Black},   // a8
		{bb.E8, bb.PieceTypeKing, bb.Black},   // e8
		{bb.NewSquare(3, 0), bb.PieceTypeQueen, bb.White},
		{bb.NewSquare(6, 7), bb.PieceTypeKnight, bb.Black},
		{bb.NewSquare(2, 6), bb.PieceTypePawn, bb.Black},
	}
	for _, c := range cases {
		pt, color, ok := p.PieceAt(c.sq)
		if !ok || pt != c.pt || color != c.color {
			t.Errorf("PieceAt(%s): got %v %v %t want %v %v", c.sq, pt, color, ok, c.pt, c.color)
		}
	}
	if _, _, ok := p.PieceAt(bb.NewSquare(4, 3)); ok {
		t.Errorf("expected e4 empty")
	}
	if _, _, ok := p.PieceAt(bb.NoSquare); ok {
		t.Errorf("expected NoSquare empty")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		p    bb.Position
		want bool
	}{
		{"empty", bb.NewPosition(), true},
		{"start", bb.MustParseFEN(bb.FENStartPos), true},
		{"two kinds on one square", bb.Position{Pawns: 1, Knights: 1, White: 1}, false},
		{"owner-less piece", bb.Position{Pawns: 1}, false},
		{"both colors", bb.Position{Pawns: 1, White: 1, Black: 1}, false},
		{"color without piece", bb.Position{White: 1}, false},
	}
	for _, c := range cases {
		if got := c.p.Validate(); got != c.want {
			t.Errorf("%s: Validate() = %t want %t", c.name, got, c.want)
		}
	}
}

func TestPiecesAndLetters(t *testing.T) {
	p := bb.MustParseFEN(bb.FENStartPos)
	if got := p.Pieces(bb.Black, bb.PieceTypePawn); got != 0x00FF000000000000 {
		t.Fatalf("black pawns: %#x", got)
	}
	if got := p.ByColor(bb.White); got != 0xFFFF {
		t.Fatalf("white occupancy: %#x", got)
	}
	if bb.PieceTypeKnight.Letter(bb.White) != 'N' || bb.PieceTypeKnight.Letter(bb.Black) != 'n' {
		t.Fatalf("knight letters wrong")
	}
	if got := bb.NewSquare(4, 2).String(); got != "e3" {
		t.Fatalf("square name: %q", got)
	}
	if got := bb.NoSquare.String(); got != "-" {
		t.Fatalf("NoSquare name: %q", got)
	}
}
