// Package interop moves positions between blitboard and the board types of
// other Go chess libraries. Conversions go through canonical FEN and are then
// checked square by square against the other library's own board.
package interop

import (
	"errors"
	"fmt"

	chess "github.com/corentings/chess/v2"
	"github.com/dylhunn/dragontoothmg"

	"fenblit/blitboard"
)

// ErrMismatch is returned when a converted position disagrees with the board
// it was built from.
var ErrMismatch = errors.New("interop: piece placement mismatch")

// ==========================
// dragontoothmg
// ==========================

// ToDragontooth builds a dragontoothmg board from p.
func ToDragontooth(p blitboard.Position) (dragontoothmg.Board, error) {
	b := dragontoothmg.ParseFen(p.ToFEN())
	if err := compareDragontooth(p, &b); err != nil {
		return dragontoothmg.Board{}, err
	}
	return b, nil
}

// FromDragontooth decodes b's FEN and checks the result against b's bitboards.
func FromDragontooth(b *dragontoothmg.Board) (blitboard.Position, error) {
	p, err := blitboard.ParseFEN(b.ToFen())
	if err != nil {
		return blitboard.Position{}, fmt.Errorf("interop: dragontooth FEN: %w", err)
	}
	if err := compareDragontooth(p, b); err != nil {
		return blitboard.Position{}, err
	}
	return p, nil
}

func compareDragontooth(p blitboard.Position, b *dragontoothmg.Board) error {
	sides := [2]*dragontoothmg.Bitboards{&b.White, &b.Black}
	for i, c := range [2]blitboard.Color{blitboard.White, blitboard.Black} {
		s := sides[i]
		want := [6]uint64{s.Pawns, s.Knights, s.Bishops, s.Rooks, s.Queens, s.Kings}
		for j, pt := 0, blitboard.PieceTypePawn; pt <= blitboard.PieceTypeKing; j, pt = j+1, pt+1 {
			if got := p.Pieces(c, pt); got != want[j] {
				return fmt.Errorf("%w: %s %c: %#x vs %#x", ErrMismatch, c, pt.Letter(c), got, want[j])
			}
		}
		if p.ByColor(c) != s.All {
			return fmt.Errorf("%w: %s occupancy", ErrMismatch, c)
		}
	}
	if b.Wtomove != (p.SideToMove == blitboard.White) {
		return fmt.Errorf("%w: side to move", ErrMismatch)
	}
	return nil
}

// ==========================
// corentings/chess
// ==========================

// ToChess builds a chess.Position from p.
func ToChess(p blitboard.Position) (*chess.Position, error) {
	opt, err := chess.FEN(p.ToFEN())
	if err != nil {
		return nil, fmt.Errorf("interop: chess FEN: %w", err)
	}
	pos := chess.NewGame(opt).Position()
	if err := compareChess(p, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// FromChess decodes pos's FEN and checks the result against its square map.
func FromChess(pos *chess.Position) (blitboard.Position, error) {
	p, err := blitboard.ParseFEN(pos.String())
	if err != nil {
		return blitboard.Position{}, fmt.Errorf("interop: chess FEN: %w", err)
	}
	if err := compareChess(p, pos); err != nil {
		return blitboard.Position{}, err
	}
	return p, nil
}

var chessPieceTypes = map[chess.PieceType]blitboard.PieceType{
	chess.Pawn:   blitboard.PieceTypePawn,
	chess.Knight: blitboard.PieceTypeKnight,
	chess.Bishop: blitboard.PieceTypeBishop,
	chess.Rook:   blitboard.PieceTypeRook,
	chess.Queen:  blitboard.PieceTypeQueen,
	chess.King:   blitboard.PieceTypeKing,
}

func compareChess(p blitboard.Position, pos *chess.Position) error {
	var occupied uint64
	// chess.Square shares blitboard's numbering: a1 is 0, h8 is 63.
	for sq, piece := range pos.Board().SquareMap() {
		s := blitboard.Square(sq)
		pt, c, ok := p.PieceAt(s)
		if !ok {
			return fmt.Errorf("%w: %s empty", ErrMismatch, s)
		}
		wantColor := blitboard.White
		if piece.Color() == chess.Black {
			wantColor = blitboard.Black
		}
		if pt != chessPieceTypes[piece.Type()] || c != wantColor {
			return fmt.Errorf("%w: %s holds %c", ErrMismatch, s, pt.Letter(c))
		}
		occupied |= 1 << uint(s)
	}
	if occupied != p.Occupied() {
		return fmt.Errorf("%w: occupancy %#x vs %#x", ErrMismatch, p.Occupied(), occupied)
	}
	return nil
}
