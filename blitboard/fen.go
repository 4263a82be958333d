package blitboard

import (
	"strconv"
	"strings"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// counterLiteralMax is the largest clock literal the decoder accepts before
// clamping it into range.
const counterLiteralMax = 9999

// emptyMarker stands for one empty square while the placement is encoded.
const emptyMarker = '1'

// Decoded is a successfully parsed record.
type Decoded struct {
	Position Position
	// FEN is the input with surrounding spaces trimmed and inner runs collapsed.
	FEN string
}

// decoder accumulates one record. It lives for a single Decode call.
type decoder struct {
	record string
	pos    Position
}

func (d *decoder) fail(kind error, f Field, offset int, msg string) *ParseError {
	return &ParseError{Kind: kind, Field: f, Offset: offset, Msg: msg, Record: d.record}
}

// Decode parses a FEN record. Fields are read in order and the first invalid
// one aborts the parse with a *ParseError; trailing fields may be omitted and
// keep their defaults.
func Decode(fen string) (Decoded, error) {
	fields := splitFields(fen)
	d := decoder{record: strings.Join(fields, " "), pos: NewPosition()}

	if len(fields) == 0 {
		return Decoded{}, d.fail(ErrEmptyInput, FieldPiecePlacement, 0, "the record is empty")
	}
	if len(fields) > NumFields {
		return Decoded{}, d.fail(ErrArity, FieldExtra, 0, "the maximum number of fields was exceeded")
	}

	for i, text := range fields {
		var err error
		switch Field(i) {
		case FieldPiecePlacement:
			err = d.piecePlacement(text)
		case FieldSideToMove:
			err = d.sideToMove(text)
		case FieldCastlingRights:
			err = d.castlingRights(text)
		case FieldEnPassant:
			err = d.enPassant(text)
		case FieldHalfmoveClock:
			d.pos.HalfmoveClock, err = d.counter(text, FieldHalfmoveClock, 0, HalfmoveClockMax)
		case FieldFullmoveNumber:
			d.pos.FullmoveNumber, err = d.counter(text, FieldFullmoveNumber, FullmoveNumberMin, FullmoveNumberMax)
		}
		if err != nil {
			return Decoded{}, err
		}
	}
	return Decoded{Position: d.pos, FEN: d.record}, nil
}

// ParseFEN parses a FEN string and returns the position it describes.
func ParseFEN(fen string) (Position, error) {
	dec, err := Decode(fen)
	if err != nil {
		return Position{}, err
	}
	return dec.Position, nil
}

// MustParseFEN is ParseFEN for trusted input; it panics on error.
func MustParseFEN(fen string) Position {
	p, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return p
}

// ==========================
// Field parsers
// ==========================

func (d *decoder) piecePlacement(field string) error {
	square, rankSquares := 0, 0

	for i, ch := range []rune(field) {
		if square > 63 {
			return d.fail(ErrStructure, FieldPiecePlacement, i, "the board size was exceeded")
		}

		switch {
		case ch >= '1' && ch <= '8':
			stride := int(ch - '0')
			if square+stride > 64 {
				return d.fail(ErrStructure, FieldPiecePlacement, i, "the board size was exceeded")
			}
			if stride > 8-rankSquares {
				return d.fail(ErrStructure, FieldPiecePlacement, i, "the rank width was exceeded")
			}
			rankSquares += stride
			square += stride

		case ch == '/':
			if rankSquares < 8 {
				return d.fail(ErrStructure, FieldPiecePlacement, i, "the rank is incomplete")
			}
			rankSquares = 0

		default:
			pt, c, ok := pieceTypeFromLetter(ch)
			if !ok {
				return d.fail(ErrStructure, FieldPiecePlacement, i,
					"invalid character "+strconv.QuoteRune(ch)+" at index "+strconv.Itoa(i))
			}
			if rankSquares > 7 {
				return d.fail(ErrStructure, FieldPiecePlacement, i, "the rank width was exceeded")
			}
			// Ranks are listed from rank 8 down, files from a to h.
			rank := 7 - square>>3
			file := square & 7
			d.pos.place(pt, c, NewSquare(file, rank))
			rankSquares++
			square++
		}
	}

	if square != 64 {
		return d.fail(ErrStructure, FieldPiecePlacement, len([]rune(field))-1, "the board is incomplete")
	}
	return nil
}

func (d *decoder) sideToMove(field string) error {
	runes := []rune(field)
	if len(runes) != 1 {
		return d.fail(ErrFieldLength, FieldSideToMove, 0, "the field must be a single character")
	}
	switch runes[0] {
	case 'w':
		d.pos.SideToMove = White
	case 'b':
		d.pos.SideToMove = Black
	default:
		return d.fail(ErrFieldValue, FieldSideToMove, 0, "invalid character "+strconv.QuoteRune(runes[0]))
	}
	return nil
}

// castlingRights records only the rights whose king and rook stand on their
// home squares; others are dropped without error.
func (d *decoder) castlingRights(field string) error {
	if field == "-" {
		return nil
	}

	var requested CastlingRights
	for i, ch := range []rune(field) {
		switch ch {
		case 'K':
			requested |= CastlingWhiteK
		case 'Q':
			requested |= CastlingWhiteQ
		case 'k':
			requested |= CastlingBlackK
		case 'q':
			requested |= CastlingBlackQ
		default:
			return d.fail(ErrFieldValue, FieldCastlingRights, i,
				"invalid character "+strconv.QuoteRune(ch)+" at index "+strconv.Itoa(i))
		}
	}

	for _, r := range castleRules {
		if requested&r.right != 0 && d.pos.castlingPossible(r) {
			d.pos.CastlingRights |= r.right
		}
	}
	return nil
}

// enPassant accepts any square syntactically but keeps only targets on the
// third and sixth ranks.
func (d *decoder) enPassant(field string) error {
	if field == "-" {
		d.pos.EPTarget = NoSquare
		return nil
	}

	runes := []rune(field)
	switch {
	case len(runes) > 2:
		return d.fail(ErrFieldLength, FieldEnPassant, 2, "the field is longer than two characters")
	case len(runes) < 2:
		return d.fail(ErrFieldLength, FieldEnPassant, 1, "the rank is missing")
	}

	file, rank := runes[0], runes[1]
	if file < 'a' || file > 'h' {
		return d.fail(ErrFieldValue, FieldEnPassant, 0, "invalid character "+strconv.QuoteRune(file)+" at index 0")
	}
	if rank < '1' || rank > '8' {
		return d.fail(ErrFieldValue, FieldEnPassant, 1, "invalid character "+strconv.QuoteRune(rank)+" at index 1")
	}

	switch rank {
	case '3':
		d.pos.EPTarget = NewSquare(int(file-'a'), 2)
	case '6':
		d.pos.EPTarget = NewSquare(int(file-'a'), 5)
	default:
		d.pos.EPTarget = NoSquare
	}
	return nil
}

// counter parses an unsigned decimal literal no larger than counterLiteralMax
// and clamps it into [low, high].
func (d *decoder) counter(field string, f Field, low, high uint32) (uint32, error) {
	for i, ch := range []rune(field) {
		if ch < '0' || ch > '9' {
			return 0, d.fail(ErrNumeric, f, i, "the value is not a number")
		}
	}
	v, err := strconv.ParseUint(field, 10, 32)
	if err != nil || v > counterLiteralMax {
		return 0, d.fail(ErrNumeric, f, 0, "the value is out of range")
	}
	return Clamp(uint32(v), low, high), nil
}

// ==========================
// Encoder
// ==========================

// ToFEN produces the canonical FEN string of the position. Scalars outside
// their ranges are masked or clamped; castling rights whose king or rook has
// left its home square are omitted.
func (p Position) ToFEN() string {
	var sb strings.Builder
	sb.Grow(90)

	// 1. Piece placement
	sb.WriteString(p.placement())
	sb.WriteByte(' ')

	// 2. Side to move
	if p.SideToMove&1 == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')

	// 3. Castling rights
	rights := p.CastlingRights & CastlingAll
	n := sb.Len()
	for _, r := range castleRules {
		if rights&r.right != 0 && p.castlingPossible(r) {
			sb.WriteByte(r.letter)
		}
	}
	if sb.Len() == n {
		sb.WriteByte('-')
	}
	sb.WriteByte(' ')

	// 4. En passant square
	ep := Clamp(p.EPTarget, 0, NoSquare)
	if ep != NoSquare && (ep.Rank() == 2 || ep.Rank() == 5) {
		sb.WriteString(ep.String())
	} else {
		sb.WriteByte('-')
	}
	sb.WriteByte(' ')

	// 5. Halfmove clock
	sb.WriteString(strconv.FormatUint(uint64(Clamp[uint32](p.HalfmoveClock, 0, HalfmoveClockMax)), 10))
	sb.WriteByte(' ')

	// 6. Fullmove number
	sb.WriteString(strconv.FormatUint(uint64(Clamp[uint32](p.FullmoveNumber, FullmoveNumberMin, FullmoveNumberMax)), 10))
	return sb.String()
}

// String implements fmt.Stringer and returns the canonical FEN.
func (p Position) String() string { return p.ToFEN() }

// placement writes every piece into a rank-8-first grid of empty markers,
// splits it into ranks and collapses runs of empty squares, longest first.
func (p Position) placement() string {
	var grid [64]byte
	for i := range grid {
		grid[i] = emptyMarker
	}

	for _, c := range [2]Color{White, Black} {
		for _, pt := range pieceTypes {
			letter := pt.Letter(c)
			for m := p.Pieces(c, pt); m != 0; m &= m - 1 {
				sq := Square(BitScanForward(m))
				grid[(7-sq.Rank())<<3+sq.File()] = letter
			}
		}
	}

	ranks := make([]string, 8)
	for r := range ranks {
		ranks[r] = string(grid[r<<3 : r<<3+8])
	}
	s := strings.Join(ranks, "/")

	for run := 8; run > 1; run-- {
		s = strings.ReplaceAll(s, strings.Repeat(string(rune(emptyMarker)), run), strconv.Itoa(run))
	}
	return s
}
