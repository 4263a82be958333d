package blitboard

// PieceType is a colorless piece kind. Each kind owns one mask in Position.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// pieceTypes lists the kinds in FEN letter order (P, N, B, R, Q, K).
var pieceTypes = [6]PieceType{
	PieceTypePawn,
	PieceTypeKnight,
	PieceTypeBishop,
	PieceTypeRook,
	PieceTypeQueen,
	PieceTypeKing,
}

// Letter returns the FEN letter of the piece kind for the given side.
func (pt PieceType) Letter(c Color) byte {
	var l byte
	switch pt {
	case PieceTypePawn:
		l = 'P'
	case PieceTypeKnight:
		l = 'N'
	case PieceTypeBishop:
		l = 'B'
	case PieceTypeRook:
		l = 'R'
	case PieceTypeQueen:
		l = 'Q'
	case PieceTypeKing:
		l = 'K'
	default:
		return '?'
	}
	if c == Black {
		l += 'a' - 'A'
	}
	return l
}

// pieceTypeFromLetter maps a FEN letter of either case to its kind and side.
func pieceTypeFromLetter(ch rune) (PieceType, Color, bool) {
	c := White
	if ch >= 'a' && ch <= 'z' {
		c = Black
		ch -= 'a' - 'A'
	}
	switch ch {
	case 'P':
		return PieceTypePawn, c, true
	case 'N':
		return PieceTypeKnight, c, true
	case 'B':
		return PieceTypeBishop, c, true
	case 'R':
		return PieceTypeRook, c, true
	case 'Q':
		return PieceTypeQueen, c, true
	case 'K':
		return PieceTypeKing, c, true
	default:
		return PieceTypeNone, White, false
	}
}

// Color is the side to move or the owner of a piece.
type Color uint32

const (
	White Color = 0
	Black Color = 1
)

func (c Color) String() string {
	if c&1 == Black {
		return "black"
	}
	return "white"
}

// Castling rights bit flags
type CastlingRights uint32

const (
	// White king-side (short) castling
	CastlingWhiteK CastlingRights = 1 << iota
	// White queen-side (long) castling
	CastlingWhiteQ
	// Black king-side castling
	CastlingBlackK
	// Black queen-side castling
	CastlingBlackQ

	CastlingAll = CastlingWhiteK | CastlingWhiteQ | CastlingBlackK | CastlingBlackQ
)

// Square represents a board position (0-63), a1 = 0, h8 = 63.
type Square uint32

// NoSquare is the en passant sentinel meaning "no target".
const NoSquare Square = 64

const (
	A1 Square = 0
	E1 Square = 4
	H1 Square = 7
	A8 Square = 56
	E8 Square = 60
	H8 Square = 63
)

// NewSquare returns the square on the given 0-indexed file and rank.
func NewSquare(file, rank int) Square { return Square(rank<<3 | file) }

// File returns the 0-indexed file (a = 0).
func (sq Square) File() int { return int(sq & 7) }

// Rank returns the 0-indexed rank (rank 1 = 0).
func (sq Square) Rank() int { return int(sq >> 3) }

func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// Scalar bounds of the move counters.
const (
	HalfmoveClockMax  = 100
	FullmoveNumberMin = 1
	FullmoveNumberMax = 500
)

// Position is the blitboard: one mask per piece kind, one per side and the
// scalar game state. It is a plain value; decoding builds a fresh one and
// encoding only reads it.
type Position struct {
	// Piece kind masks, irrespective of color
	Pawns   uint64
	Knights uint64
	Bishops uint64
	Rooks   uint64
	Queens  uint64
	Kings   uint64

	// Occupancy masks for each side
	White uint64
	Black uint64

	SideToMove     Color
	CastlingRights CastlingRights

	// En passant target square, or NoSquare
	EPTarget Square

	HalfmoveClock  uint32
	FullmoveNumber uint32
}

// NewPosition returns an empty board with the default scalar state
// (white to move, no castling, no en passant, clocks 0 and 1).
func NewPosition() Position {
	return Position{EPTarget: NoSquare, FullmoveNumber: FullmoveNumberMin}
}

// ==========================
// Bitboard helpers
// ==========================

// bb returns a bitboard with the given square bit set.
func bb(sq Square) uint64 { return 1 << uint64(sq) }

// Mask returns the colorless mask of a piece kind.
func (p *Position) Mask(pt PieceType) uint64 {
	switch pt {
	case PieceTypePawn:
		return p.Pawns
	case PieceTypeKnight:
		return p.Knights
	case PieceTypeBishop:
		return p.Bishops
	case PieceTypeRook:
		return p.Rooks
	case PieceTypeQueen:
		return p.Queens
	case PieceTypeKing:
		return p.Kings
	default:
		return 0
	}
}

// maskRef selects the mask a piece kind is accumulated into.
func (p *Position) maskRef(pt PieceType) *uint64 {
	switch pt {
	case PieceTypePawn:
		return &p.Pawns
	case PieceTypeKnight:
		return &p.Knights
	case PieceTypeBishop:
		return &p.Bishops
	case PieceTypeRook:
		return &p.Rooks
	case PieceTypeQueen:
		return &p.Queens
	case PieceTypeKing:
		return &p.Kings
	default:
		return nil
	}
}

// ByColor returns the occupancy mask of a side.
func (p *Position) ByColor(c Color) uint64 {
	if c&1 == Black {
		return p.Black
	}
	return p.White
}

// Pieces returns the squares holding the given kind for the given side.
func (p *Position) Pieces(c Color, pt PieceType) uint64 {
	return p.ByColor(c) & p.Mask(pt)
}

// Occupied returns a bitboard of all occupied squares.
func (p *Position) Occupied() uint64 { return p.White | p.Black }

// PieceAt reports the kind and side of the piece on sq.
func (p *Position) PieceAt(sq Square) (PieceType, Color, bool) {
	if sq >= NoSquare {
		return PieceTypeNone, White, false
	}
	m := bb(sq)
	c := White
	switch {
	case p.White&m != 0:
	case p.Black&m != 0:
		c = Black
	default:
		return PieceTypeNone, White, false
	}
	for _, pt := range pieceTypes {
		if p.Mask(pt)&m != 0 {
			return pt, c, true
		}
	}
	return PieceTypeNone, c, false
}

// place records a piece on sq in both its kind mask and its side mask.
func (p *Position) place(pt PieceType, c Color, sq Square) {
	m := bb(sq)
	*p.maskRef(pt) |= m
	if c == Black {
		p.Black |= m
	} else {
		p.White |= m
	}
}

// Validate checks the occupancy invariants: the sides are disjoint, the kinds
// are pairwise disjoint and every piece has exactly one owner.
func (p *Position) Validate() bool {
	if p.White&p.Black != 0 {
		return false
	}
	var union uint64
	for _, pt := range pieceTypes {
		m := p.Mask(pt)
		if union&m != 0 {
			return false
		}
		union |= m
	}
	return union == p.Occupied()
}

// ==========================
// Castling geometry
// ==========================

// castleRule ties one castling right to the squares it depends on.
type castleRule struct {
	right  CastlingRights
	letter byte
	color  Color
	king   Square
	rook   Square
}

// castleRules is in FEN letter order: K, Q, k, q.
var castleRules = [4]castleRule{
	{CastlingWhiteK, 'K', White, E1, H1},
	{CastlingWhiteQ, 'Q', White, E1, A1},
	{CastlingBlackK, 'k', Black, E8, H8},
	{CastlingBlackQ, 'q', Black, E8, A8},
}

// castlingPossible reports whether the king and rook a right depends on are
// both standing on their home squares.
func (p *Position) castlingPossible(r castleRule) bool {
	side := p.ByColor(r.color)
	return side&p.Kings&bb(r.king) != 0 && side&p.Rooks&bb(r.rook) != 0
}
