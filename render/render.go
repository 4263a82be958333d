// Package render draws blitboard positions for people: plain text grids for
// terminals and SVG diagrams for browsers.
package render

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"fenblit/blitboard"
)

const emptyCell = '.'

// grid returns the 64 cells of p, rank 8 first, files a to h.
func grid(p blitboard.Position) [64]byte {
	var cells [64]byte
	for i := range cells {
		cells[i] = emptyCell
	}
	for _, c := range [2]blitboard.Color{blitboard.White, blitboard.Black} {
		for pt := blitboard.PieceTypePawn; pt <= blitboard.PieceTypeKing; pt++ {
			letter := pt.Letter(c)
			for m := p.Pieces(c, pt); m != 0; m &= m - 1 {
				sq := blitboard.Square(blitboard.BitScanForward(m))
				cells[(7-sq.Rank())<<3+sq.File()] = letter
			}
		}
	}
	return cells
}

// Board returns an 8x8 text grid of p: rank 8 on the first line, one space
// between cells, '.' for an empty square.
func Board(p blitboard.Position) string {
	cells := grid(p)
	var sb strings.Builder
	for r := 0; r < 8; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for f := 0; f < 8; f++ {
			if f > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(cells[r<<3+f])
		}
	}
	return sb.String()
}

// Mask returns the hex value of a single bitboard followed by its 8x8 grid,
// '1' for a set square.
func Mask(bb uint64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "0x%X", bb)
	for r := 7; r >= 0; r-- {
		sb.WriteByte('\n')
		for f := 0; f < 8; f++ {
			if f > 0 {
				sb.WriteByte(' ')
			}
			if bb&(1<<uint(r<<3+f)) != 0 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte(emptyCell)
			}
		}
	}
	return sb.String()
}

// ==========================
// SVG
// ==========================

// Options controls SVG output.
type Options struct {
	// SquareSize is the side of one square in pixels; 0 means 48.
	SquareSize int
	// Coordinates adds file letters and rank digits around the board.
	Coordinates bool
	// Flip draws the board from Black's side.
	Flip bool
}

const (
	lightSquare = "fill:#f0d9b5"
	darkSquare  = "fill:#b58863"
)

var glyphs = map[byte]string{
	'K': "♔", 'Q': "♕", 'R': "♖", 'B': "♗", 'N': "♘", 'P': "♙",
	'k': "♚", 'q': "♛", 'r': "♜", 'b': "♝", 'n': "♞", 'p': "♟",
}

// SVG writes a diagram of p to w.
func SVG(w io.Writer, p blitboard.Position, opts Options) {
	size := opts.SquareSize
	if size <= 0 {
		size = 48
	}
	margin := 0
	if opts.Coordinates {
		margin = size / 2
	}
	cells := grid(p)

	canvas := svg.New(w)
	canvas.Start(8*size+2*margin, 8*size+2*margin)
	canvas.Title(p.ToFEN())

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			// row 0 is rank 8 unless flipped
			rank, file := 7-row, col
			if opts.Flip {
				rank, file = row, 7-col
			}
			x, y := margin+col*size, margin+row*size
			style := darkSquare
			if (rank+file)%2 == 1 {
				style = lightSquare
			}
			canvas.Rect(x, y, size, size, style)

			if g, ok := glyphs[cells[(7-rank)<<3+file]]; ok {
				canvas.Text(x+size/2, y+size*4/5, g,
					fmt.Sprintf("text-anchor:middle;font-size:%dpx;fill:#000", size*4/5))
			}
		}
	}

	if opts.Coordinates {
		label := fmt.Sprintf("text-anchor:middle;font-size:%dpx;fill:#333", size/3)
		for i := 0; i < 8; i++ {
			file, rank := i, 7-i
			if opts.Flip {
				file, rank = 7-i, i
			}
			canvas.Text(margin+i*size+size/2, 8*size+2*margin-margin/4, string(rune('a'+file)), label)
			canvas.Text(margin/2, margin+i*size+size*3/5, string(rune('1'+rank)), label)
		}
	}
	canvas.End()
}
