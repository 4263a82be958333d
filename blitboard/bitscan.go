package blitboard

const debruijn64 = 0x03f79d71b4cb0a89

var debruijnIndex = [64]int{
	0, 47, 1, 56, 48, 27, 2, 60,
	57, 49, 41, 37, 28, 16, 3, 61,
	54, 58, 35, 52, 50, 42, 21, 44,
	38, 32, 29, 23, 17, 11, 4, 62,
	46, 55, 26, 59, 40, 36, 15, 53,
	34, 51, 20, 43, 31, 22, 10, 45,
	25, 39, 14, 33, 19, 30, 9, 24,
	13, 18, 8, 12, 7, 6, 5, 63,
}

// BitScanForward returns the index of the least significant bit.
// bb must be non-zero.
func BitScanForward(bb uint64) int {
	// bb^(bb-1) keeps the lowest set bit and every bit below it.
	return debruijnIndex[((bb^(bb-1))*debruijn64)>>58]
}

// Squares extracts the set squares of a bitboard, lowest first.
func Squares(bb uint64) []Square {
	var squares []Square
	for bb != 0 {
		squares = append(squares, Square(BitScanForward(bb)))
		bb &= bb - 1 // clear lowest bit
	}
	return squares
}
