package board

// Material values, in centipawns, as carried by the midgame Stockfish
// evaluation this engine's piece-square tables are adapted from.
const (
	materialPawn   int32 = 136
	materialKnight int32 = 782
	materialBishop int32 = 830
	materialRook   int32 = 1289
	materialQueen  int32 = 2529
	materialKing   int32 = 32000
)

var material = [NumKinds]int32{
	Pawn:   materialPawn,
	Knight: materialKnight,
	Bishop: materialBishop,
	Rook:   materialRook,
	Queen:  materialQueen,
	King:   materialKing,
}

// Positional tables, one entry per logical square, ordered a8..h8, a7..h7,
// ..., a1..h1 -- i.e. top-to-bottom, left-to-right as the mover sees the
// board, matching the orientation of the 12x12 mailbox (the opponent's back
// rank A8..H8 sits at the top of the grid, the mover's own A1..H1 at the
// bottom). Shapes follow Stockfish's midgame piece-square tables.
var pawnPST8 = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	98, 134, 61, 95, 68, 126, 34, -11,
	-6, 7, 26, 31, 65, 56, 25, -20,
	-14, 13, 6, 21, 23, 12, 17, -23,
	-27, -2, -5, 12, 17, 6, 10, -25,
	-26, -4, -4, -10, 3, 3, 33, -12,
	-35, -1, -20, -23, -15, 24, 38, -22,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST8 = [64]int32{
	-167, -89, -34, -49, 61, -97, -15, -107,
	-73, -41, 72, 36, 23, 62, 7, -17,
	-47, 60, 37, 65, 84, 129, 73, 44,
	-9, 17, 19, 53, 37, 69, 18, 22,
	-13, 4, 16, 13, 28, 19, 21, -8,
	-23, -9, 12, 10, 19, 17, 25, -16,
	-29, -53, -12, -3, -1, 18, -14, -19,
	-105, -21, -58, -33, -17, -28, -19, -23,
}

var bishopPST8 = [64]int32{
	-29, 4, -82, -37, -25, -42, 7, -8,
	-26, 16, -18, -13, 30, 59, 18, -47,
	-16, 37, 43, 40, 35, 50, 37, -2,
	-4, 5, 19, 50, 37, 37, 7, -2,
	-6, 13, 13, 26, 34, 12, 10, 4,
	0, 15, 15, 15, 14, 27, 18, 10,
	4, 15, 16, 0, 7, 21, 33, 1,
	-33, -3, -14, -21, -13, -12, -39, -21,
}

var rookPST8 = [64]int32{
	32, 42, 32, 51, 63, 9, 31, 43,
	27, 32, 58, 62, 80, 67, 26, 44,
	-5, 19, 26, 36, 17, 45, 61, 16,
	-24, -11, 7, 26, 24, 35, -8, -20,
	-36, -26, -12, -1, 9, -7, 6, -23,
	-45, -25, -16, -17, 3, 0, -5, -33,
	-44, -16, -20, -9, -1, 11, -6, -71,
	-19, -13, 1, 17, 16, 7, -37, -26,
}

var queenPST8 = [64]int32{
	-28, 0, 29, 12, 59, 44, 43, 45,
	-24, -39, -5, 1, -16, 57, 28, 54,
	-13, -17, 7, 8, 29, 56, 47, 57,
	-27, -27, -16, -16, -1, 17, -2, 1,
	-9, -26, -9, -10, -2, -4, 3, -3,
	-14, 2, -11, -2, -5, 2, 14, 5,
	-35, -8, 11, 2, 8, 15, -3, 1,
	-1, -18, -9, 10, -15, -25, -31, -50,
}

var kingPST8 = [64]int32{
	-65, 23, 16, -15, -56, -34, 2, 13,
	29, -1, -20, -7, -8, -4, -38, -29,
	-9, 24, 2, -16, -20, 6, 22, -22,
	-17, -20, -12, -27, -30, -25, -14, -36,
	-49, -1, -27, -39, -46, -44, -33, -51,
	-14, -14, -22, -46, -44, -30, -15, -27,
	1, 7, -8, -64, -43, -16, 9, 8,
	-15, 36, 12, -54, 8, -28, 24, 14,
}

// pst holds the full 144-square, border-padded positional table per kind, so
// MidgameValue is a direct array lookup with no rank/file arithmetic on the
// hot path.
var pst [NumKinds][Size]int32

func init() {
	tables := [NumKinds]*[64]int32{
		Pawn:   &pawnPST8,
		Knight: &knightPST8,
		Bishop: &bishopPST8,
		Rook:   &rookPST8,
		Queen:  &queenPST8,
		King:   &kingPST8,
	}
	for k := Pawn; int(k) < NumKinds; k++ {
		t := tables[k]
		for r := 0; r < 8; r++ {
			for f := 0; f < 8; f++ {
				pst[k][A8+r*Side+f] = t[r*8+f]
			}
		}
	}
}

// MidgameValue returns the material-plus-positional value of this piece at
// the given 12x12 board index. Only defined for squares owned by the mover:
// an opponent's contribution is looked up by first calling SwapColor and
// mirroring the index (see MoveDelta). Panics if index lies outside the
// logical 8x8 board.
func (s Square) MidgameValue(index int) int32 {
	if !s.IsMine() {
		panic("board: MidgameValue called on a non-mine square")
	}
	if r, c := index/Side, index%Side; index < 0 || r < 2 || r > 9 || c < 2 || c > 9 {
		panic("board: MidgameValue index off the 8x8 board")
	}
	k := s.Kind()
	return material[k] + pst[k][index]
}

// MaterialValue returns the raw material value of a piece kind, used by the
// searcher to size its mate-score bounds relative to king and queen value.
func MaterialValue(k Kind) int32 {
	return material[k]
}
