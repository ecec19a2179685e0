package board

// The board is a 12x12 mailbox: the logical 8x8 playing surface padded by a
// two-square Wall border on every side, so ray-walking move generation never
// has to branch on board bounds.
const (
	Side = 12
	Size = Side * Side

	North = -Side
	South = Side
	East  = 1
	West  = -1
)

// Named squares, mover-relative: A8/H8 are the corners of the opponent's back
// rank at the top of the 12x12 grid, A1/H1 the corners of the mover's own back
// rank at the bottom.
const (
	A8 = 26
	H8 = 33
	A1 = 110
	H1 = 117
)

// NoSquare is the sentinel for an absent en-passant or king-passant square.
// Position must remain a plain comparable struct (no pointers) to be usable
// directly as a transposition-table key, so "optional square" is modeled as
// an int with this sentinel rather than a pointer or a Go *bool-style flag.
const NoSquare = -1

// Mirror returns the square produced by looking at i from the other side of
// the board: i -> 143-i. Used by Rotate, NullMove and the capture/en-passant
// terms of MoveDelta that need to evaluate a square from the opponent's frame.
func Mirror(i int) int {
	return Size - 1 - i
}

var pawnDirs = []int{North, North + North, North + West, North + East}

var knightDirs = []int{
	North + North + East,
	North + North + West,
	West + West + North,
	West + West + South,
	South + South + West,
	South + South + East,
	East + East + South,
	East + East + North,
}

var bishopDirs = []int{North + East, North + West, South + West, South + East}

var rookDirs = []int{North, West, South, East}

var queenDirs = append(append([]int{}, rookDirs...), bishopDirs...)

// Moves returns the static slice of ray-direction offsets for a piece kind.
// King reuses the queen's direction set; the generator alone distinguishes
// them by stopping a king after a single step.
func (k Kind) Moves() []int {
	switch k {
	case Pawn:
		return pawnDirs
	case Knight:
		return knightDirs
	case Bishop:
		return bishopDirs
	case Rook:
		return rookDirs
	case Queen, King:
		return queenDirs
	default:
		panic("board: Moves of invalid kind")
	}
}

// slides reports whether a piece of this kind continues along a ray after
// one non-capturing step.
func (k Kind) slides() bool {
	return k == Bishop || k == Rook || k == Queen
}
