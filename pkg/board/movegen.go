package board

// reachableFrom lists the squares a piece of the given kind could step to if
// it stood at from, against the board as it currently stands. It is shared by
// GenMoves and CanCheck so both agree on exactly what a piece threatens.
func (p Position) reachableFrom(kind Kind, from int) []int {
	var out []int
	for _, d := range kind.Moves() {
		for j := from + d; ; j += d {
			q := p.Board[j]
			if q == Wall || q.IsMine() {
				break
			}

			if kind == Pawn {
				if (d == North || d == North+North) && q != Empty {
					break
				}
				if d == North+North && (from < A1+North || p.Board[from+North] != Empty) {
					break
				}
				if (d == North+West || d == North+East) && q == Empty &&
					j != p.EnPassant && j != p.KingPassant {
					break
				}
			}

			out = append(out, j)

			if !kind.slides() || q.IsOpponent() {
				break
			}
		}
	}
	return out
}

// GenMoves returns every pseudo-legal move for the side to move. "Pseudo-legal"
// here means exactly what the mailbox can rule out cheaply: it will happily
// generate a move that leaves the mover's own king capturable next ply.
// Nothing in this package filters that out -- the searcher treats a
// king capture as the signal that a line was illegal, rather than computing
// legality up front (see package search).
//
// Castling falls out of the rook's own sliding move: as a rook walks toward
// its king's home square, reaching the square beside the king with rights
// still intact yields the king's half of the castling move too.
func (p Position) GenMoves() []Move {
	var moves []Move
	for i := 0; i < Size; i++ {
		sq := p.Board[i]
		if !sq.IsMine() {
			continue
		}
		kind := sq.Kind()
		for _, j := range p.reachableFrom(kind, i) {
			moves = append(moves, Move{From: i, To: j})

			if i == A1 && p.Board[j+East] == MyK && p.MyCastling.West {
				moves = append(moves, Move{From: j + East, To: j + West})
			}
			if i == H1 && p.Board[j+West] == MyK && p.MyCastling.East {
				moves = append(moves, Move{From: j + West, To: j + East})
			}
		}
	}
	return moves
}

// CanCheck reports whether playing m would leave the moved piece attacking
// the opponent's king, evaluated against the board as it stood before the
// move. It is a cheap approximation -- it ignores any piece the move itself
// would capture or uncover -- used only to bias move ordering in search.
func (p Position) CanCheck(m Move) bool {
	moving := p.Board[m.From]
	if !moving.IsMine() {
		panic("board: CanCheck of a non-mine move")
	}
	for _, sq := range p.reachableFrom(moving.Kind(), m.To) {
		if p.Board[sq] == OppK {
			return true
		}
	}
	return false
}
