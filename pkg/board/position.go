package board

// Castling tracks which side's rights remain. West is the rook that starts on
// the mover's A1 corner, East the one on H1. For White these are the queenside
// and kingside rooks; Rotate mirrors files as well as ranks, so for Black West
// is the kingside rook and East the queenside one.
type Castling struct {
	West, East bool
}

// Position is the mover-relative board state: "My" pieces are always the
// side to move, "Opp" pieces the side waiting. It is a plain comparable
// struct -- no pointers, no slices -- so it can be used directly as a map
// key by the transposition tables in package search.
type Position struct {
	Board       [Size]Square
	Score       int32
	MyCastling  Castling
	OppCastling Castling
	EnPassant   int
	KingPassant int
}

// InitialPosition returns the standard starting position, mover-relative for
// White to move.
func InitialPosition() Position {
	var p Position
	for i := range p.Board {
		p.Board[i] = Wall
	}
	for r := 2; r <= 9; r++ {
		for c := 2; c <= 9; c++ {
			p.Board[r*Side+c] = Empty
		}
	}
	backRank := [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := 0; f < 8; f++ {
		p.Board[2*Side+2+f] = backRank[f].Opp()
		p.Board[3*Side+2+f] = Pawn.Opp()
		p.Board[8*Side+2+f] = Pawn.My()
		p.Board[9*Side+2+f] = backRank[f].My()
	}
	p.MyCastling = Castling{West: true, East: true}
	p.OppCastling = Castling{West: true, East: true}
	p.EnPassant = NoSquare
	p.KingPassant = NoSquare
	p.Score = p.StaticScore()
	return p
}

// rotate flips the board to the other player's point of view. With nullMove
// set, en-passant and king-passant squares are dropped instead of mirrored --
// passing the move without actually moving a piece must not manufacture a
// capturable pawn or castling-through-check square for the side now to move.
func (p Position) rotate(nullMove bool) Position {
	var np Position
	for i := 0; i < Size; i++ {
		np.Board[i] = p.Board[Mirror(i)].SwapColor()
	}
	np.Score = -p.Score
	np.MyCastling = p.OppCastling
	np.OppCastling = p.MyCastling

	if nullMove || p.EnPassant == NoSquare {
		np.EnPassant = NoSquare
	} else {
		np.EnPassant = Mirror(p.EnPassant)
	}
	if nullMove || p.KingPassant == NoSquare {
		np.KingPassant = NoSquare
	} else {
		np.KingPassant = Mirror(p.KingPassant)
	}
	return np
}

// Rotate returns the position as seen by the opponent after a real move.
func (p Position) Rotate() Position {
	return p.rotate(false)
}

// NullMove returns the position as seen by the opponent after passing,
// used by the searcher's null-move pruning heuristic.
func (p Position) NullMove() Position {
	return p.rotate(true)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// MoveDelta returns the change in incremental score that ApplyMove(m) would
// produce, from the mover's point of view, without constructing the
// resulting position. Both bound() and ApplyMove rely on this to keep the
// running Score field exact without ever calling StaticScore on the hot path.
//
// The en-passant term evaluates the captured pawn by mirroring to+South
// rather than computing the captured pawn's own mover-relative square
// directly; this mirrors the arithmetic of the engine this was ported from
// and is preserved rather than simplified.
func (p Position) MoveDelta(m Move) int32 {
	i, j := m.From, m.To
	moving := p.Board[i]
	captured := p.Board[j]

	delta := moving.MidgameValue(j) - moving.MidgameValue(i)

	if captured.IsOpponent() {
		delta += captured.SwapColor().MidgameValue(Mirror(j))
	}

	if p.KingPassant != NoSquare && abs(j-p.KingPassant) < 2 {
		delta += MyK.MidgameValue(Mirror(j))
	}

	if moving == MyK && abs(j-i) == 2 {
		rookFrom := H1
		if j < i {
			rookFrom = A1
		}
		delta += MyR.MidgameValue((i+j)/2) - MyR.MidgameValue(rookFrom)
	}

	if moving == MyP {
		if j >= A8 && j <= H8 {
			delta += MyQ.MidgameValue(j) - MyP.MidgameValue(j)
		}
		if j == p.EnPassant {
			delta += MyP.MidgameValue(Mirror(j + South))
		}
	}

	return delta
}

// ApplyMove plays m and returns the resulting position, rotated so the
// opponent is once again "My" to move. It never validates that m is
// pseudo-legal: that is GenMoves' contract, not this one's.
func (p Position) ApplyMove(m Move) Position {
	i, j := m.From, m.To
	moving := p.Board[i]

	np := p
	np.Score = p.Score + p.MoveDelta(m)
	np.Board[j] = moving
	np.Board[i] = Empty
	np.EnPassant = NoSquare
	np.KingPassant = NoSquare

	if i == A1 {
		np.MyCastling.West = false
	}
	if i == H1 {
		np.MyCastling.East = false
	}
	if j == A8 {
		np.OppCastling.East = false
	}
	if j == H8 {
		np.OppCastling.West = false
	}

	if moving == MyK {
		np.MyCastling = Castling{}
		if abs(j-i) == 2 {
			kp := (i + j) / 2
			np.KingPassant = kp
			rookFrom := H1
			if j < i {
				rookFrom = A1
			}
			np.Board[rookFrom] = Empty
			np.Board[kp] = MyR
		}
	}

	if moving == MyP {
		if j >= A8 && j <= H8 {
			np.Board[j] = MyQ
		}
		if j-i == North+North {
			np.EnPassant = i + North
		}
		if j == p.EnPassant {
			np.Board[j+South] = Empty
		}
	}

	return np.Rotate()
}

// StaticScore recomputes the incremental Score field from scratch, summing
// every piece's material-plus-positional value. It seeds Score for freshly
// constructed positions (InitialPosition, FEN decoding) and serves consistency
// checks; after that, Score is maintained exactly by MoveDelta across every
// ApplyMove call.
func (p Position) StaticScore() int32 {
	var score int32
	for i := 0; i < Size; i++ {
		sq := p.Board[i]
		switch {
		case sq.IsMine():
			score += sq.MidgameValue(i)
		case sq.IsOpponent():
			score -= sq.SwapColor().MidgameValue(Mirror(i))
		}
	}
	return score
}
