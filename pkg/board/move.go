package board

import "fmt"

// Move is a from-square/to-square pair in whatever frame the Position it
// applies to is expressed in. Promotion is always to a queen -- underpromotion
// is out of scope -- so Promotion only needs to round-trip the UCI "q" suffix,
// it never changes what ApplyMove produces.
type Move struct {
	From, To  int
	Promotion bool
}

func (m Move) String() string {
	s := SquareName(m.From) + SquareName(m.To)
	if m.Promotion {
		s += "q"
	}
	return s
}

// SquareName renders a 12x12 mailbox index as algebraic notation (e.g. "e4"),
// assuming the index is already expressed in White's frame. Callers holding a
// mover-relative index must mirror it first when the mover is Black.
func SquareName(i int) string {
	row, col := i/Side, i%Side
	file := byte('a' + (col - 2))
	rank := byte('8' - (row - 2))
	return string([]byte{file, rank})
}

// ParseSquareName parses algebraic notation into a White-frame 12x12 index.
func ParseSquareName(s string) (int, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("board: invalid square %q", s)
	}
	file, rank := s[0], s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, fmt.Errorf("board: invalid square %q", s)
	}
	col := 2 + int(file-'a')
	row := 2 + int('8'-rank)
	return row*Side + col, nil
}

// ParseMove parses long algebraic notation ("e2e4", "e7e8q") into a White-frame
// Move. It performs no legality or even board-membership check; ApplyMove and
// the move generator are the only arbiters of what is playable.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("board: invalid move %q", s)
	}
	from, err := ParseSquareName(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquareName(s[2:4])
	if err != nil {
		return Move{}, err
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		if s[4] != 'q' {
			return Move{}, fmt.Errorf("board: unsupported promotion %q", s)
		}
		m.Promotion = true
	}
	return m, nil
}
