// Package fen converts between Forsyth-Edwards Notation and the engine's
// mover-relative board.Position. FEN is always expressed from White's point
// of view; board.Position never is, so every decode ends with at most one
// rotation and every encode begins with at most one.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corvidchess/corvid/pkg/board"
)

// Initial is the FEN record for the standard starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Color is the side to move, as named in FEN's active-color field.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == Black {
		return "b"
	}
	return "w"
}

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Decoded is a fully parsed FEN record. Position is mover-relative; Mover
// says which absolute color "My" currently denotes.
type Decoded struct {
	Position       board.Position
	Mover          Color
	HalfmoveClock  int
	FullmoveNumber int
}

// Decode parses a FEN string. Only the piece-placement, active-color and
// castling-availability fields are required; en-passant target, halfmove
// clock and fullmove number default to "-", 0 and 1 when omitted, matching
// how most UCI GUIs send a bare startpos-style FEN.
func Decode(s string) (Decoded, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return Decoded{}, fmt.Errorf("fen: too few fields in %q", s)
	}
	for len(fields) < 6 {
		switch len(fields) {
		case 3:
			fields = append(fields, "-")
		case 4:
			fields = append(fields, "0")
		case 5:
			fields = append(fields, "1")
		}
	}

	var p board.Position
	for i := range p.Board {
		p.Board[i] = board.Wall
	}
	for r := 2; r <= 9; r++ {
		for c := 2; c <= 9; c++ {
			p.Board[r*board.Side+c] = board.Empty
		}
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Decoded{}, fmt.Errorf("fen: expected 8 ranks, got %d in %q", len(ranks), s)
	}
	for r, rank := range ranks {
		c := 0
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				c += int(ch - '0')
				continue
			}
			if c >= 8 {
				return Decoded{}, fmt.Errorf("fen: rank %d overflows in %q", r+1, s)
			}
			sq, err := decodePiece(ch)
			if err != nil {
				return Decoded{}, err
			}
			p.Board[(2+r)*board.Side+2+c] = sq
			c++
		}
		if c != 8 {
			return Decoded{}, fmt.Errorf("fen: rank %d has %d files in %q", r+1, c, s)
		}
	}

	var mover Color
	switch fields[1] {
	case "w":
		mover = White
	case "b":
		mover = Black
	default:
		return Decoded{}, fmt.Errorf("fen: invalid active color %q", fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				p.MyCastling.East = true
			case 'Q':
				p.MyCastling.West = true
			case 'k':
				p.OppCastling.West = true
			case 'q':
				p.OppCastling.East = true
			default:
				return Decoded{}, fmt.Errorf("fen: invalid castling flag %q in %q", ch, s)
			}
		}
	}

	p.EnPassant = board.NoSquare
	if fields[3] != "-" {
		ep, err := board.ParseSquareName(fields[3])
		if err != nil {
			return Decoded{}, fmt.Errorf("fen: invalid en-passant square: %w", err)
		}
		p.EnPassant = ep
	}
	p.KingPassant = board.NoSquare

	p.Score = p.StaticScore()

	half, err := strconv.Atoi(fields[4])
	if err != nil {
		return Decoded{}, fmt.Errorf("fen: invalid halfmove clock %q", fields[4])
	}
	full, err := strconv.Atoi(fields[5])
	if err != nil {
		return Decoded{}, fmt.Errorf("fen: invalid fullmove number %q", fields[5])
	}

	if mover == Black {
		p = p.Rotate()
	}

	return Decoded{
		Position:       p,
		Mover:          mover,
		HalfmoveClock:  half,
		FullmoveNumber: full,
	}, nil
}

// Encode renders d back to FEN.
func Encode(d Decoded) string {
	p := d.Position
	if d.Mover == Black {
		p = p.Rotate()
	}

	var sb strings.Builder
	for r := 0; r < 8; r++ {
		empty := 0
		for c := 0; c < 8; c++ {
			sq := p.Board[(2+r)*board.Side+2+c]
			if sq == board.Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(encodePiece(sq))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r != 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(d.Mover.String())

	sb.WriteByte(' ')
	castling := ""
	if p.MyCastling.East {
		castling += "K"
	}
	if p.MyCastling.West {
		castling += "Q"
	}
	if p.OppCastling.West {
		castling += "k"
	}
	if p.OppCastling.East {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	sb.WriteByte(' ')
	if p.EnPassant == board.NoSquare {
		sb.WriteString("-")
	} else {
		sb.WriteString(board.SquareName(p.EnPassant))
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(d.HalfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(d.FullmoveNumber))

	return sb.String()
}

func decodePiece(ch rune) (board.Square, error) {
	var kind board.Kind
	switch ch {
	case 'p', 'P':
		kind = board.Pawn
	case 'n', 'N':
		kind = board.Knight
	case 'b', 'B':
		kind = board.Bishop
	case 'r', 'R':
		kind = board.Rook
	case 'q', 'Q':
		kind = board.Queen
	case 'k', 'K':
		kind = board.King
	default:
		return board.Empty, fmt.Errorf("fen: invalid piece letter %q", ch)
	}
	if ch >= 'a' && ch <= 'z' {
		return kind.Opp(), nil
	}
	return kind.My(), nil
}

func encodePiece(sq board.Square) string {
	var kind board.Kind
	switch {
	case sq.IsMine():
		kind = sq.Kind()
	case sq.IsOpponent():
		kind = sq.SwapColor().Kind()
	default:
		panic("fen: encodePiece of empty or wall square")
	}
	letter := map[board.Kind]string{
		board.Pawn:   "p",
		board.Knight: "n",
		board.Bishop: "b",
		board.Rook:   "r",
		board.Queen:  "q",
		board.King:   "k",
	}[kind]
	if sq.IsMine() {
		return strings.ToUpper(letter)
	}
	return letter
}
