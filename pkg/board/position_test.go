package board_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialPositionHasTwentyMoves(t *testing.T) {
	pos := board.InitialPosition()
	assert.Len(t, pos.GenMoves(), 20)
}

// The piece-square tables are not symmetric under Rotate (the kings and
// queens face each other on mirrored files), so the start is worth
// K e1 (8) + Q d1 (10) - K d1 (-54) - Q e1 (-15) = 87 to White.
func TestInitialPositionScoreMatchesStaticScore(t *testing.T) {
	pos := board.InitialPosition()
	assert.EqualValues(t, 87, pos.Score)
	assert.EqualValues(t, 87, pos.StaticScore())
}

func TestRotateIsAnInvolution(t *testing.T) {
	pos := board.InitialPosition()
	rotated := pos.Rotate().Rotate()
	assert.Equal(t, pos, rotated)
}

func TestApplyMoveKeepsIncrementalScoreInSyncWithStatic(t *testing.T) {
	pos := board.InitialPosition()
	for n, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
		m, err := board.ParseMove(uci)
		require.NoError(t, err)
		if n%2 == 1 { // Black to move: pos is in Black's mirrored frame
			m.From, m.To = board.Mirror(m.From), board.Mirror(m.To)
		}

		found := false
		for _, gm := range pos.GenMoves() {
			if gm == m {
				found = true
				break
			}
		}
		require.Truef(t, found, "%s not generated from %v", uci, pos.Board)

		pos = pos.ApplyMove(m)
		assert.Equal(t, pos.StaticScore(), pos.Score, "score drifted after %s", uci)
	}
}

func TestCastlingIsGeneratedFromRookSlide(t *testing.T) {
	pos := board.InitialPosition()
	for n, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5"} {
		m, err := board.ParseMove(uci)
		require.NoError(t, err)
		if n%2 == 1 { // Black to move: pos is in Black's mirrored frame
			m.From, m.To = board.Mirror(m.From), board.Mirror(m.To)
		}
		pos = pos.ApplyMove(m)
	}

	var castles []board.Move
	for _, m := range pos.GenMoves() {
		if m.String() == "e1g1" {
			castles = append(castles, m)
		}
	}
	require.Len(t, castles, 1)

	after := pos.ApplyMove(castles[0])
	assert.Equal(t, after.StaticScore(), after.Score)
}

func TestEnPassantCaptureIsGenerated(t *testing.T) {
	pos := board.InitialPosition()
	for n, uci := range []string{"e2e4", "a7a6", "e4e5", "d7d5"} {
		m, err := board.ParseMove(uci)
		require.NoError(t, err)
		if n%2 == 1 { // Black to move: pos is in Black's mirrored frame
			m.From, m.To = board.Mirror(m.From), board.Mirror(m.To)
		}
		pos = pos.ApplyMove(m)
	}

	require.NotEqual(t, board.NoSquare, pos.EnPassant)

	var ep *board.Move
	for _, m := range pos.GenMoves() {
		if m.To == pos.EnPassant {
			mm := m
			ep = &mm
		}
	}
	require.NotNil(t, ep)

	after := pos.ApplyMove(*ep)
	assert.Equal(t, after.StaticScore(), after.Score)
}
