package fen_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestDecodeStartPosMatchesInitialPosition(t *testing.T) {
	d, err := fen.Decode(startFEN)
	require.NoError(t, err)

	assert.Equal(t, fen.White, d.Mover)
	assert.Equal(t, board.InitialPosition(), d.Position)
	assert.Len(t, d.Position.GenMoves(), 20)
}

func TestEncodeRoundTripsStartPos(t *testing.T) {
	d, err := fen.Decode(startFEN)
	require.NoError(t, err)
	assert.Equal(t, startFEN, fen.Encode(d))
}

func TestDecodeBlackToMoveRotatesIntoMoverFrame(t *testing.T) {
	d, err := fen.Decode("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, fen.Black, d.Mover)

	moves := d.Position.GenMoves()
	assert.Len(t, moves, 20, "black should have the usual 20 replies")
}

func TestDecodeInvalidFENs(t *testing.T) {
	tests := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w XQkq - 0 1",
	}
	for _, tt := range tests {
		_, err := fen.Decode(tt)
		assert.Error(t, err, tt)
	}
}

func TestDecodeMatePuzzleFEN(t *testing.T) {
	d, err := fen.Decode("1r1r1n1k/4qpnP/p1b1p1pQ/P2pP1N1/2pP2P1/1pP5/1P3PK1/RB5R w - - 7 31")
	require.NoError(t, err)
	assert.Equal(t, fen.White, d.Mover)
	assert.Equal(t, d.Position.StaticScore(), d.Position.Score)

	m, err := board.ParseMove("h6g7")
	require.NoError(t, err)

	found := false
	for _, gm := range d.Position.GenMoves() {
		if gm.From == m.From && gm.To == m.To {
			found = true
		}
	}
	assert.True(t, found, "h6g7 should be pseudo-legal in the puzzle position")
}
