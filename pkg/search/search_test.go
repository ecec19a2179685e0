package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bestMove(t *testing.T, position string, budget time.Duration) string {
	t.Helper()
	d, err := fen.Decode(position)
	require.NoError(t, err)

	s := search.NewSearcher()
	out := make(chan search.PV, 64)
	go s.Search(context.Background(), d.Position, budget, out)

	var last search.PV
	for pv := range out {
		last = pv
	}
	require.NotZero(t, last.Depth, "search never completed a depth")
	return last.Move.String()
}

func TestFindsMatingMoveInMatePuzzle(t *testing.T) {
	move := bestMove(t, "1r1r1n1k/4qpnP/p1b1p1pQ/P2pP1N1/2pP2P1/1pP5/1P3PK1/RB5R w - - 7 31", time.Second)
	assert.Equal(t, "h6g7", move)
}

func TestSearchAlwaysCompletesDepthOne(t *testing.T) {
	d, err := fen.Decode("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	s := search.NewSearcher()
	out := make(chan search.PV, 64)
	go s.Search(context.Background(), d.Position, time.Nanosecond, out)

	var got []search.PV
	for pv := range out {
		got = append(got, pv)
	}
	require.NotEmpty(t, got, "even a near-zero budget must finish depth 1")
	assert.Equal(t, 1, got[0].Depth)
}

func TestSetEvalToZeroDoesNotBreakSubsequentSearch(t *testing.T) {
	d, err := fen.Decode("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	s := search.NewSearcher()
	s.SetEvalToZero(d.Position)

	out := make(chan search.PV, 64)
	go s.Search(context.Background(), d.Position, 100*time.Millisecond, out)

	var last search.PV
	for pv := range out {
		last = pv
	}
	assert.NotZero(t, last.Depth)
	assert.NotEmpty(t, last.Move.String())
}
