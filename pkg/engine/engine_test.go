package engine_test

import (
	"context"
	"testing"

	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartsAtStandardPosition(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	assert.Equal(t, fen.Initial, e.Position())
	assert.Equal(t, fen.White, e.Mover())
}

func TestMoveAdvancesMoverAndClocks(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	require.NoError(t, e.Move(context.Background(), "e2e4"))

	d, err := fen.Decode(e.Position())
	require.NoError(t, err)
	assert.Equal(t, fen.Black, d.Mover)
	assert.Equal(t, 0, d.HalfmoveClock, "pawn move resets the halfmove clock")
	assert.Equal(t, 1, d.FullmoveNumber, "fullmove only increments after Black moves")
}

func TestMoveMirrorsForBlack(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	require.NoError(t, e.Move(context.Background(), "e2e4"))
	require.NoError(t, e.Move(context.Background(), "e7e5"))

	d, err := fen.Decode(e.Position())
	require.NoError(t, err)
	assert.Equal(t, fen.White, d.Mover)
	assert.Equal(t, 2, d.FullmoveNumber)
}

func TestMoveRejectsIllegalMove(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	err := e.Move(context.Background(), "e2e5")
	assert.Error(t, err)
}

func TestMoveRejectsMalformedInput(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	err := e.Move(context.Background(), "not-a-move")
	assert.Error(t, err)
}

func TestTakeBackRestoresPriorPosition(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	before := e.Position()

	require.NoError(t, e.Move(context.Background(), "e2e4"))
	require.NoError(t, e.TakeBack(context.Background()))

	assert.Equal(t, before, e.Position())
}

func TestTakeBackWithoutHistoryFails(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	err := e.TakeBack(context.Background())
	assert.Error(t, err)
}

func TestResetDiscardsHistory(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	require.NoError(t, e.Move(context.Background(), "e2e4"))

	require.NoError(t, e.Reset(context.Background(), fen.Initial))
	assert.Equal(t, fen.Initial, e.Position())
	assert.Error(t, e.TakeBack(context.Background()))
}

func TestAnalyzeRejectsConcurrentSearch(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")

	_, err := e.Analyze(context.Background(), engine.SearchOptions{})
	require.NoError(t, err)

	_, err = e.Analyze(context.Background(), engine.SearchOptions{})
	assert.Error(t, err)

	_, _ = e.Halt(context.Background())
}

func TestHaltWithoutActiveSearchFails(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	_, err := e.Halt(context.Background())
	assert.Error(t, err)
}

func TestHaltReturnsAPV(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")

	out, err := e.Analyze(context.Background(), engine.SearchOptions{})
	require.NoError(t, err)
	<-out // wait for the first completed depth

	pv, err := e.Halt(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, pv.Depth)
}

func TestDiagramChangesAfterAMove(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	white := e.Diagram()

	require.NoError(t, e.Move(context.Background(), "e2e4"))
	black := e.Diagram()

	assert.NotEqual(t, white, black, "the board position changed, so the rendering must too")
}
