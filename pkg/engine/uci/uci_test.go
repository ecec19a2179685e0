package uci_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/engine/uci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriver(t *testing.T) (chan string, <-chan string) {
	t.Helper()
	e := engine.New(context.Background(), "corvid", "corvidchess")
	in := make(chan string, 16)
	_, out := uci.NewDriver(context.Background(), e, in)
	return in, out
}

func recvWithin(t *testing.T, out <-chan string, d time.Duration) string {
	t.Helper()
	select {
	case s := <-out:
		return s
	case <-time.After(d):
		t.Fatal("timed out waiting for driver output")
		return ""
	}
}

func TestUCIHandshake(t *testing.T) {
	in, out := newDriver(t)
	in <- "uci"

	id := recvWithin(t, out, time.Second)
	assert.True(t, strings.HasPrefix(id, "id name "))
	author := recvWithin(t, out, time.Second)
	assert.Equal(t, "id author corvidchess", author)
	ok := recvWithin(t, out, time.Second)
	assert.Equal(t, "uciok", ok)
}

func TestIsReady(t *testing.T) {
	in, out := newDriver(t)
	in <- "isready"
	assert.Equal(t, "readyok", recvWithin(t, out, time.Second))
}

func TestUnknownCommand(t *testing.T) {
	in, out := newDriver(t)
	in <- "frobnicate"
	assert.Equal(t, "Unknown command:frobnicate", recvWithin(t, out, time.Second))
}

func TestPositionStartposMovesThenGoProducesOneBestmove(t *testing.T) {
	in, out := newDriver(t)
	in <- "position startpos moves e2e4 e7e5"
	in <- "go wtime 5000 btime 5000 winc 0 binc 0"

	line := recvWithin(t, out, 2*time.Second)
	assert.True(t, strings.HasPrefix(line, "bestmove "))
	assert.True(t, strings.HasSuffix(line, " ponder e7e5"))
}

func TestGoWithoutClockFieldsStillProducesABestmove(t *testing.T) {
	in, out := newDriver(t)
	in <- "go"

	line := recvWithin(t, out, 2*time.Second)
	assert.True(t, strings.HasPrefix(line, "bestmove "))
}

func TestMalformedPositionCommandClosesDriver(t *testing.T) {
	e := engine.New(context.Background(), "corvid", "corvidchess")
	in := make(chan string, 16)
	d, _ := uci.NewDriver(context.Background(), e, in)

	in <- "position fen not-a-real-fen"

	select {
	case <-d.Closed():
	case <-time.After(time.Second):
		t.Fatal("driver did not close on malformed position command")
	}
}

func TestQuitClosesDriver(t *testing.T) {
	e := engine.New(context.Background(), "corvid", "corvidchess")
	in := make(chan string, 16)
	d, _ := uci.NewDriver(context.Background(), e, in)

	in <- "quit"

	select {
	case <-d.Closed():
	case <-time.After(time.Second):
		t.Fatal("driver did not close on quit")
	}
}

func TestUCIHandshakeRoundTripIsFast(t *testing.T) {
	start := time.Now()
	in, out := newDriver(t)
	in <- "isready"
	require.Equal(t, "readyok", recvWithin(t, out, time.Second))
	assert.Less(t, time.Since(start), time.Second)
}
