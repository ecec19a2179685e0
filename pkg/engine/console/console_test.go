package console_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/engine/console"
	"github.com/stretchr/testify/assert"
)

func newDriver(t *testing.T) (chan string, <-chan string) {
	t.Helper()
	e := engine.New(context.Background(), "corvid", "corvidchess")
	in := make(chan string, 16)
	_, out := console.NewDriver(context.Background(), e, in)
	return in, out
}

func drain(out <-chan string, n int, d time.Duration) []string {
	var got []string
	deadline := time.After(d)
	for len(got) < n {
		select {
		case s := <-out:
			got = append(got, s)
		case <-deadline:
			return got
		}
	}
	return got
}

func TestStartupPrintsBannerAndBoard(t *testing.T) {
	_, out := newDriver(t)
	lines := drain(out, 5, time.Second)

	assert.True(t, strings.HasPrefix(lines[0], "engine corvid"))
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "fen: ")
}

func TestPrintCommandRepeatsBoard(t *testing.T) {
	in, out := newDriver(t)
	_ = drain(out, 6, time.Second) // startup banner and board

	in <- "print"
	lines := drain(out, 4, time.Second)
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "fen: ")
}

func TestPlayingAMoveReprintsBoard(t *testing.T) {
	in, out := newDriver(t)
	_ = drain(out, 6, time.Second)

	in <- "e2e4"
	lines := drain(out, 4, time.Second)
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "fen: ")
}

func TestInvalidMoveIsReported(t *testing.T) {
	in, out := newDriver(t)
	_ = drain(out, 6, time.Second)

	in <- "e2e5"
	lines := drain(out, 1, time.Second)
	assert.Contains(t, lines[0], "invalid move")
}

func TestAnalyzeThenHaltProducesABestmove(t *testing.T) {
	in, out := newDriver(t)
	_ = drain(out, 6, time.Second)

	in <- "analyze 1"
	in <- "halt"

	var bestmove string
	for _, line := range drain(out, 8, 2*time.Second) {
		if strings.HasPrefix(line, "bestmove ") {
			bestmove = line
		}
	}
	assert.NotEmpty(t, bestmove, "expected a bestmove line after analyze+halt")
}

func TestQuitClosesDriver(t *testing.T) {
	e := engine.New(context.Background(), "corvid", "corvidchess")
	in := make(chan string, 16)
	d, out := console.NewDriver(context.Background(), e, in)
	_ = drain(out, 6, time.Second)

	in <- "quit"

	select {
	case <-d.Closed():
	case <-time.After(time.Second):
		t.Fatal("driver did not close on quit")
	}
}
