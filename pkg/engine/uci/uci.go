// Package uci contains a driver for using the engine under a minimal UCI
// dialect.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/engine/timectrl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "uci"

// Driver implements the minimal UCI dialect the engine speaks. It is
// activated by sending "uci" as the first line.
type Driver struct {
	iox.AsyncCloser

	e   *engine.Engine
	out chan<- string
}

// NewDriver starts the driver's processing goroutine, consuming in and
// producing out until in closes or "quit" is received.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			if d.handle(ctx, line) {
				return
			}

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// handle processes one input line. It returns true if the driver should
// stop after this line.
func (d *Driver) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "uci":
		d.out <- fmt.Sprintf("id name %v", d.e.Name())
		d.out <- fmt.Sprintf("id author %v", d.e.Author())
		d.out <- "uciok"

	case "isready":
		d.out <- "readyok"

	case "ucinewgame":
		if err := d.e.Reset(ctx, fen.Initial); err != nil {
			logw.Errorf(ctx, "ucinewgame: reset failed: %v", err)
		}

	case "position":
		if !d.handlePosition(ctx, fields) {
			logw.Errorf(ctx, "Malformed position command, aborting: %v", line)
			return true
		}

	case "go":
		d.handleGo(ctx, fields)

	case "quit":
		return true

	default:
		d.out <- fmt.Sprintf("Unknown command:%v", line)
	}
	return false
}

// handlePosition implements "position startpos moves ...". Anything else is
// a protocol malformation and is treated as a fatal abort rather than a
// tolerated no-op.
func (d *Driver) handlePosition(ctx context.Context, fields []string) bool {
	if len(fields) < 2 || fields[1] != "startpos" {
		return false
	}
	if err := d.e.Reset(ctx, fen.Initial); err != nil {
		return false
	}

	if len(fields) == 2 {
		return true
	}
	if fields[2] != "moves" {
		return false
	}
	for _, m := range fields[3:] {
		if err := d.e.Move(ctx, m); err != nil {
			logw.Errorf(ctx, "Illegal move from position command '%v': %v", m, err)
		}
	}
	return true
}

// handleGo runs a search to a time budget computed by timectrl from the
// wtime/btime/winc/binc fields, if present, and emits exactly one bestmove
// line. The ponder suggestion is a fixed placeholder, not a real ponder
// search, matching the engine this was ported from.
func (d *Driver) handleGo(ctx context.Context, fields []string) {
	budget := 500 * time.Millisecond
	if w, b, wi, bi, ok := parseClocks(fields); ok {
		budget = timectrl.Budget(w, b, wi, bi, d.e.Mover())
	}

	out, err := d.e.Analyze(ctx, engine.SearchOptions{Budget: lang.Some(budget)})
	if err != nil {
		logw.Errorf(ctx, "go: analyze failed: %v", err)
		return
	}

	var last string
	for pv := range out {
		last = pv.Move.String()
	}
	if last == "" {
		return
	}
	d.out <- fmt.Sprintf("bestmove %v ponder e7e5", last)
}

func parseClocks(fields []string) (wtime, btime, winc, binc time.Duration, ok bool) {
	get := func(key string) (time.Duration, bool) {
		for i, f := range fields {
			if f == key && i+1 < len(fields) {
				n, err := strconv.Atoi(fields[i+1])
				if err != nil {
					return 0, false
				}
				return time.Duration(n) * time.Millisecond, true
			}
		}
		return 0, false
	}
	w, okw := get("wtime")
	b, okb := get("btime")
	if !okw || !okb {
		return 0, 0, 0, 0, false
	}
	wi, _ := get("winc")
	bi, _ := get("binc")
	return w, b, wi, bi, true
}
