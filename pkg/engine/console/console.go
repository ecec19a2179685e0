// Package console contains a console driver for debugging the engine
// interactively, outside the UCI protocol.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "console"

// Driver implements a console driver for debugging.
type Driver struct {
	iox.AsyncCloser

	e *engine.Engine

	out chan<- string

	active atomic.Bool // user is waiting for engine to move
}

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

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printBoard()

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Split(strings.TrimSpace(line), " ")
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "reset", "r":
				// reset [<fenstring>] moves ...

				d.ensureInactive(ctx)

				pos := fen.Initial
				if len(args) > 0 && args[0] != "moves" {
					pos = strings.Join(args[0:6], " ")
				}
				if err := d.e.Reset(ctx, pos); err != nil {
					logw.Errorf(ctx, "Invalid position: %v", line)
					break
				}
				move := false
				for _, arg := range args {
					if arg == "moves" {
						move = true
						continue
					}
					if !move {
						continue
					}

					if err := d.e.Move(ctx, arg); err != nil {
						logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
					}
				}
				d.printBoard()

			case "undo", "u":
				d.ensureInactive(ctx)

				_ = d.e.TakeBack(ctx)
				d.printBoard()

			case "print", "p":
				d.printBoard()

			case "analyze", "a":
				d.ensureInactive(ctx)

				var opt engine.SearchOptions
				if len(args) > 0 {
					if depth, err := strconv.Atoi(args[0]); err == nil {
						opt.DepthLimit = lang.Some(uint(depth))
					}
				}

				out, err := d.e.Analyze(ctx, opt)
				if err != nil {
					logw.Errorf(ctx, "Analyze failed: %v", err)
					break
				}
				d.active.Store(true)

				go func() {
					var last search.PV
					for pv := range out {
						last = pv
						d.out <- fmt.Sprintf("depth=%v score=%v move=%v nodes=%v time=%v", pv.Depth, pv.Score, pv.Move, pv.Nodes, pv.Time)
					}
					d.searchCompleted(last)
				}()

			case "depth", "d":
				if len(args) > 0 {
					if depth, err := strconv.Atoi(args[0]); err == nil {
						d.e.SetDepth(uint(depth))
					}
				}

			case "hash": // size in MB
				if len(args) > 0 {
					if hash, err := strconv.Atoi(args[0]); err == nil {
						d.e.SetHash(uint(hash))
					}
				}

			case "nohash":
				d.e.SetHash(0)

			case "noise": // evaluation randomness in millipawns
				if len(args) > 0 {
					if noise, err := strconv.Atoi(args[0]); err == nil {
						d.e.SetNoise(uint(noise))
					}
				}

			case "nonoise":
				d.e.SetNoise(0)

			case "halt", "stop":
				if pv, err := d.e.Halt(ctx); err == nil {
					d.searchCompleted(pv)
				}

			case "quit", "exit", "q":
				d.ensureInactive(ctx)
				return

			case "":
				// ignore empty command

			default:
				// Assume move if not a recognized command.

				d.ensureInactive(ctx)
				if err := d.e.Move(ctx, cmd); err != nil {
					d.out <- fmt.Sprintf("invalid move: '%v'", cmd)
				} else {
					d.printBoard()
				}
			}

		case <-d.Closed():
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(pv search.PV) {
	if d.active.CompareAndSwap(true, false) {
		d.out <- fmt.Sprintf("bestmove %v", pv.Move)
	}
}

func (d *Driver) printBoard() {
	d.out <- ""
	d.out <- d.e.Diagram()
	d.out <- ""
	d.out <- fmt.Sprintf("fen: %v", d.e.Position())
	d.crossCheckScore()
	d.out <- ""
}

// crossCheckScore warns if the incrementally maintained Score has drifted
// from a from-scratch recomputation. A correct MoveDelta/ApplyMove pair
// never trips this; it exists to catch regressions during development.
func (d *Driver) crossCheckScore() {
	dec, err := fen.Decode(d.e.Position())
	if err != nil {
		return
	}
	if got, want := dec.Position.Score, dec.Position.StaticScore(); got != want {
		logw.Warningf(context.Background(), "incremental score %v does not match static score %v", got, want)
	}
}
