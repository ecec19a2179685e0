// Package engine wires the pure search core to a game: it keeps the played
// position stack, translates between the absolute move syntax the protocol
// drivers speak and the mover-relative frame board.Position wants, and owns
// the iterative-deepening search launcher both drivers drive.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

var version = build.NewVersion(0, 1, 0)

// Options are the dynamic search settings the driver may change mid-game.
// Hash and Noise only take effect on the next Reset, mirroring how a
// transposition table size can't sensibly change out from under a running
// search; Depth is read by each Analyze call.
type Options struct {
	// Depth is the search depth limit, in ply. Zero means no limit.
	Depth uint
	// Hash is the transposition table budget in MB. Zero falls back to the
	// default map-backed tables, which clear themselves wholesale instead
	// of evicting.
	Hash uint
	// Noise is evaluation jitter in millipawns, zero for deterministic play.
	Noise uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v}", o.Depth, o.Hash, o.Noise)
}

// entriesPerMB is a rough sizing knob translating a hash-table MB budget into
// a ristretto entry cap: each score/move table entry is small, but ristretto
// itself needs headroom for its own bookkeeping, so this errs low.
const entriesPerMB = 1 << 15

// ply is one position in the played-move stack.
type ply struct {
	pos       board.Position
	mover     fen.Color
	halfmove  int
	fullmove  int
}

// Engine encapsulates one game: the played-move history, runtime options and
// the searcher driving analysis.
type Engine struct {
	name, author string
	seed         int64

	mu    sync.Mutex
	opts  Options
	stack []ply

	searcher *search.Searcher
	active   *handle
}

// Option configures a new Engine.
type Option func(*Engine)

// WithOptions sets the engine's initial runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithSeed fixes the random seed driving evaluation noise, for reproducible
// testing. Engines normally seed from wall-clock time.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// New constructs an Engine at the standard starting position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{name: name, author: author, seed: time.Now().UnixNano()}
	for _, fn := range opts {
		fn(e)
	}

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the engine author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Depth = depth
}

func (e *Engine) SetHash(mb uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Hash = mb
}

func (e *Engine) SetNoise(millipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Noise = millipawns
}

func (e *Engine) top() ply {
	return e.stack[len(e.stack)-1]
}

// Position returns the current position in FEN.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	top := e.top()
	return fen.Encode(fen.Decoded{
		Position:       top.pos,
		Mover:          top.mover,
		HalfmoveClock:  top.halfmove,
		FullmoveNumber: top.fullmove,
	})
}

// Mover returns which absolute color is on the move.
func (e *Engine) Mover() fen.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.top().mover
}

// Diagram renders the current position as an ASCII board, White at the
// bottom regardless of whose move it is.
func (e *Engine) Diagram() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	top := e.top()
	return board.RenderBoard(top.pos, top.mover == fen.White)
}

// Reset starts a new game from the given FEN, discarding any active search
// and the played-move history.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, options=%v", position, e.opts)

	e.haltSearchIfActive(ctx)

	d, err := fen.Decode(position)
	if err != nil {
		return err
	}

	var sopts []search.Option
	if e.opts.Hash > 0 {
		if st, terr := search.NewRistrettoScoreTable(int64(e.opts.Hash) * entriesPerMB); terr == nil {
			sopts = append(sopts, search.WithScoreTable(st))
		} else {
			logw.Errorf(ctx, "Falling back to default score table: %v", terr)
		}
		if mt, terr := search.NewRistrettoMoveTable(int64(e.opts.Hash) * entriesPerMB); terr == nil {
			sopts = append(sopts, search.WithMoveTable(mt))
		} else {
			logw.Errorf(ctx, "Falling back to default move table: %v", terr)
		}
	}
	if e.opts.Noise > 0 {
		sopts = append(sopts, search.WithNoise(e.opts.Noise, e.seed))
	}
	e.searcher = search.NewSearcher(sopts...)

	e.stack = []ply{{
		pos:      d.Position,
		mover:    d.Mover,
		halfmove: d.HalfmoveClock,
		fullmove: d.FullmoveNumber,
	}}

	logw.Infof(ctx, "New position: %v", position)
	return nil
}

// Move plays move, given in the absolute (White's-frame) long-algebraic
// syntax a UCI GUI speaks, against the current position. It is the only way
// the played-move stack grows.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActive(ctx)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	top := e.top()
	rel := candidate
	if top.mover == fen.Black {
		rel.From, rel.To = board.Mirror(candidate.From), board.Mirror(candidate.To)
	}

	var matched *board.Move
	for _, m := range top.pos.GenMoves() {
		if m.From == rel.From && m.To == rel.To {
			matched = &m
			break
		}
	}
	if matched == nil {
		return fmt.Errorf("illegal move: %v", move)
	}

	moving := top.pos.Board[matched.From]
	capture := top.pos.Board[matched.To].IsOpponent()
	if moving.Kind() == board.Pawn && matched.To == top.pos.EnPassant {
		capture = true
	}

	next := ply{
		pos:      top.pos.ApplyMove(*matched),
		mover:    top.mover.Opponent(),
		halfmove: top.halfmove + 1,
		fullmove: top.fullmove,
	}
	if moving.Kind() == board.Pawn || capture {
		next.halfmove = 0
	}
	if top.mover == fen.Black {
		next.fullmove++
	}

	e.stack = append(e.stack, next)
	e.searcher.SetEvalToZero(next.pos)

	logw.Infof(ctx, "Move %v: %v", move, board.RenderBoard(next.pos, next.mover == fen.White))
	return nil
}

// TakeBack undoes the most recently played move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActive(ctx)

	if len(e.stack) <= 1 {
		return fmt.Errorf("no move to take back")
	}
	e.stack = e.stack[:len(e.stack)-1]

	logw.Infof(ctx, "Takeback: %v", e.top())
	return nil
}

// SearchOptions customizes a single Analyze call. An unset DepthLimit falls
// back to the engine's configured Options.Depth; an unset Budget means
// search until halted.
type SearchOptions struct {
	DepthLimit lang.Optional[uint]
	Budget     lang.Optional[time.Duration]
}

// Analyze starts a search on the current position and returns a channel of
// increasingly deep principal variations. Only one search may be active at a
// time; call Halt first to replace it.
func (e *Engine) Analyze(ctx context.Context, opt SearchOptions) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}
	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v", e.top().pos)

	h, out := launch(ctx, e.searcher, e.top().pos, opt)
	e.active = h
	return out, nil
}

// Halt stops the active search, if any, and returns its most recent PV.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active == nil {
		return search.PV{}, false
	}
	pv := e.active.Halt()
	logw.Infof(ctx, "Search halted: %+v", pv)
	e.active = nil
	return pv, true
}

// handle manages one in-flight iterative-deepening search.
type handle struct {
	init, quit iox.AsyncCloser

	mu sync.Mutex
	pv search.PV
}

// launch starts the iterative-deepening loop for pos on its own goroutine.
// The loop defers to the Searcher's own internal wall-clock polling for the
// time budget; DepthLimit is enforced here since the Searcher has no notion
// of it.
func launch(ctx context.Context, s *search.Searcher, pos board.Position, opt SearchOptions) (*handle, <-chan search.PV) {
	h := &handle{init: iox.NewAsyncCloser(), quit: iox.NewAsyncCloser()}
	out := make(chan search.PV, 1)

	budget := time.Hour
	if v, ok := opt.Budget.V(); ok {
		budget = v
	}

	go func() {
		defer h.init.Close()
		defer close(out)

		wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
		defer cancel()

		in := make(chan search.PV, 1)
		go s.Search(wctx, pos, budget, in)

		for pv := range in {
			h.mu.Lock()
			h.pv = pv
			h.mu.Unlock()

			h.init.Close()

			select {
			case out <- pv:
			case <-wctx.Done():
				return
			}

			if limit, ok := opt.DepthLimit.V(); ok && uint(pv.Depth) >= limit {
				h.quit.Close()
				return
			}
		}
	}()

	return h, out
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}
