// Package search implements the MTD-bi null-window searcher: transposition
// tables, null-move pruning, a killer-move slot and a quiescence phase
// restricted to loud captures, all driven by an outer iterative-deepening
// loop with a wall-clock budget.
package search

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
)

// Mate bounds are derived from king and queen material so that a forced mate
// always scores well outside any plausible positional evaluation, and so a
// STOP sentinel can sit comfortably outside even a mate score.
var (
	MateLower = board.MaterialValue(board.King) - 8*board.MaterialValue(board.Queen)
	MateUpper = board.MaterialValue(board.King) + 8*board.MaterialValue(board.Queen)
)

const (
	// qsLimit is the minimum move value, in centipawns, a capture needs to be
	// explored once the main search has run out of depth.
	qsLimit = 130
	// evalRoughness is the window MTD-bi bisects to; the score is trusted to
	// within this margin rather than driven down to an exact value.
	evalRoughness = 10

	// maxIterativeDepth bounds the iterative-deepening loop so a finished
	// game (nothing but king captures available) can't recurse forever.
	maxIterativeDepth = 99
)

// stopSearch is returned up the call stack the instant the time budget or
// context is exhausted; it sits outside any real or mate score so callers can
// tell it apart by identity comparison alone.
var stopSearch = int32(MateUpper) * 101

// Searcher holds the mutable search state: transposition tables and node
// count. A Searcher is reused across a game so the tables stay warm, but a
// single Searcher must not be driven by more than one goroutine at a time.
type Searcher struct {
	scoreTT ScoreTable
	moveTT  MoveTable

	Nodes uint64

	deadline time.Time

	noise int32
	rng   *rand.Rand
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithScoreTable overrides the default map-backed score bound table.
func WithScoreTable(t ScoreTable) Option {
	return func(s *Searcher) { s.scoreTT = t }
}

// WithMoveTable overrides the default map-backed move/killer table.
func WithMoveTable(t MoveTable) Option {
	return func(s *Searcher) { s.moveTT = t }
}

// WithNoise adds up to +/-millipawns of uniform jitter to every leaf
// evaluation, seeded from seed. Used to make the engine's play less
// deterministic without a pluggable evaluator.
func WithNoise(millipawns uint, seed int64) Option {
	return func(s *Searcher) {
		s.noise = int32(millipawns)
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// NewSearcher returns a Searcher with the default bounded in-memory tables,
// or whatever tables the given options install.
func NewSearcher(opts ...Option) *Searcher {
	s := &Searcher{
		scoreTT: NewScoreTable(),
		moveTT:  NewMoveTable(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset clears both transposition tables and the node counter, leaving the
// Searcher ready for an unrelated game.
func (s *Searcher) Reset() {
	s.scoreTT.Clear()
	s.moveTT.Clear()
	s.Nodes = 0
}

// PV is one completed iterative-deepening pass: best move, its score, and how
// much work it took.
type PV struct {
	Depth int
	Score int32
	Move  board.Move
	Nodes uint64
	Time  time.Duration
}

// Search runs iterative deepening from pos until ctx is cancelled, the time
// budget elapses, or a forced mate is found, whichever comes first. It always
// completes at least depth 1 before respecting the budget, so it never
// returns without a move as long as pos has any. The out channel receives one
// PV per completed depth and is closed when the search returns.
func (s *Searcher) Search(ctx context.Context, pos board.Position, budget time.Duration, out chan<- PV) {
	defer close(out)

	s.Nodes = 0
	deadline := time.Now().Add(budget)
	// bound polls s.deadline; depth 1 runs without one so there is always a
	// move to report, and the budget applies from depth 2 on.
	s.deadline = time.Now().Add(math.MaxInt64)

	for depth := 1; depth < maxIterativeDepth; depth++ {
		start := time.Now()

		lower, upper := int32(-MateUpper), int32(MateUpper)
		for lower < upper-evalRoughness {
			gamma := (lower + upper + 1) / 2
			score := s.bound(ctx, pos, gamma, depth, true)
			if score == stopSearch {
				lower = stopSearch
				break
			}
			if score >= gamma {
				lower = score
			} else {
				upper = score
			}
		}
		if lower == stopSearch {
			return
		}

		score := s.bound(ctx, pos, lower, depth, true)
		if score == stopSearch {
			return
		}

		m, ok := s.moveTT.Get(pos)
		if !ok {
			// No legal (pseudo) move at all: stalemated or mated with nothing
			// left to record. Nothing more iterative deepening can do.
			return
		}

		pv := PV{Depth: depth, Score: score, Move: m, Nodes: s.Nodes, Time: time.Since(start)}

		select {
		case out <- pv:
		case <-ctx.Done():
			return
		}

		if time.Now().After(deadline) || score > MateLower {
			return
		}
		s.deadline = deadline
	}
}

// bound is the MTD-bi workhorse: true/false/fail-soft bound on pos's score
// relative to gamma, searched to depth (depth <= 0 means quiescence). root is
// set only for the single top-level call iterative deepening makes at each
// depth; every recursive call passes root=false, including the ones inside a
// null-move or killer probe.
func (s *Searcher) bound(ctx context.Context, pos board.Position, gamma int32, depth int, root bool) int32 {
	s.Nodes++
	if depth < 0 {
		depth = 0
	}

	// A king capture already happened: this line lost a king, so it can't be
	// worth exploring further. This is the engine's only legality check.
	if pos.Score <= -MateLower {
		return -MateUpper
	}

	entry, hasEntry := s.scoreTT.Get(pos, depth, root)
	if !hasEntry {
		entry = ScoreEntry{Lower: -MateUpper, Upper: MateUpper}
	}
	if entry.Lower >= gamma && (!root || s.hasMove(pos)) {
		return entry.Lower
	}
	if entry.Upper < gamma {
		return entry.Upper
	}

	select {
	case <-ctx.Done():
		return stopSearch
	default:
	}
	if time.Now().After(s.deadline) {
		return stopSearch
	}

	best := int32(-MateUpper)

	switch {
	case depth > 0 && !root && hasNullMovePiece(pos):
		score := -s.bound(ctx, pos.NullMove(), 1-gamma, depth-3, false)
		if score == -stopSearch {
			return stopSearch
		}
		best = max32(best, score)
	case depth <= 0:
		best = max32(best, pos.Score+s.jitter())
	}

	if best <= gamma {
		if killer, ok := s.moveTT.Get(pos); ok {
			if depth > 0 || pos.MoveDelta(killer) >= qsLimit {
				score := -s.bound(ctx, pos.ApplyMove(killer), 1-gamma, depth-1, false)
				if score == -stopSearch {
					return stopSearch
				}
				best = max32(best, score)
			}
		}
	}

	if best < gamma {
		for _, m := range orderedMoves(pos) {
			val := pos.MoveDelta(m)
			if pos.CanCheck(m) {
				val += qsLimit / 2
			}
			if !(depth > 0 || (val >= qsLimit && pos.Score+val > best)) {
				break
			}

			score := -s.bound(ctx, pos.ApplyMove(m), 1-gamma, depth-1, false)
			if score == -stopSearch {
				return stopSearch
			}
			best = max32(best, score)
			if best >= gamma {
				s.moveTT.Set(pos, m)
				break
			}
		}
	}

	// Stalemate/checkmate disambiguation: if every move loses outright, a
	// plain fail-low would report a large negative score even when the true
	// result is a draw. Only the case of having no improving move at all
	// needs this: check whether the opponent could immediately capture our
	// king if we simply passed, and score 0 (stalemate) or -MateUpper (mate)
	// accordingly.
	if best < gamma && best < 0 && depth > 0 {
		if allDead(pos) {
			if isDead(pos.NullMove()) {
				best = -MateUpper
			} else {
				best = 0
			}
		}
	}

	if best >= gamma {
		s.scoreTT.Set(pos, depth, root, ScoreEntry{Lower: best, Upper: entry.Upper})
	} else {
		s.scoreTT.Set(pos, depth, root, ScoreEntry{Lower: entry.Lower, Upper: best})
	}

	return best
}

// hasMove reports whether pos already has a recorded best move, used only to
// let a root-level table hit through: the root call must keep exploring
// until it has something to hand back via the move table.
func (s *Searcher) hasMove(pos board.Position) bool {
	_, ok := s.moveTT.Get(pos)
	return ok
}

// hasNullMovePiece reports whether the mover has any piece besides king and
// pawns, which null-move pruning assumes -- passing in a king-and-pawn
// ending is too dangerous to trust as a bound.
func hasNullMovePiece(pos board.Position) bool {
	for _, sq := range pos.Board {
		switch sq {
		case board.MyR, board.MyN, board.MyB, board.MyQ:
			return true
		}
	}
	return false
}

// isDead reports whether pos's mover could capture the opponent's king
// outright, i.e. the side that just moved into pos is already lost.
func isDead(pos board.Position) bool {
	for _, m := range pos.GenMoves() {
		if pos.MoveDelta(m) >= MateLower {
			return true
		}
	}
	return false
}

// allDead reports whether every move available to pos leads to a position
// where the opponent can immediately capture the king.
func allDead(pos board.Position) bool {
	for _, m := range pos.GenMoves() {
		if !isDead(pos.ApplyMove(m)) {
			return false
		}
	}
	return true
}

// orderedMoves returns pos's pseudo-legal moves sorted by incremental value
// plus a check bonus, most promising first, so alpha/beta-style cutoffs
// trigger as early as possible and the quiescence phase sees checking moves
// before quieter ones of lower material value.
func orderedMoves(pos board.Position) []board.Move {
	moves := pos.GenMoves()
	key := func(m board.Move) int32 {
		v := pos.MoveDelta(m)
		if pos.CanCheck(m) {
			v += qsLimit / 2
		}
		return v
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return key(moves[i]) > key(moves[j])
	})
	return moves
}

// SetEvalToZero poisons the non-root score-bound entries for pos at depths 1
// through 29 to exactly {0, 0}. The engine calls this for every position
// reached by a played move, so re-reaching it in search scores as a draw
// for the mover -- a soft repetition suppression rather than formal
// threefold detection.
func (s *Searcher) SetEvalToZero(pos board.Position) {
	for depth := 1; depth < 30; depth++ {
		s.scoreTT.Set(pos, depth, false, ScoreEntry{Lower: 0, Upper: 0})
	}
}

// jitter returns a uniform random value in [-noise, noise], or 0 if no noise
// was configured.
func (s *Searcher) jitter() int32 {
	if s.noise == 0 {
		return 0
	}
	return int32(s.rng.Int31n(2*s.noise+1)) - s.noise
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
