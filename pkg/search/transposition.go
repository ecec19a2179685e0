package search

import "github.com/corvidchess/corvid/pkg/board"

// tableCap bounds the default map-backed tables: once a table grows past
// this many entries it is cleared outright rather than evicted piecemeal,
// since a running search only ever needs the current iteration's entries to
// stay warm.
const tableCap = 1_000_000

// ScoreEntry is a bound on a position's true score: [Lower, Upper].
type ScoreEntry struct {
	Lower, Upper int32
}

// scoreKey identifies a score-bound table entry. Root distinguishes the
// single top-level call iterative deepening makes at a given depth from
// every recursive call at that same depth, since the two are not
// interchangeable bounds on the same position.
type scoreKey struct {
	Pos   board.Position
	Depth int
	Root  bool
}

// ScoreTable stores search-bound entries keyed by (position, depth, root).
type ScoreTable interface {
	Get(pos board.Position, depth int, root bool) (ScoreEntry, bool)
	Set(pos board.Position, depth int, root bool, e ScoreEntry)
	Len() int
	Clear()
}

// MoveTable stores the best move found so far for a position, used both as a
// move-ordering hint and to recover the principal variation after a search.
type MoveTable interface {
	Get(pos board.Position) (board.Move, bool)
	Set(pos board.Position, m board.Move)
	Len() int
	Clear()
}

type mapScoreTable struct {
	m map[scoreKey]ScoreEntry
}

// NewScoreTable returns the default map-backed ScoreTable.
func NewScoreTable() ScoreTable {
	return &mapScoreTable{m: make(map[scoreKey]ScoreEntry)}
}

func (t *mapScoreTable) Get(pos board.Position, depth int, root bool) (ScoreEntry, bool) {
	e, ok := t.m[scoreKey{pos, depth, root}]
	return e, ok
}

func (t *mapScoreTable) Set(pos board.Position, depth int, root bool, e ScoreEntry) {
	if len(t.m) >= tableCap {
		t.Clear()
	}
	t.m[scoreKey{pos, depth, root}] = e
}

func (t *mapScoreTable) Len() int { return len(t.m) }

func (t *mapScoreTable) Clear() { t.m = make(map[scoreKey]ScoreEntry) }

type mapMoveTable struct {
	m map[board.Position]board.Move
}

// NewMoveTable returns the default map-backed MoveTable.
func NewMoveTable() MoveTable {
	return &mapMoveTable{m: make(map[board.Position]board.Move)}
}

func (t *mapMoveTable) Get(pos board.Position) (board.Move, bool) {
	m, ok := t.m[pos]
	return m, ok
}

func (t *mapMoveTable) Set(pos board.Position, m board.Move) {
	if len(t.m) >= tableCap {
		t.Clear()
	}
	t.m[pos] = m
}

func (t *mapMoveTable) Len() int { return len(t.m) }

func (t *mapMoveTable) Clear() { t.m = make(map[board.Position]board.Move) }
