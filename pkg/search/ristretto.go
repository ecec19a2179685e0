package search

import (
	"sync/atomic"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/dgraph-io/ristretto/v2"
)

// ristrettoScoreTable backs ScoreTable with a concurrent, size-bounded cache
// instead of the default plain map. The wholesale-clear-on-overflow policy
// of the default table is a correctness issue waiting to happen under
// concurrent access; an admission-policy cache with a byte budget is a
// drop-in substitute that stays correct under concurrent readers.
type ristrettoScoreTable struct {
	cache *ristretto.Cache[scoreKey, ScoreEntry]
	count int64
}

// NewRistrettoScoreTable returns a ScoreTable backed by ristretto, budgeted
// to roughly maxEntries score bounds.
func NewRistrettoScoreTable(maxEntries int64) (ScoreTable, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[scoreKey, ScoreEntry]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &ristrettoScoreTable{cache: cache}, nil
}

func (t *ristrettoScoreTable) Get(pos board.Position, depth int, root bool) (ScoreEntry, bool) {
	return t.cache.Get(scoreKey{pos, depth, root})
}

// Set waits for ristretto's buffered write to be applied, so a Get right
// after it sees the entry, as with the map-backed table.
func (t *ristrettoScoreTable) Set(pos board.Position, depth int, root bool, e ScoreEntry) {
	if t.cache.Set(scoreKey{pos, depth, root}, e, 1) {
		atomic.AddInt64(&t.count, 1)
	}
	t.cache.Wait()
}

func (t *ristrettoScoreTable) Len() int {
	return int(atomic.LoadInt64(&t.count))
}

func (t *ristrettoScoreTable) Clear() {
	t.cache.Clear()
	atomic.StoreInt64(&t.count, 0)
}

// ristrettoMoveTable backs MoveTable the same way.
type ristrettoMoveTable struct {
	cache *ristretto.Cache[board.Position, board.Move]
	count int64
}

// NewRistrettoMoveTable returns a MoveTable backed by ristretto, budgeted to
// roughly maxEntries killer/PV moves.
func NewRistrettoMoveTable(maxEntries int64) (MoveTable, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[board.Position, board.Move]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &ristrettoMoveTable{cache: cache}, nil
}

func (t *ristrettoMoveTable) Get(pos board.Position) (board.Move, bool) {
	return t.cache.Get(pos)
}

func (t *ristrettoMoveTable) Set(pos board.Position, m board.Move) {
	if t.cache.Set(pos, m, 1) {
		atomic.AddInt64(&t.count, 1)
	}
	t.cache.Wait()
}

func (t *ristrettoMoveTable) Len() int {
	return int(atomic.LoadInt64(&t.count))
}

func (t *ristrettoMoveTable) Clear() {
	t.cache.Clear()
	atomic.StoreInt64(&t.count, 0)
}
