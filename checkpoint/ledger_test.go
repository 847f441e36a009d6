package checkpoint

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/state"
)

// newTestState creates a fresh in-memory StateDB for tests.
func newTestState() *state.StateDB {
	db := state.NewDatabase(rawdb.NewMemoryDatabase())
	s, _ := state.New(common.Hash{}, db, nil)
	return s
}

// tAddr generates a deterministic test address.
func tAddr(b byte) common.Address { return common.Address{b} }

func newTestLedger(t *testing.T) (*state.StateDB, *Ledger) {
	t.Helper()
	cache, err := NewCache(16)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	st := newTestState()
	return st, New(st, cache)
}

// TestWriteAppendsAndOverwrites checks that same-index writes replace the
// newest entry while later indices append.
func TestWriteAppendsAndOverwrites(t *testing.T) {
	_, l := newTestLedger(t)
	a := tAddr(1)

	if err := l.Write(a, 10, big.NewInt(5)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := l.Write(a, 10, big.NewInt(7)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if n := l.Count(a); n != 1 {
		t.Fatalf("count after overwrite: want 1, got %d", n)
	}
	if err := l.Write(a, 12, big.NewInt(9)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if n := l.Count(a); n != 2 {
		t.Fatalf("count after append: want 2, got %d", n)
	}
	cp, err := l.At(a, 0)
	if err != nil {
		t.Fatalf("at 0: %v", err)
	}
	if cp.FromIndex != 10 || cp.Votes.Int64() != 7 {
		t.Errorf("entry 0: want (10, 7), got (%d, %v)", cp.FromIndex, cp.Votes)
	}
	if _, err := l.At(a, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("at 2: want ErrOutOfRange, got %v", err)
	}
	if err := l.Write(a, 11, big.NewInt(1)); !errors.Is(err, ErrIndexRegression) {
		t.Errorf("regression: want ErrIndexRegression, got %v", err)
	}
}

// TestPriorValue exercises the binary search over a longer history.
func TestPriorValue(t *testing.T) {
	_, l := newTestLedger(t)
	a := tAddr(2)
	for i := uint64(1); i <= 9; i++ {
		if err := l.Write(a, i*10, new(big.Int).SetUint64(i*100)); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	tests := []struct {
		index uint64
		want  int64
	}{
		{0, 0}, {9, 0}, {10, 100}, {11, 100}, {19, 100}, {20, 200},
		{45, 400}, {50, 500}, {79, 700}, {90, 900}, {1000, 900},
	}
	for _, tt := range tests {
		if got := l.PriorValue(a, tt.index); got.Int64() != tt.want {
			t.Errorf("PriorValue(%d): want %d, got %v", tt.index, tt.want, got)
		}
	}
	if got := l.PriorValue(tAddr(3), 50); got.Sign() != 0 {
		t.Errorf("empty history: want 0, got %v", got)
	}
}

// TestPriorValueStable checks that later writes never change answers for
// earlier indices.
func TestPriorValueStable(t *testing.T) {
	_, l := newTestLedger(t)
	a := tAddr(4)
	l.Write(a, 5, big.NewInt(50))
	l.Write(a, 8, big.NewInt(80))
	before := l.PriorValue(a, 7)
	l.Write(a, 9, big.NewInt(1))
	l.Write(a, 9, big.NewInt(2))
	if after := l.PriorValue(a, 7); after.Cmp(before) != 0 {
		t.Errorf("PriorValue(7) moved from %v to %v", before, after)
	}
}

// TestAdjustAndMove checks signed adjustments and transfers between holders.
func TestAdjustAndMove(t *testing.T) {
	_, l := newTestLedger(t)
	a, b := tAddr(5), tAddr(6)
	if err := l.Adjust(a, 1, big.NewInt(30)); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if err := l.Move(a, b, 2, big.NewInt(10)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if l.Latest(a).Int64() != 20 || l.Latest(b).Int64() != 10 {
		t.Fatalf("after move: a=%v b=%v", l.Latest(a), l.Latest(b))
	}
	if err := l.Adjust(b, 3, big.NewInt(-11)); !errors.Is(err, ErrCheckpointUnderflow) {
		t.Errorf("underflow: want ErrCheckpointUnderflow, got %v", err)
	}
	if err := l.Move(a, a, 3, big.NewInt(5)); err != nil {
		t.Errorf("self move: %v", err)
	}
	if n := l.Count(a); n != 2 {
		t.Errorf("self move must not write: count %d", n)
	}
	if err := l.Adjust(a, 3, new(big.Int)); err != nil || l.Count(a) != 2 {
		t.Errorf("zero adjust must not write: count %d err %v", l.Count(a), err)
	}
}

// TestCachePurgeAfterRevert checks that a reverted StateDB does not leave
// stale entries visible through the cache.
func TestCachePurgeAfterRevert(t *testing.T) {
	st, l := newTestLedger(t)
	a := tAddr(7)
	l.Write(a, 1, big.NewInt(10))

	snap := st.Snapshot()
	l.Write(a, 2, big.NewInt(99))
	st.RevertToSnapshot(snap)
	l.Purge()

	if got := l.Latest(a); got.Int64() != 10 {
		t.Fatalf("latest after revert: want 10, got %v", got)
	}
	if n := l.Count(a); n != 1 {
		t.Fatalf("count after revert: want 1, got %d", n)
	}
	// An uncached reader over the same state agrees.
	if got := New(st, nil).PriorValue(a, 5); got.Int64() != 10 {
		t.Fatalf("uncached reader: want 10, got %v", got)
	}
}
