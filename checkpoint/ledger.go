package checkpoint

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru"
)

// latest mirrors the newest entry of an account together with its count.
type latest struct {
	count uint64
	entry Checkpoint
}

// Cache keeps the newest checkpoint of recently written accounts. It must
// only ever reflect committed or in-flight state of a single writer and is
// purged whenever that writer reverts.
type Cache struct {
	entries *lru.Cache
}

// NewCache creates a cache holding up to size accounts.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Purge drops every cached entry.
func (c *Cache) Purge() {
	if c != nil {
		c.entries.Purge()
	}
}

func (c *Cache) get(account common.Address) (latest, bool) {
	if c == nil {
		return latest{}, false
	}
	v, ok := c.entries.Get(account)
	if !ok {
		return latest{}, false
	}
	return v.(latest), true
}

func (c *Cache) add(account common.Address, l latest) {
	if c != nil {
		c.entries.Add(account, l)
	}
}

// Ledger reads and writes checkpoint histories in a StateDB. A nil cache is
// valid and is what read-only callers use.
type Ledger struct {
	db    vm.StateDB
	cache *Cache
}

// New returns a ledger over db.
func New(db vm.StateDB, cache *Cache) *Ledger {
	return &Ledger{db: db, cache: cache}
}

// Purge drops cached state after the underlying StateDB was reverted.
func (l *Ledger) Purge() {
	l.cache.Purge()
}

func (l *Ledger) latest(account common.Address) latest {
	if cached, ok := l.cache.get(account); ok {
		return cached
	}
	cur := latest{count: readCount(l.db, account), entry: Checkpoint{Votes: new(big.Int)}}
	if cur.count > 0 {
		cur.entry = readEntry(l.db, account, cur.count-1)
	}
	l.cache.add(account, cur)
	return cur
}

// Count returns the number of checkpoints of account.
func (l *Ledger) Count(account common.Address) uint64 {
	return l.latest(account).count
}

// At returns the i-th checkpoint of account.
func (l *Ledger) At(account common.Address, i uint64) (Checkpoint, error) {
	if i >= l.Count(account) {
		return Checkpoint{}, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	return readEntry(l.db, account, i), nil
}

// Latest returns the current votes of account, 0 if it has no history.
func (l *Ledger) Latest(account common.Address) *big.Int {
	return new(big.Int).Set(l.latest(account).entry.Votes)
}

// Write records votes for account effective from index. A write at the
// index of the newest entry replaces it.
func (l *Ledger) Write(account common.Address, index uint64, votes *big.Int) error {
	if votes.Sign() < 0 {
		return ErrCheckpointUnderflow
	}
	cur := l.latest(account)
	entry := Checkpoint{FromIndex: index, Votes: new(big.Int).Set(votes)}
	switch {
	case cur.count > 0 && cur.entry.FromIndex == index:
		writeEntry(l.db, account, cur.count-1, entry)
	case cur.count > 0 && cur.entry.FromIndex > index:
		return fmt.Errorf("%w: %d < %d", ErrIndexRegression, index, cur.entry.FromIndex)
	default:
		writeEntry(l.db, account, cur.count, entry)
		cur.count++
		writeCount(l.db, account, cur.count)
	}
	cur.entry = entry
	l.cache.add(account, cur)

	log.Trace("Checkpoint written", "account", account, "index", index, "votes", votes, "count", cur.count)
	return nil
}

// Adjust adds delta, which may be negative, to the current votes of account.
func (l *Ledger) Adjust(account common.Address, index uint64, delta *big.Int) error {
	if delta.Sign() == 0 {
		return nil
	}
	next := new(big.Int).Add(l.latest(account).entry.Votes, delta)
	if next.Sign() < 0 {
		return fmt.Errorf("%w: %s has %v, delta %v", ErrCheckpointUnderflow, account.Hex(), l.latest(account).entry.Votes, delta)
	}
	return l.Write(account, index, next)
}

// Move shifts amount of votes from one account to another at index.
func (l *Ledger) Move(from, to common.Address, index uint64, amount *big.Int) error {
	if from == to || amount.Sign() == 0 {
		return nil
	}
	if err := l.Adjust(from, index, new(big.Int).Neg(amount)); err != nil {
		return err
	}
	return l.Adjust(to, index, amount)
}

// PriorValue returns the votes of account in effect at index: the value of
// the newest entry whose FromIndex is at most index, or 0.
func (l *Ledger) PriorValue(account common.Address, index uint64) *big.Int {
	cur := l.latest(account)
	if cur.count == 0 {
		return new(big.Int)
	}
	if cur.entry.FromIndex <= index {
		return new(big.Int).Set(cur.entry.Votes)
	}
	if readEntry(l.db, account, 0).FromIndex > index {
		return new(big.Int)
	}
	lower, upper := uint64(0), cur.count-1
	for upper > lower {
		center := upper - (upper-lower)/2
		cp := readEntry(l.db, account, center)
		switch {
		case cp.FromIndex == index:
			return cp.Votes
		case cp.FromIndex < index:
			lower = center
		default:
			upper = center - 1
		}
	}
	return readEntry(l.db, account, lower).Votes
}
