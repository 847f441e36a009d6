// Package backend runs a vesting ledger on top of a persistent state trie.
//
// A Backend owns one ledger. Actions are applied by a single writer, each on
// a fresh StateDB opened at the committed head; a successful action is
// committed to the trie and becomes the new head, a failed one is dropped.
// Queries open their own StateDB at the head and never block the writer.
package backend

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/tos-network/gvest/checkpoint"
	"github.com/tos-network/gvest/clock"
	"github.com/tos-network/gvest/params"
	"github.com/tos-network/gvest/sysaction"
	"github.com/tos-network/gvest/vesting"
)

var (
	ErrClosed          = errors.New("backend closed")
	ErrClockRegression = errors.New("clock moved behind the ledger head")
)

// Backend is a single ledger instance.
type Backend struct {
	config *Config
	logger log.Logger

	diskdb  ethdb.Database
	statedb state.Database
	cache   *checkpoint.Cache
	clock   clock.Clock

	mu     sync.Mutex // serializes writers
	headMu sync.RWMutex
	head   *Head // nil until genesis

	closed int32
}

// New opens the ledger database described by cfg. A nil clk selects the clock
// named in cfg.
func New(cfg *Config, clk clock.Clock) (*Backend, error) {
	config := *cfg
	if err := config.sanitize(); err != nil {
		return nil, err
	}
	var (
		diskdb ethdb.Database
		err    error
	)
	if config.DataDir == "" {
		diskdb = rawdb.NewMemoryDatabase()
	} else {
		diskdb, err = rawdb.NewLevelDBDatabase(filepath.Join(config.DataDir, "ledgerdata"), config.DatabaseCache, config.DatabaseHandles, "gvest/db/ledgerdata/", false)
		if err != nil {
			return nil, err
		}
	}
	head, err := readHead(diskdb)
	if err != nil {
		diskdb.Close()
		return nil, err
	}
	cache, err := checkpoint.NewCache(config.CheckpointCache)
	if err != nil {
		diskdb.Close()
		return nil, err
	}
	if clk == nil {
		clk = makeClock(config.Clock, head)
	}
	b := &Backend{
		config:  &config,
		logger:  log.New("module", "backend"),
		diskdb:  diskdb,
		statedb: state.NewDatabaseWithConfig(diskdb, &trie.Config{Cache: config.TrieCleanCache}),
		cache:   cache,
		clock:   clk,
		head:    head,
	}
	if head != nil {
		b.logger.Info("Loaded vesting ledger", "root", head.Root, "index", head.Index, "actions", head.Actions)
		headIndexGauge.Update(int64(head.Index))
	}
	return b, nil
}

// makeClock builds the clock of a freshly opened backend. A block clock
// resumes one past the last committed action.
func makeClock(mode string, head *Head) clock.Clock {
	if mode == ClockUnix {
		return clock.NewUnix()
	}
	var next uint64
	if head != nil {
		next = head.Index
		if head.Actions > 0 {
			next++
		}
	}
	return clock.NewCounter(next)
}

// Clock returns the index source of the backend.
func (b *Backend) Clock() clock.Clock { return b.clock }

// Head returns the committed head, nil before genesis.
func (b *Backend) Head() *Head {
	b.headMu.RLock()
	defer b.headMu.RUnlock()
	if b.head == nil {
		return nil
	}
	head := *b.head
	return &head
}

func (b *Backend) setHead(head *Head) error {
	if err := writeHead(b.diskdb, head); err != nil {
		return err
	}
	b.headMu.Lock()
	b.head = head
	b.headMu.Unlock()
	headIndexGauge.Update(int64(head.Index))
	return nil
}

func (b *Backend) isClosed() bool { return atomic.LoadInt32(&b.closed) == 1 }

// Genesis seeds the ledger from cfg and commits it as the first head.
func (b *Backend) Genesis(cfg *params.VestingConfig) (*Head, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isClosed() {
		return nil, ErrClosed
	}
	if b.Head() != nil {
		return nil, vesting.ErrAlreadyInitialized
	}
	st, err := state.New(common.Hash{}, b.statedb, nil)
	if err != nil {
		return nil, err
	}
	if err := vesting.Init(st, cfg); err != nil {
		return nil, err
	}
	root, err := b.commit(st)
	if err != nil {
		return nil, err
	}
	head := &Head{Root: root, Index: b.clock.CurrentIndex()}
	if err := b.setHead(head); err != nil {
		return nil, err
	}
	memberGauge.Update(int64(len(cfg.Members)))
	b.logger.Info("Committed vesting genesis", "root", root, "index", head.Index, "members", len(cfg.Members))
	return head, nil
}

// Execute applies an encoded action sent by from at the clock's current
// index. Either the whole action is committed or nothing is.
func (b *Backend) Execute(from common.Address, data []byte) (*sysaction.Receipt, error) {
	defer executeTimer.UpdateSince(time.Now())

	b.mu.Lock()
	defer b.mu.Unlock()

	rcpt, err := b.execute(from, data)
	if err != nil {
		executeFailedMeter.Mark(1)
		b.cache.Purge()
		return nil, err
	}
	return rcpt, nil
}

func (b *Backend) execute(from common.Address, data []byte) (*sysaction.Receipt, error) {
	if b.isClosed() {
		return nil, ErrClosed
	}
	head := b.Head()
	if head == nil {
		return nil, vesting.ErrNotInitialized
	}
	now := b.clock.CurrentIndex()
	if now < head.Index {
		return nil, fmt.Errorf("%w: head %d, clock %d", ErrClockRegression, head.Index, now)
	}
	st, err := state.New(head.Root, b.statedb, nil)
	if err != nil {
		return nil, err
	}
	rcpt, err := sysaction.Execute(&sysaction.Context{
		From:    from,
		Index:   now,
		StateDB: st,
		Ledger:  checkpoint.New(st, b.cache),
	}, data)
	if err != nil {
		b.logger.Debug("Action rejected", "from", from, "index", now, "err", err)
		return nil, err
	}
	root, err := b.commit(st)
	if err != nil {
		return nil, err
	}
	if err := b.setHead(&Head{Root: root, Index: now, Actions: head.Actions + 1}); err != nil {
		return nil, err
	}
	if adv, ok := b.clock.(clock.Advancer); ok {
		adv.Advance()
	}
	actionCounter(rcpt.Action).Inc(1)
	if p, err := vesting.ReadParams(st); err == nil {
		memberGauge.Update(int64(p.MemberCount))
	}
	b.logger.Debug("Action committed", "action", rcpt.Action, "from", from, "index", now, "root", root)
	return rcpt, nil
}

// commit flushes st to the trie database and on to disk.
func (b *Backend) commit(st *state.StateDB) (common.Hash, error) {
	defer commitTimer.UpdateSince(time.Now())

	root, err := st.Commit(false)
	if err != nil {
		return common.Hash{}, err
	}
	if err := b.statedb.TrieDB().Commit(root, false, nil); err != nil {
		return common.Hash{}, err
	}
	return root, nil
}

// State opens a read-only view of the committed head.
func (b *Backend) State() (*state.StateDB, error) {
	if b.isClosed() {
		return nil, ErrClosed
	}
	head := b.Head()
	if head == nil {
		return nil, vesting.ErrNotInitialized
	}
	return state.New(head.Root, b.statedb, nil)
}

// Registry returns a query view of the committed head evaluated at the
// backend's clock. Mutations on the view are never committed.
func (b *Backend) Registry() (*vesting.Registry, error) {
	st, err := b.State()
	if err != nil {
		return nil, err
	}
	return vesting.New(st, b.clock), nil
}

// Close releases the database. Pending writers finish first.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !atomic.CompareAndSwapInt32(&b.closed, 0, 1) {
		return ErrClosed
	}
	b.cache.Purge()
	return b.diskdb.Close()
}
