package backend

import (
	"fmt"

	"github.com/tos-network/gvest/params"
)

// Clock modes.
const (
	ClockBlock = "block" // one index per committed action
	ClockUnix  = "unix"  // wall clock seconds
)

// Config contains the configuration options of a ledger backend.
type Config struct {
	// DataDir holds the ledger database. An empty DataDir keeps everything in
	// memory.
	DataDir string `toml:",omitempty"`

	DatabaseCache   int
	DatabaseHandles int `toml:"-"`
	TrieCleanCache  int

	// CheckpointCache is the number of accounts whose newest checkpoint the
	// writer keeps in memory.
	CheckpointCache int

	Clock string
}

// DefaultConfig contains default settings for a backend.
var DefaultConfig = Config{
	DatabaseCache:   64,
	DatabaseHandles: 128,
	TrieCleanCache:  32,
	CheckpointCache: params.DefaultCheckpointCacheSize,
	Clock:           ClockBlock,
}

func (c *Config) sanitize() error {
	switch c.Clock {
	case "":
		c.Clock = ClockBlock
	case ClockBlock, ClockUnix:
	default:
		return fmt.Errorf("unknown clock mode %q", c.Clock)
	}
	if c.CheckpointCache <= 0 {
		c.CheckpointCache = params.DefaultCheckpointCacheSize
	}
	return nil
}
