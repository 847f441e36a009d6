// Package checkpoint implements per-account voting power histories stored in
// the vesting system account. Each account owns an ordered list of
// (fromIndex, votes) entries; a lookup returns the value that was in effect
// at a given index.
package checkpoint

import (
	"errors"
	"math/big"
)

var (
	ErrIndexRegression     = errors.New("checkpoint: index below latest entry")
	ErrCheckpointUnderflow = errors.New("checkpoint: votes underflow")
	ErrOutOfRange          = errors.New("checkpoint: entry out of range")
)

// Checkpoint is one entry of an account's history.
type Checkpoint struct {
	FromIndex uint64
	Votes     *big.Int
}
