// Copyright 2024 The gvest Authors
// This file is part of the gvest library.
//
// The gvest library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The gvest library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the gvest library. If not, see <http://www.gnu.org/licenses/>.

package params

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	ErrZeroDurationV   = errors.New("invalid durationV")
	ErrZeroDurationT   = errors.New("invalid durationT")
	ErrZeroAmount      = errors.New("invalid amount per member")
	ErrNoMembers       = errors.New("empty member list")
	ErrZeroMember      = errors.New("zero address in member list")
	ErrDuplicateMember = errors.New("duplicate member")
	ErrZeroOwner       = errors.New("owner not set")
	ErrAmountOverflow  = errors.New("total allocation exceeds 256 bits")
	ErrIndexOverflow   = errors.New("schedule end overflows the index range")
)

// VestingConfig is the genesis configuration of a vesting ledger. Durations
// and start points are expressed in clock index units (blocks or seconds).
type VestingConfig struct {
	Owner           common.Address
	Members         []common.Address
	AmountPerMember *big.Int

	StartV    uint64
	DurationV uint64
	StartT    uint64
	DurationT uint64

	MaxDurationStep uint64         `toml:",omitempty"`
	Sink            common.Address `toml:",omitempty"`

	// Fund credits the custody account with the full allocation at genesis.
	// Deployments that receive the asset through a separate transfer leave
	// it unset.
	Fund bool `toml:",omitempty"`
}

// DefaultVestingConfig is a small single-member schedule, mostly useful as a
// template for dumpconfig.
var DefaultVestingConfig = VestingConfig{
	AmountPerMember: big.NewInt(5000),
	StartV:          100,
	DurationV:       100,
	StartT:          150,
	DurationT:       100,
	MaxDurationStep: DefaultMaxDurationStep,
	Sink:            DefaultSinkAddress,
	Fund:            true,
}

// Validate checks the genesis parameters for consistency.
func (c *VestingConfig) Validate() error {
	if c.DurationV == 0 {
		return ErrZeroDurationV
	}
	if c.DurationT == 0 {
		return ErrZeroDurationT
	}
	if c.AmountPerMember == nil || c.AmountPerMember.Sign() <= 0 {
		return ErrZeroAmount
	}
	if len(c.Members) == 0 {
		return ErrNoMembers
	}
	if c.Owner == (common.Address{}) {
		return ErrZeroOwner
	}
	if c.StartV+c.DurationV < c.StartV || c.StartT+c.DurationT < c.StartT {
		return ErrIndexOverflow
	}
	seen := make(map[common.Address]struct{}, len(c.Members))
	for _, m := range c.Members {
		if m == (common.Address{}) {
			return ErrZeroMember
		}
		if _, ok := seen[m]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateMember, m.Hex())
		}
		seen[m] = struct{}{}
	}
	// Amounts live in 32-byte storage slots; anything wider would be
	// silently truncated by common.BigToHash. The accrual numerator
	// (amount x duration) must fit as well.
	amount, overflow := uint256.FromBig(c.AmountPerMember)
	if overflow {
		return ErrAmountOverflow
	}
	if _, overflow := new(uint256.Int).MulOverflow(amount, uint256.NewInt(uint64(len(c.Members)))); overflow {
		return ErrAmountOverflow
	}
	maxDuration := c.DurationT + c.MaxStep()
	if maxDuration < c.DurationV {
		maxDuration = c.DurationV
	}
	if _, overflow := new(uint256.Int).MulOverflow(amount, uint256.NewInt(maxDuration)); overflow {
		return ErrAmountOverflow
	}
	return nil
}

// MaxStep returns the configured maximum duration increase, or the default.
func (c *VestingConfig) MaxStep() uint64 {
	if c.MaxDurationStep == 0 {
		return DefaultMaxDurationStep
	}
	return c.MaxDurationStep
}

// SinkAddress returns the configured sink, or the default.
func (c *VestingConfig) SinkAddress() common.Address {
	if c.Sink == (common.Address{}) {
		return DefaultSinkAddress
	}
	return c.Sink
}

// TotalAllocation returns AmountPerMember multiplied by the member count.
func (c *VestingConfig) TotalAllocation() *big.Int {
	return new(big.Int).Mul(c.AmountPerMember, big.NewInt(int64(len(c.Members))))
}
