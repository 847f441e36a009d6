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
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func validConfig() VestingConfig {
	return VestingConfig{
		Owner:           common.Address{0xee},
		Members:         []common.Address{{0x01}, {0x02}},
		AmountPerMember: big.NewInt(5000),
		StartV:          10,
		DurationV:       10,
		StartT:          15,
		DurationT:       5,
	}
}

func TestVestingConfigValidate(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 255)
	tests := []struct {
		name   string
		mutate func(c *VestingConfig)
		want   error
	}{
		{name: "valid", mutate: func(c *VestingConfig) {}},
		{name: "zero durationV", mutate: func(c *VestingConfig) { c.DurationV = 0 }, want: ErrZeroDurationV},
		{name: "zero durationT", mutate: func(c *VestingConfig) { c.DurationT = 0 }, want: ErrZeroDurationT},
		{name: "nil amount", mutate: func(c *VestingConfig) { c.AmountPerMember = nil }, want: ErrZeroAmount},
		{name: "zero amount", mutate: func(c *VestingConfig) { c.AmountPerMember = new(big.Int) }, want: ErrZeroAmount},
		{name: "no members", mutate: func(c *VestingConfig) { c.Members = nil }, want: ErrNoMembers},
		{name: "no owner", mutate: func(c *VestingConfig) { c.Owner = common.Address{} }, want: ErrZeroOwner},
		{name: "zero member", mutate: func(c *VestingConfig) { c.Members[1] = common.Address{} }, want: ErrZeroMember},
		{name: "duplicate member", mutate: func(c *VestingConfig) { c.Members[1] = c.Members[0] }, want: ErrDuplicateMember},
		{name: "end overflow", mutate: func(c *VestingConfig) { c.StartV = ^uint64(0) }, want: ErrIndexOverflow},
		{name: "wide amount", mutate: func(c *VestingConfig) { c.AmountPerMember = new(big.Int).Lsh(huge, 2) }, want: ErrAmountOverflow},
		{name: "total overflow", mutate: func(c *VestingConfig) { c.AmountPerMember = huge }, want: ErrAmountOverflow},
	}
	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if tt.want == nil && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s: want %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestVestingConfigDefaults(t *testing.T) {
	cfg := validConfig()
	if cfg.MaxStep() != DefaultMaxDurationStep {
		t.Errorf("max step: want %d, got %d", DefaultMaxDurationStep, cfg.MaxStep())
	}
	if cfg.SinkAddress() != DefaultSinkAddress {
		t.Errorf("sink: want %s, got %s", DefaultSinkAddress.Hex(), cfg.SinkAddress().Hex())
	}
	if got := cfg.TotalAllocation(); got.Cmp(big.NewInt(10000)) != 0 {
		t.Errorf("total allocation: want 10000, got %v", got)
	}
	cfg.MaxDurationStep = 7
	cfg.Sink = common.Address{0x42}
	if cfg.MaxStep() != 7 || cfg.SinkAddress() != (common.Address{0x42}) {
		t.Errorf("explicit values not honoured: %d %s", cfg.MaxStep(), cfg.SinkAddress().Hex())
	}
}
