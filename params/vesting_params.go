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
	"github.com/ethereum/go-ethereum/common"
)

// Vesting system addresses: well-known addresses used by the ledger.
var (
	// VestingAddress holds all vesting ledger state in its storage slots and
	// the vested asset in its balance.
	VestingAddress = common.HexToAddress("0x0000000000000000000000000000005653545631") // "VST1"

	// DefaultSinkAddress receives the unvested remainder of disabled or
	// renounced memberships when the genesis config names no sink.
	DefaultSinkAddress = common.HexToAddress("0x0000000000000000000000000000000000000001")
)

const (
	// DefaultMaxDurationStep bounds a single increase of the token vesting
	// duration, in clock index units. Matches one year of 12 s blocks.
	DefaultMaxDurationStep uint64 = 2_628_000

	// DefaultCheckpointCacheSize is the number of accounts whose latest
	// checkpoint is kept in memory by a writer.
	DefaultCheckpointCacheSize = 1024
)
