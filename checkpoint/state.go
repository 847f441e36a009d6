package checkpoint

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tos-network/gvest/params"
)

// --- slot derivation ---

func countSlot(account common.Address) common.Hash {
	key := append(account.Bytes(), []byte("ckpt.count")...)
	return common.BytesToHash(crypto.Keccak256(key))
}

func entrySlot(account common.Address, i uint64, field string) common.Hash {
	var pos [8]byte
	binary.BigEndian.PutUint64(pos[:], i)
	key := append(account.Bytes(), pos[:]...)
	key = append(key, []byte(field)...)
	return common.BytesToHash(crypto.Keccak256(key))
}

// --- raw slot access ---

func readCount(db vm.StateDB, account common.Address) uint64 {
	return db.GetState(params.VestingAddress, countSlot(account)).Big().Uint64()
}

func writeCount(db vm.StateDB, account common.Address, n uint64) {
	db.SetState(params.VestingAddress, countSlot(account),
		common.BigToHash(new(big.Int).SetUint64(n)))
}

func readEntry(db vm.StateDB, account common.Address, i uint64) Checkpoint {
	return Checkpoint{
		FromIndex: db.GetState(params.VestingAddress, entrySlot(account, i, "ckpt.from")).Big().Uint64(),
		Votes:     db.GetState(params.VestingAddress, entrySlot(account, i, "ckpt.votes")).Big(),
	}
}

func writeEntry(db vm.StateDB, account common.Address, i uint64, cp Checkpoint) {
	db.SetState(params.VestingAddress, entrySlot(account, i, "ckpt.from"),
		common.BigToHash(new(big.Int).SetUint64(cp.FromIndex)))
	db.SetState(params.VestingAddress, entrySlot(account, i, "ckpt.votes"), common.BigToHash(cp.Votes))
}
