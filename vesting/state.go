package vesting

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tos-network/gvest/params"
)

// --- slot derivation ---

func vestingSlot(addr common.Address, field string) common.Hash {
	key := append(addr.Bytes(), []byte(field)...)
	return common.BytesToHash(crypto.Keccak256(key))
}

var zeroAddr = common.Address{}

func getUint(db vm.StateDB, addr common.Address, field string) uint64 {
	return db.GetState(params.VestingAddress, vestingSlot(addr, field)).Big().Uint64()
}

func setUint(db vm.StateDB, addr common.Address, field string, v uint64) {
	db.SetState(params.VestingAddress, vestingSlot(addr, field),
		common.BigToHash(new(big.Int).SetUint64(v)))
}

func getBig(db vm.StateDB, addr common.Address, field string) *big.Int {
	return db.GetState(params.VestingAddress, vestingSlot(addr, field)).Big()
}

func setBig(db vm.StateDB, addr common.Address, field string, v *big.Int) {
	db.SetState(params.VestingAddress, vestingSlot(addr, field), common.BigToHash(v))
}

func getAddress(db vm.StateDB, addr common.Address, field string) common.Address {
	return common.BytesToAddress(db.GetState(params.VestingAddress, vestingSlot(addr, field)).Bytes())
}

func setAddress(db vm.StateDB, addr common.Address, field string, v common.Address) {
	db.SetState(params.VestingAddress, vestingSlot(addr, field), common.BytesToHash(v.Bytes()))
}

// --- global parameters ---

func isInitialized(db vm.StateDB) bool { return getUint(db, zeroAddr, "initialized") != 0 }

func getOwner(db vm.StateDB) common.Address { return getAddress(db, zeroAddr, "owner") }

func getDurationT(db vm.StateDB) uint64 { return getUint(db, zeroAddr, "durationT") }

func setDurationT(db vm.StateDB, d uint64) { setUint(db, zeroAddr, "durationT", d) }

func getMemberCount(db vm.StateDB) uint64 { return getUint(db, zeroAddr, "memberCount") }

func setMemberCount(db vm.StateDB, n uint64) { setUint(db, zeroAddr, "memberCount", n) }

func writeParams(db vm.StateDB, p Params) {
	setAddress(db, zeroAddr, "owner", p.Owner)
	setBig(db, zeroAddr, "amountPerMember", p.AmountPerMember)
	setUint(db, zeroAddr, "startV", p.StartV)
	setUint(db, zeroAddr, "durationV", p.DurationV)
	setUint(db, zeroAddr, "startT", p.StartT)
	setDurationT(db, p.DurationT)
	setUint(db, zeroAddr, "maxDurationStep", p.MaxDurationStep)
	setAddress(db, zeroAddr, "sink", p.Sink)
	setMemberCount(db, p.MemberCount)
	setUint(db, zeroAddr, "initialized", 1)
}

// ReadParams reads the global parameters from the StateDB.
func ReadParams(db vm.StateDB) (Params, error) {
	if !isInitialized(db) {
		return Params{}, ErrNotInitialized
	}
	return Params{
		Owner:           getOwner(db),
		AmountPerMember: getBig(db, zeroAddr, "amountPerMember"),
		StartV:          getUint(db, zeroAddr, "startV"),
		DurationV:       getUint(db, zeroAddr, "durationV"),
		StartT:          getUint(db, zeroAddr, "startT"),
		DurationT:       getDurationT(db),
		MaxDurationStep: getUint(db, zeroAddr, "maxDurationStep"),
		Sink:            getAddress(db, zeroAddr, "sink"),
		MemberCount:     getMemberCount(db),
	}, nil
}

// --- member state ---

func getStatus(db vm.StateDB, addr common.Address) MemberStatus {
	return MemberStatus(getUint(db, addr, "status"))
}

func setStatus(db vm.StateDB, addr common.Address, s MemberStatus) {
	setUint(db, addr, "status", uint64(s))
}

func getDelegate(db vm.StateDB, addr common.Address) common.Address {
	return getAddress(db, addr, "delegate")
}

func setDelegate(db vm.StateDB, addr, to common.Address) {
	setAddress(db, addr, "delegate", to)
}

func writeMember(db vm.StateDB, m Member) {
	setStatus(db, m.Address, m.Status)
	setBig(db, m.Address, "claimedVotes", m.ClaimedVotes)
	setBig(db, m.Address, "claimedTokens", m.ClaimedTokens)
	setUint(db, m.Address, "personalDurationT", m.PersonalDurationT)
	setDelegate(db, m.Address, m.Delegate)
}

// ReadMember reads the complete member record of addr from the StateDB.
// Unused addresses yield a zero record.
func ReadMember(db vm.StateDB, addr common.Address) Member {
	return Member{
		Address:           addr,
		Status:            getStatus(db, addr),
		ClaimedVotes:      getBig(db, addr, "claimedVotes"),
		ClaimedTokens:     getBig(db, addr, "claimedTokens"),
		PersonalDurationT: getUint(db, addr, "personalDurationT"),
		Delegate:          getDelegate(db, addr),
	}
}
