package vesting

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// holderOf returns the account whose checkpoint carries m's net votes: the
// delegatee when an edge is set, the member itself otherwise. Liveness of the
// delegatee is not consulted here; queries mask inactive accounts instead.
func holderOf(m Member) common.Address {
	if m.Delegate != zeroAddr {
		return m.Delegate
	}
	return m.Address
}

// redelegate points m's votes at to, moving its net votes between holders
// at index. An explicit self-delegation is stored as the member's address.
func (r *Registry) redelegate(m Member, to common.Address, index uint64) error {
	if to == zeroAddr {
		return ErrZeroDelegate
	}
	from := holderOf(m)
	if to == from {
		return ErrAlreadyDelegated
	}
	if m.Active() {
		if err := r.ledger.Move(from, to, index, m.NetVotes()); err != nil {
			return err
		}
	}
	setDelegate(r.db, m.Address, to)

	log.Debug("Votes delegated", "member", m.Address, "from", from, "to", to, "votes", m.NetVotes(), "index", index)
	return nil
}
