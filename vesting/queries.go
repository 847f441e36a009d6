package vesting

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tos-network/gvest/checkpoint"
)

// GetPriorVotes returns the voting power of account at a finalized index.
// Accounts that transferred or lost their membership report zero at every
// index.
func (r *Registry) GetPriorVotes(account common.Address, index uint64) (*big.Int, error) {
	p, err := ReadParams(r.db)
	if err != nil {
		return nil, err
	}
	if index <= p.StartV {
		return nil, ErrBeforeVoteStart
	}
	if index >= r.clock.CurrentIndex() {
		return nil, ErrNotYetDetermined
	}
	if m := ReadMember(r.db, account); m.Transferred() || m.Disabled() {
		return new(big.Int), nil
	}
	return r.ledger.PriorValue(account, index), nil
}

// GetCurrentVotes returns the latest voting power of account, masked like
// GetPriorVotes.
func (r *Registry) GetCurrentVotes(account common.Address) *big.Int {
	if m := ReadMember(r.db, account); m.Transferred() || m.Disabled() {
		return new(big.Int)
	}
	return r.ledger.Latest(account)
}

// LastCachedVotes returns the raw latest checkpoint value of account without
// masking inactive accounts.
func (r *Registry) LastCachedVotes(account common.Address) *big.Int {
	return r.ledger.Latest(account)
}

// NumCheckpoints returns the length of account's checkpoint history.
func (r *Registry) NumCheckpoints(account common.Address) uint64 {
	return r.ledger.Count(account)
}

// Checkpoints returns the i-th checkpoint of account.
func (r *Registry) Checkpoints(account common.Address, i uint64) (checkpoint.Checkpoint, error) {
	return r.ledger.At(account, i)
}

func (r *Registry) schedule() (Schedule, error) {
	p, err := ReadParams(r.db)
	if err != nil {
		return Schedule{}, err
	}
	return p.Schedule(), nil
}

func (r *Registry) HasVoteVestingStarted() (bool, error) {
	s, err := r.schedule()
	return err == nil && s.VotesStarted(r.clock.CurrentIndex()), err
}

func (r *Registry) HasVoteVestingEnded() (bool, error) {
	s, err := r.schedule()
	return err == nil && s.VotesEnded(r.clock.CurrentIndex()), err
}

func (r *Registry) HasTokenVestingStarted() (bool, error) {
	s, err := r.schedule()
	return err == nil && s.TokensStarted(r.clock.CurrentIndex()), err
}

func (r *Registry) HasTokenVestingEnded() (bool, error) {
	s, err := r.schedule()
	return err == nil && s.TokensEnded(r.clock.CurrentIndex()), err
}

// GetAvailableTokensForMember returns what a token claim by member would pay
// at the current index.
func (r *Registry) GetAvailableTokensForMember(member common.Address) (*big.Int, error) {
	return r.GetAvailableTokensForMemberAt(r.clock.CurrentIndex(), member)
}

// AvailableNextIndex returns what a token claim by member would pay one
// index from now. Advisory only.
func (r *Registry) AvailableNextIndex(member common.Address) (*big.Int, error) {
	return r.GetAvailableTokensForMemberAt(r.clock.CurrentIndex()+1, member)
}

// GetAvailableTokensForMemberAt returns what a token claim by member would pay
// at index. Inactive members have nothing available.
func (r *Registry) GetAvailableTokensForMemberAt(index uint64, member common.Address) (*big.Int, error) {
	s, err := r.schedule()
	if err != nil {
		return nil, err
	}
	m := ReadMember(r.db, member)
	if !m.Active() {
		return new(big.Int), nil
	}
	_, tokens, err := s.pending(index, m)
	return tokens, err
}

// Members returns the member record of addr.
func (r *Registry) Members(addr common.Address) Member {
	return ReadMember(r.db, addr)
}

// VoteDelegations returns the delegation edge of addr, zero if unset.
func (r *Registry) VoteDelegations(addr common.Address) common.Address {
	return getDelegate(r.db, addr)
}

// EffectiveEndT returns the index at which member's tokens are fully vested.
func (r *Registry) EffectiveEndT(member common.Address) (uint64, error) {
	s, err := r.schedule()
	if err != nil {
		return 0, err
	}
	return s.EffectiveEndT(ReadMember(r.db, member).PersonalDurationT), nil
}

// Params returns the global ledger parameters.
func (r *Registry) Params() (Params, error) {
	return ReadParams(r.db)
}
