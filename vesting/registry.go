package vesting

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/tos-network/gvest/asset"
	"github.com/tos-network/gvest/checkpoint"
	"github.com/tos-network/gvest/clock"
	"github.com/tos-network/gvest/params"
)

// Authorizer decides whether a caller may run owner-only operations.
type Authorizer interface {
	IsOwner(caller common.Address) bool
}

// stateAuthorizer trusts the owner recorded at genesis.
type stateAuthorizer struct{ db vm.StateDB }

func (a stateAuthorizer) IsOwner(caller common.Address) bool {
	return caller != zeroAddr && caller == getOwner(a.db)
}

// Registry is the membership registry of a vesting ledger. It is a view over
// a StateDB; every mutating method either applies completely or leaves the
// StateDB untouched.
type Registry struct {
	db      vm.StateDB
	clock   clock.Clock
	ledger  *checkpoint.Ledger
	gateway asset.Gateway
	auth    Authorizer
}

// Option configures a Registry.
type Option func(*Registry)

// WithLedger replaces the default uncached checkpoint ledger.
func WithLedger(l *checkpoint.Ledger) Option { return func(r *Registry) { r.ledger = l } }

// WithGateway replaces the default custody gateway.
func WithGateway(g asset.Gateway) Option { return func(r *Registry) { r.gateway = g } }

// WithAuthorizer replaces the owner check.
func WithAuthorizer(a Authorizer) Option { return func(r *Registry) { r.auth = a } }

// New returns a registry over db evaluated at the clock's current index.
func New(db vm.StateDB, clk clock.Clock, opts ...Option) *Registry {
	r := &Registry{db: db, clock: clk}
	for _, opt := range opts {
		opt(r)
	}
	if r.ledger == nil {
		r.ledger = checkpoint.New(db, nil)
	}
	if r.gateway == nil {
		r.gateway = asset.NewStateGateway(db, params.VestingAddress)
	}
	if r.auth == nil {
		r.auth = stateAuthorizer{db: db}
	}
	return r
}

// atomically runs fn inside a StateDB snapshot and reverts every write,
// including balance moves and checkpoints, if fn fails.
func (r *Registry) atomically(op string, fn func(now uint64, p Params) error) error {
	p, err := ReadParams(r.db)
	if err != nil {
		return err
	}
	now := r.clock.CurrentIndex()
	snap := r.db.Snapshot()
	if err := fn(now, p); err != nil {
		r.db.RevertToSnapshot(snap)
		r.ledger.Purge()
		log.Debug("Vesting operation rejected", "op", op, "index", now, "err", err)
		return err
	}
	return nil
}

func (r *Registry) activeMember(addr common.Address) (Member, error) {
	m := ReadMember(r.db, addr)
	if !m.Active() {
		return m, ErrNotActive
	}
	return m, nil
}

// ClaimVotes adds the votes accrued since the last claim to member's net
// voting power. Anyone may trigger a claim for an active member.
func (r *Registry) ClaimVotes(member common.Address) (*big.Int, error) {
	var claimed *big.Int
	err := r.atomically("claimVotes", func(now uint64, p Params) error {
		m, err := r.activeMember(member)
		if err != nil {
			return err
		}
		sched := p.Schedule()
		if !sched.VotesStarted(now) {
			return ErrVotesNotStarted
		}
		inc, err := sched.AvailableVotes(now, m.ClaimedVotes)
		if err != nil {
			return err
		}
		if inc.Sign() == 0 {
			return ErrNothingToClaim
		}
		setBig(r.db, member, "claimedVotes", new(big.Int).Add(m.ClaimedVotes, inc))
		if err := r.ledger.Adjust(holderOf(m), now, inc); err != nil {
			return err
		}
		claimed = inc
		log.Debug("Votes claimed", "member", member, "amount", inc, "index", now)
		return nil
	})
	return claimed, err
}

// ClaimTokens pays the caller's vested tokens to beneficiary. Outstanding
// votes are claimed first; tokens never exceed the votes accrued so far.
func (r *Registry) ClaimTokens(caller, beneficiary common.Address) (*big.Int, error) {
	var paid *big.Int
	err := r.atomically("claimTokens", func(now uint64, p Params) error {
		if beneficiary == zeroAddr {
			return ErrInvalidBeneficiary
		}
		m, err := r.activeMember(caller)
		if err != nil {
			return err
		}
		votes, tokens, err := p.Schedule().pending(now, m)
		if err != nil {
			return err
		}
		if tokens.Sign() == 0 {
			return ErrNothingToClaim
		}
		if err := r.gateway.Transfer(beneficiary, tokens); err != nil {
			return err
		}
		setBig(r.db, caller, "claimedVotes", new(big.Int).Add(m.ClaimedVotes, votes))
		setBig(r.db, caller, "claimedTokens", new(big.Int).Add(m.ClaimedTokens, tokens))
		if err := r.ledger.Adjust(holderOf(m), now, new(big.Int).Sub(votes, tokens)); err != nil {
			return err
		}
		paid = tokens
		log.Debug("Tokens claimed", "member", caller, "beneficiary", beneficiary, "tokens", tokens, "votes", votes, "index", now)
		return nil
	})
	return paid, err
}

// DelegateVotes points the caller's net votes at to, which must be an active
// member or the caller itself.
func (r *Registry) DelegateVotes(caller, to common.Address) error {
	return r.atomically("delegateVotes", func(now uint64, p Params) error {
		if to == zeroAddr {
			return ErrZeroDelegate
		}
		m, err := r.activeMember(caller)
		if err != nil {
			return err
		}
		if to != caller && !ReadMember(r.db, to).Active() {
			return ErrDelegateNotActive
		}
		return r.redelegate(m, to, now)
	})
}

// Transfer moves the caller's whole membership to an unused address.
//
// Inbound delegations that point at the caller are not redirected; their
// owners must delegate again.
func (r *Registry) Transfer(caller, to common.Address) error {
	return r.atomically("transfer", func(now uint64, p Params) error {
		if to == zeroAddr {
			return ErrInvalidRecipient
		}
		src, err := r.activeMember(caller)
		if err != nil {
			return err
		}
		switch dst := ReadMember(r.db, to); {
		case dst.Active():
			return ErrAlreadyActive
		case dst.Used():
			return ErrAddressUsed
		}
		// Flush pending votes so the destination starts from a settled record.
		inc, err := p.Schedule().AvailableVotes(now, src.ClaimedVotes)
		if err != nil {
			return err
		}
		if inc.Sign() > 0 {
			if err := r.ledger.Adjust(holderOf(src), now, inc); err != nil {
				return err
			}
			src.ClaimedVotes = new(big.Int).Add(src.ClaimedVotes, inc)
		}
		dst := Member{
			Address:           to,
			Status:            MemberActive,
			ClaimedVotes:      src.ClaimedVotes,
			ClaimedTokens:     src.ClaimedTokens,
			PersonalDurationT: src.PersonalDurationT,
			Delegate:          src.Delegate,
		}
		if err := r.ledger.Move(holderOf(src), holderOf(dst), now, src.NetVotes()); err != nil {
			return err
		}
		// The destination always gets an entry at the transfer index, even
		// when its votes sit on another holder.
		if err := r.ledger.Write(to, now, r.ledger.Latest(to)); err != nil {
			return err
		}
		writeMember(r.db, dst)
		writeMember(r.db, Member{
			Address:       caller,
			Status:        MemberTransferred,
			ClaimedVotes:  new(big.Int),
			ClaimedTokens: new(big.Int),
		})
		log.Debug("Membership transferred", "from", caller, "to", to, "votes", dst.ClaimedVotes,
			"tokens", dst.ClaimedTokens, "delegate", dst.Delegate, "index", now)
		return nil
	})
}

// DisableMember terminates member's membership. Owner only.
func (r *Registry) DisableMember(caller, member common.Address) error {
	return r.atomically("disableMember", func(now uint64, p Params) error {
		if !r.auth.IsOwner(caller) {
			return ErrNotOwner
		}
		return r.disable(member, now, p)
	})
}

// RenounceMembership terminates the caller's own membership.
func (r *Registry) RenounceMembership(caller common.Address) error {
	return r.atomically("renounceMembership", func(now uint64, p Params) error {
		return r.disable(caller, now, p)
	})
}

// disable returns the unpaid allocation to the sink and removes the member's
// votes from its holder.
func (r *Registry) disable(member common.Address, now uint64, p Params) error {
	m, err := r.activeMember(member)
	if err != nil {
		return err
	}
	refund := new(big.Int).Sub(p.AmountPerMember, m.ClaimedTokens)
	if err := r.gateway.Transfer(p.Sink, refund); err != nil {
		return err
	}
	if err := r.ledger.Adjust(holderOf(m), now, new(big.Int).Neg(m.NetVotes())); err != nil {
		return err
	}
	writeMember(r.db, Member{
		Address:       member,
		Status:        MemberDisabled,
		ClaimedVotes:  new(big.Int),
		ClaimedTokens: new(big.Int),
	})
	setMemberCount(r.db, p.MemberCount-1)
	log.Info("Member disabled", "member", member, "refund", refund, "sink", p.Sink, "index", now)
	return nil
}

// checkDurationStep validates a duration increase from current to next.
func checkDurationStep(current, next, maxStep uint64) error {
	if next <= current {
		return ErrDurationTooShort
	}
	if next-current > maxStep {
		return ErrDurationStepTooLarge
	}
	return nil
}

// IncreaseDurationT extends the global token vesting duration. Owner only.
func (r *Registry) IncreaseDurationT(caller common.Address, duration uint64) error {
	return r.atomically("increaseDurationT", func(now uint64, p Params) error {
		if !r.auth.IsOwner(caller) {
			return ErrNotOwner
		}
		if err := checkDurationStep(p.DurationT, duration, p.MaxDurationStep); err != nil {
			return err
		}
		setDurationT(r.db, duration)
		log.Info("Token vesting duration increased", "from", p.DurationT, "to", duration, "index", now)
		return nil
	})
}

// IncreasePersonalDurationsT extends the token vesting duration of individual
// members. Owner only; either every entry applies or none does.
func (r *Registry) IncreasePersonalDurationsT(caller common.Address, members []common.Address, durations []uint64) error {
	return r.atomically("increasePersonalDurationsT", func(now uint64, p Params) error {
		if !r.auth.IsOwner(caller) {
			return ErrNotOwner
		}
		if len(members) != len(durations) {
			return ErrLengthMismatch
		}
		if len(members) == 0 {
			return ErrNoDurations
		}
		sched := p.Schedule()
		for i, addr := range members {
			m, err := r.activeMember(addr)
			if err != nil {
				return err
			}
			if err := checkDurationStep(sched.EffectiveDurationT(m.PersonalDurationT), durations[i], p.MaxDurationStep); err != nil {
				return err
			}
			// Later entries for the same member compare against earlier ones.
			setUint(r.db, addr, "personalDurationT", durations[i])
		}
		log.Info("Personal token vesting durations increased", "members", len(members), "index", now)
		return nil
	})
}
