package vesting

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tos-network/gvest/clock"
	"github.com/tos-network/gvest/sysaction"
)

func init() {
	sysaction.DefaultRegistry.Register(&vestingHandler{})
}

// vestingHandler implements sysaction.Handler for vesting actions.
type vestingHandler struct{}

func (h *vestingHandler) CanHandle(kind sysaction.ActionKind) bool {
	switch kind {
	case sysaction.ActionClaimVotes,
		sysaction.ActionClaimTokens,
		sysaction.ActionDelegate,
		sysaction.ActionTransfer,
		sysaction.ActionDisableMember,
		sysaction.ActionRenounce,
		sysaction.ActionIncreaseDurationT,
		sysaction.ActionIncreasePersonalDurationsT:
		return true
	}
	return false
}

func (h *vestingHandler) Handle(ctx *sysaction.Context, sa *sysaction.SysAction) (*sysaction.Receipt, error) {
	var opts []Option
	if ctx.Ledger != nil {
		opts = append(opts, WithLedger(ctx.Ledger))
	}
	r := New(ctx.StateDB, clock.Fixed(ctx.Index), opts...)
	from := ctx.From
	rcpt := &sysaction.Receipt{Action: sa.Action, Index: ctx.Index}

	switch sa.Action {
	case sysaction.ActionClaimVotes:
		var p sysaction.ClaimVotesPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return nil, fmt.Errorf("claim votes: %w", err)
		}
		member, err := sysaction.DecodeAddress("member", p.Member, from)
		if err != nil {
			return nil, fmt.Errorf("claim votes: %w", err)
		}
		return withAmount(rcpt)(r.ClaimVotes(member))

	case sysaction.ActionClaimTokens:
		var p sysaction.ClaimTokensPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return nil, fmt.Errorf("claim tokens: %w", err)
		}
		beneficiary, err := sysaction.DecodeAddress("beneficiary", p.Beneficiary, from)
		if err != nil {
			return nil, fmt.Errorf("claim tokens: %w", err)
		}
		return withAmount(rcpt)(r.ClaimTokens(from, beneficiary))

	case sysaction.ActionDelegate:
		var p sysaction.DelegatePayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return nil, fmt.Errorf("delegate: %w", err)
		}
		to, err := sysaction.DecodeAddress("delegatee", p.To, common.Address{})
		if err != nil {
			return nil, fmt.Errorf("delegate: %w", err)
		}
		return done(rcpt, r.DelegateVotes(from, to))

	case sysaction.ActionTransfer:
		var p sysaction.TransferPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return nil, fmt.Errorf("transfer: %w", err)
		}
		to, err := sysaction.DecodeAddress("recipient", p.To, common.Address{})
		if err != nil {
			return nil, fmt.Errorf("transfer: %w", err)
		}
		return done(rcpt, r.Transfer(from, to))

	case sysaction.ActionDisableMember:
		var p sysaction.DisableMemberPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return nil, fmt.Errorf("disable member: %w", err)
		}
		member, err := sysaction.DecodeAddress("member", p.Member, common.Address{})
		if err != nil {
			return nil, fmt.Errorf("disable member: %w", err)
		}
		return done(rcpt, r.DisableMember(from, member))

	case sysaction.ActionRenounce:
		return done(rcpt, r.RenounceMembership(from))

	case sysaction.ActionIncreaseDurationT:
		var p sysaction.IncreaseDurationPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return nil, fmt.Errorf("increase duration: %w", err)
		}
		return done(rcpt, r.IncreaseDurationT(from, p.Duration))

	case sysaction.ActionIncreasePersonalDurationsT:
		var p sysaction.IncreasePersonalDurationsPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return nil, fmt.Errorf("increase personal durations: %w", err)
		}
		members := make([]common.Address, len(p.Members))
		for i, s := range p.Members {
			addr, err := sysaction.DecodeAddress("member", s, common.Address{})
			if err != nil {
				return nil, fmt.Errorf("increase personal durations: %w", err)
			}
			members[i] = addr
		}
		return done(rcpt, r.IncreasePersonalDurationsT(from, members, p.Durations))
	}
	return nil, fmt.Errorf("vesting handler: unsupported action %q", sa.Action)
}

// withAmount attaches a released amount to rcpt.
func withAmount(rcpt *sysaction.Receipt) func(*big.Int, error) (*sysaction.Receipt, error) {
	return func(amount *big.Int, err error) (*sysaction.Receipt, error) {
		if err != nil {
			return nil, err
		}
		rcpt.Amount = amount
		return rcpt, nil
	}
}

func done(rcpt *sysaction.Receipt, err error) (*sysaction.Receipt, error) {
	if err != nil {
		return nil, err
	}
	return rcpt, nil
}
