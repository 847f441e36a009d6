package vesting

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tos-network/gvest/sysaction"
)

func execAction(t *testing.T, l *testLedger, from common.Address, index uint64, kind sysaction.ActionKind, payload interface{}) (*sysaction.Receipt, error) {
	t.Helper()
	data, err := sysaction.MakeSysAction(kind, payload)
	if err != nil {
		t.Fatalf("encode %s: %v", kind, err)
	}
	return sysaction.Execute(&sysaction.Context{
		From:    from,
		Index:   index,
		StateDB: l.st,
	}, data)
}

func TestHandlerClaims(t *testing.T) {
	l := newTestLedger(t, shortSchedule())

	rcpt, err := execAction(t, l, member1, 102, sysaction.ActionClaimVotes, nil)
	if err != nil {
		t.Fatalf("claim votes: %v", err)
	}
	if rcpt.Action != sysaction.ActionClaimVotes || rcpt.Index != 102 || rcpt.Amount.Int64() != 500 {
		t.Errorf("claim votes receipt: %+v", rcpt)
	}
	// Anyone may claim votes on behalf of a member.
	rcpt, err = execAction(t, l, bob, 102, sysaction.ActionClaimVotes, sysaction.ClaimVotesPayload{Member: member2.Hex()})
	if err != nil {
		t.Fatalf("claim votes for member2: %v", err)
	}
	if rcpt.Amount.Int64() != 500 {
		t.Errorf("claimed %v for member2, want 500", rcpt.Amount)
	}

	rcpt, err = execAction(t, l, member1, 106, sysaction.ActionClaimTokens, sysaction.ClaimTokensPayload{Beneficiary: bob.Hex()})
	if err != nil {
		t.Fatalf("claim tokens: %v", err)
	}
	if rcpt.Amount.Int64() != 500 {
		t.Errorf("paid %v, want 500", rcpt.Amount)
	}
	if bal := l.st.GetBalance(bob); bal.Int64() != 500 {
		t.Errorf("beneficiary balance %v", bal)
	}
	// An empty beneficiary pays the sender.
	if _, err := execAction(t, l, member2, 106, sysaction.ActionClaimTokens, nil); err != nil {
		t.Fatalf("claim tokens to self: %v", err)
	}
	if bal := l.st.GetBalance(member2); bal.Int64() != 500 {
		t.Errorf("sender balance %v", bal)
	}

	rcpt, err = execAction(t, l, member1, 106, sysaction.ActionClaimTokens, nil)
	if !errors.Is(err, ErrNothingToClaim) || rcpt != nil {
		t.Errorf("repeat claim: rcpt %+v, err %v", rcpt, err)
	}
}

func TestHandlerMembership(t *testing.T) {
	l := newTestLedger(t, shortSchedule())

	if _, err := execAction(t, l, member1, 101, sysaction.ActionDelegate, sysaction.DelegatePayload{To: member2.Hex()}); err != nil {
		t.Fatalf("delegate: %v", err)
	}
	if got := l.reg.VoteDelegations(member1); got != member2 {
		t.Errorf("edge %s", got.Hex())
	}
	if _, err := execAction(t, l, member1, 101, sysaction.ActionDelegate, sysaction.DelegatePayload{}); !errors.Is(err, ErrZeroDelegate) {
		t.Errorf("empty delegatee: want ErrZeroDelegate, got %v", err)
	}
	if _, err := execAction(t, l, member1, 102, sysaction.ActionTransfer, sysaction.TransferPayload{To: bob.Hex()}); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if !l.member(bob).Active() || !l.member(member1).Transferred() {
		t.Error("transfer not applied")
	}
	if _, err := execAction(t, l, member2, 103, sysaction.ActionDisableMember, sysaction.DisableMemberPayload{Member: member3.Hex()}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("disable by member: want ErrNotOwner, got %v", err)
	}
	if _, err := execAction(t, l, owner, 103, sysaction.ActionDisableMember, sysaction.DisableMemberPayload{Member: member3.Hex()}); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := execAction(t, l, member2, 103, sysaction.ActionRenounce, nil); err != nil {
		t.Fatalf("renounce: %v", err)
	}
	p, _ := l.reg.Params()
	if p.MemberCount != 1 {
		t.Errorf("member count %d, want 1", p.MemberCount)
	}
}

func TestHandlerDurations(t *testing.T) {
	l := newTestLedger(t, shortSchedule())

	if _, err := execAction(t, l, owner, 101, sysaction.ActionIncreaseDurationT, sysaction.IncreaseDurationPayload{Duration: 8}); err != nil {
		t.Fatalf("increase duration: %v", err)
	}
	payload := sysaction.IncreasePersonalDurationsPayload{
		Members:   []string{member1.Hex(), member2.Hex()},
		Durations: []uint64{10, 12},
	}
	if _, err := execAction(t, l, owner, 101, sysaction.ActionIncreasePersonalDurationsT, payload); err != nil {
		t.Fatalf("increase personal durations: %v", err)
	}
	if end, _ := l.reg.EffectiveEndT(member2); end != 117 {
		t.Errorf("member2 end %d, want 117", end)
	}
	payload.Members[0] = "not-an-address"
	if _, err := execAction(t, l, owner, 101, sysaction.ActionIncreasePersonalDurationsT, payload); !errors.Is(err, sysaction.ErrInvalidSysAction) {
		t.Errorf("bad address: want ErrInvalidSysAction, got %v", err)
	}
}

func TestHandlerRejectsMalformedPayload(t *testing.T) {
	l := newTestLedger(t, shortSchedule())
	data := []byte(`{"action":"VESTING_TRANSFER","payload":{"to":42}}`)
	_, err := sysaction.Execute(&sysaction.Context{From: member1, Index: 101, StateDB: l.st}, data)
	if !errors.Is(err, sysaction.ErrInvalidSysAction) {
		t.Errorf("want ErrInvalidSysAction, got %v", err)
	}
	if !l.member(member1).Active() {
		t.Error("malformed action changed state")
	}
}
