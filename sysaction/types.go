// Package sysaction implements the vesting action protocol.
//
// Every state change of a vesting ledger is expressed as a JSON-encoded
// SysAction. The backend decodes the envelope and dispatches it to the
// handler registered for its kind; the CLI and the RPC server only ever
// produce envelopes.
package sysaction

import (
	"encoding/json"
	"math/big"
)

// ActionKind identifies the type of system action.
type ActionKind string

const (
	// Claims
	ActionClaimVotes  ActionKind = "VESTING_CLAIM_VOTES"
	ActionClaimTokens ActionKind = "VESTING_CLAIM_TOKENS"

	// Membership
	ActionDelegate      ActionKind = "VESTING_DELEGATE"
	ActionTransfer      ActionKind = "VESTING_TRANSFER"
	ActionDisableMember ActionKind = "VESTING_DISABLE_MEMBER"
	ActionRenounce      ActionKind = "VESTING_RENOUNCE"

	// Owner schedule changes
	ActionIncreaseDurationT          ActionKind = "VESTING_INCREASE_DURATION_T"
	ActionIncreasePersonalDurationsT ActionKind = "VESTING_INCREASE_PERSONAL_DURATIONS_T"
)

// SysAction is the top-level envelope of an action.
type SysAction struct {
	Action  ActionKind      `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Receipt describes the outcome of an executed action.
type Receipt struct {
	Action ActionKind `json:"action"`
	Index  uint64     `json:"index"`
	Amount *big.Int   `json:"amount,omitempty"` // votes or tokens released, if any
}

// ClaimVotesPayload is the payload for VESTING_CLAIM_VOTES. An empty member
// claims for the sender.
type ClaimVotesPayload struct {
	Member string `json:"member,omitempty"`
}

// ClaimTokensPayload is the payload for VESTING_CLAIM_TOKENS. An empty
// beneficiary pays the sender.
type ClaimTokensPayload struct {
	Beneficiary string `json:"beneficiary,omitempty"`
}

// DelegatePayload is the payload for VESTING_DELEGATE.
type DelegatePayload struct {
	To string `json:"to"`
}

// TransferPayload is the payload for VESTING_TRANSFER.
type TransferPayload struct {
	To string `json:"to"`
}

// DisableMemberPayload is the payload for VESTING_DISABLE_MEMBER.
type DisableMemberPayload struct {
	Member string `json:"member"`
}

// IncreaseDurationPayload is the payload for VESTING_INCREASE_DURATION_T.
type IncreaseDurationPayload struct {
	Duration uint64 `json:"duration"`
}

// IncreasePersonalDurationsPayload is the payload for
// VESTING_INCREASE_PERSONAL_DURATIONS_T.
type IncreasePersonalDurationsPayload struct {
	Members   []string `json:"members"`
	Durations []uint64 `json:"durations"`
}
