package vesting

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvariant marks bookkeeping faults. They are never expected under
// correct call discipline and abort the whole operation.
var ErrInvariant = errors.New("vesting: invariant violated")

var (
	ErrAccrualUnderflow = fmt.Errorf("%w: accrued below already claimed", ErrInvariant)
	ErrZeroDuration     = fmt.Errorf("%w: zero duration", ErrInvariant)
)

var (
	ErrNotInitialized     = errors.New("vesting: ledger not initialized")
	ErrAlreadyInitialized = errors.New("vesting: ledger already initialized")

	ErrNotOwner             = errors.New("vesting: caller is not the owner")
	ErrNotActive            = errors.New("vesting: member not active")
	ErrVotesNotStarted      = errors.New("vesting: vote vesting has not started")
	ErrNothingToClaim       = errors.New("vesting: nothing to claim")
	ErrInvalidBeneficiary   = errors.New("vesting: invalid beneficiary")
	ErrZeroDelegate         = errors.New("vesting: cannot delegate to the zero address")
	ErrAlreadyDelegated     = errors.New("vesting: already delegated")
	ErrDelegateNotActive    = errors.New("vesting: delegatee not active")
	ErrInvalidRecipient     = errors.New("vesting: invalid transfer recipient")
	ErrAlreadyActive        = errors.New("vesting: recipient is already active")
	ErrAddressUsed          = errors.New("vesting: address already used")
	ErrDurationTooShort     = errors.New("vesting: duration not above current effective duration")
	ErrDurationStepTooLarge = errors.New("vesting: duration increase above maximum step")
	ErrLengthMismatch       = errors.New("vesting: members and durations differ in length")
	ErrNoDurations          = errors.New("vesting: empty duration update")

	ErrBeforeVoteStart  = errors.New("vesting: index before or equal to vote vesting start")
	ErrNotYetDetermined = errors.New("vesting: index not yet determined")
)

// MemberStatus is the lifecycle state of an address.
type MemberStatus uint8

const (
	MemberUnused      MemberStatus = 0
	MemberActive      MemberStatus = 1
	MemberTransferred MemberStatus = 2
	MemberDisabled    MemberStatus = 3
)

func (s MemberStatus) String() string {
	switch s {
	case MemberUnused:
		return "unused"
	case MemberActive:
		return "active"
	case MemberTransferred:
		return "transferred"
	case MemberDisabled:
		return "disabled"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Member is the in-memory view of a member record read from StateDB.
type Member struct {
	Address           common.Address
	Status            MemberStatus
	ClaimedVotes      *big.Int
	ClaimedTokens     *big.Int
	PersonalDurationT uint64
	Delegate          common.Address // zero when undelegated
}

// Active reports whether the member may claim, delegate and transfer.
func (m Member) Active() bool { return m.Status == MemberActive }

// Transferred reports whether the membership moved to another address.
func (m Member) Transferred() bool { return m.Status == MemberTransferred }

// Disabled reports whether the membership was disabled or renounced.
func (m Member) Disabled() bool { return m.Status == MemberDisabled }

// Used reports whether the address can never become a member again.
func (m Member) Used() bool { return m.Status != MemberUnused }

// NetVotes is claimed votes minus claimed tokens: the delegatable power.
func (m Member) NetVotes() *big.Int {
	return new(big.Int).Sub(m.ClaimedVotes, m.ClaimedTokens)
}

// Params are the global ledger parameters.
type Params struct {
	Owner           common.Address
	AmountPerMember *big.Int
	StartV          uint64
	DurationV       uint64
	StartT          uint64
	DurationT       uint64
	MaxDurationStep uint64
	Sink            common.Address
	MemberCount     uint64
}

// Schedule returns the vesting curves described by p.
func (p Params) Schedule() Schedule {
	return Schedule{
		Total:     p.AmountPerMember,
		StartV:    p.StartV,
		DurationV: p.DurationV,
		StartT:    p.StartT,
		DurationT: p.DurationT,
	}
}
