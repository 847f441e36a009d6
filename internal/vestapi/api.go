// Package vestapi provides the vesting_* RPC namespace for gvest.
package vestapi

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/tos-network/gvest/backend"
	"github.com/tos-network/gvest/params"
	"github.com/tos-network/gvest/sysaction"
	"github.com/tos-network/gvest/vesting"
)

// ErrActionsDisabled is returned by sendAction on servers that only serve
// queries.
var ErrActionsDisabled = errors.New("actions are disabled on this endpoint")

// Backend is the ledger the API serves.
type Backend interface {
	Registry() (*vesting.Registry, error)
	State() (*state.StateDB, error)
	Head() *backend.Head
	Execute(from common.Address, data []byte) (*sysaction.Receipt, error)
}

// APIs returns the RPC services offered for b.
func APIs(b Backend, allowActions bool) []rpc.API {
	return []rpc.API{{
		Namespace: "vesting",
		Service:   NewVestingAPI(b, allowActions),
	}}
}

// VestingAPI implements the vesting_* RPC namespace.
type VestingAPI struct {
	b            Backend
	allowActions bool
}

// NewVestingAPI creates a VestingAPI serving b.
func NewVestingAPI(b Backend, allowActions bool) *VestingAPI {
	return &VestingAPI{b: b, allowActions: allowActions}
}

// GetPriorVotes returns the voting power of account at a finalized index.
func (api *VestingAPI) GetPriorVotes(_ context.Context, account common.Address, index hexutil.Uint64) (*hexutil.Big, error) {
	reg, err := api.b.Registry()
	if err != nil {
		return nil, err
	}
	votes, err := reg.GetPriorVotes(account, uint64(index))
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(votes), nil
}

// GetCurrentVotes returns the latest voting power of account.
func (api *VestingAPI) GetCurrentVotes(_ context.Context, account common.Address) (*hexutil.Big, error) {
	reg, err := api.b.Registry()
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(reg.GetCurrentVotes(account)), nil
}

// NumCheckpoints returns the length of account's checkpoint history.
func (api *VestingAPI) NumCheckpoints(_ context.Context, account common.Address) (hexutil.Uint64, error) {
	reg, err := api.b.Registry()
	if err != nil {
		return 0, err
	}
	return hexutil.Uint64(reg.NumCheckpoints(account)), nil
}

// CheckpointResult is a single checkpoint entry.
type CheckpointResult struct {
	FromIndex hexutil.Uint64 `json:"fromIndex"`
	Votes     *hexutil.Big   `json:"votes"`
}

// Checkpoint returns the i-th checkpoint of account.
func (api *VestingAPI) Checkpoint(_ context.Context, account common.Address, i hexutil.Uint64) (*CheckpointResult, error) {
	reg, err := api.b.Registry()
	if err != nil {
		return nil, err
	}
	cp, err := reg.Checkpoints(account, uint64(i))
	if err != nil {
		return nil, err
	}
	return &CheckpointResult{FromIndex: hexutil.Uint64(cp.FromIndex), Votes: (*hexutil.Big)(cp.Votes)}, nil
}

// MemberResult is the RPC form of a member record.
type MemberResult struct {
	Address           common.Address `json:"address"`
	Status            string         `json:"status"`
	Active            bool           `json:"active"`
	Transferred       bool           `json:"transferred"`
	Disabled          bool           `json:"disabled"`
	ClaimedVotes      *hexutil.Big   `json:"claimedVotes"`
	ClaimedTokens     *hexutil.Big   `json:"claimedTokens"`
	PersonalDurationT hexutil.Uint64 `json:"personalDurationT"`
	Delegate          common.Address `json:"delegate"`
}

// Member returns the member record of addr.
func (api *VestingAPI) Member(_ context.Context, addr common.Address) (*MemberResult, error) {
	reg, err := api.b.Registry()
	if err != nil {
		return nil, err
	}
	m := reg.Members(addr)
	return &MemberResult{
		Address:           m.Address,
		Status:            m.Status.String(),
		Active:            m.Active(),
		Transferred:       m.Transferred(),
		Disabled:          m.Disabled(),
		ClaimedVotes:      (*hexutil.Big)(m.ClaimedVotes),
		ClaimedTokens:     (*hexutil.Big)(m.ClaimedTokens),
		PersonalDurationT: hexutil.Uint64(m.PersonalDurationT),
		Delegate:          m.Delegate,
	}, nil
}

// VoteDelegation returns the delegation edge of addr.
func (api *VestingAPI) VoteDelegation(_ context.Context, addr common.Address) (common.Address, error) {
	reg, err := api.b.Registry()
	if err != nil {
		return common.Address{}, err
	}
	return reg.VoteDelegations(addr), nil
}

// ParamsResult is the RPC form of the global parameters.
type ParamsResult struct {
	Owner           common.Address `json:"owner"`
	AmountPerMember *hexutil.Big   `json:"amountPerMember"`
	StartV          hexutil.Uint64 `json:"startV"`
	DurationV       hexutil.Uint64 `json:"durationV"`
	StartT          hexutil.Uint64 `json:"startT"`
	DurationT       hexutil.Uint64 `json:"durationT"`
	MaxDurationStep hexutil.Uint64 `json:"maxDurationStep"`
	Sink            common.Address `json:"sink"`
	MemberCount     hexutil.Uint64 `json:"memberCount"`
}

// Params returns the global parameters of the ledger.
func (api *VestingAPI) Params(_ context.Context) (*ParamsResult, error) {
	reg, err := api.b.Registry()
	if err != nil {
		return nil, err
	}
	p, err := reg.Params()
	if err != nil {
		return nil, err
	}
	return &ParamsResult{
		Owner:           p.Owner,
		AmountPerMember: (*hexutil.Big)(p.AmountPerMember),
		StartV:          hexutil.Uint64(p.StartV),
		DurationV:       hexutil.Uint64(p.DurationV),
		StartT:          hexutil.Uint64(p.StartT),
		DurationT:       hexutil.Uint64(p.DurationT),
		MaxDurationStep: hexutil.Uint64(p.MaxDurationStep),
		Sink:            p.Sink,
		MemberCount:     hexutil.Uint64(p.MemberCount),
	}, nil
}

// StatusResult describes the head and the vesting phase at the current index.
type StatusResult struct {
	Root                common.Hash    `json:"root"`
	HeadIndex           hexutil.Uint64 `json:"headIndex"`
	Actions             hexutil.Uint64 `json:"actions"`
	Custody             *hexutil.Big   `json:"custody"`
	VoteVestingStarted  bool           `json:"voteVestingStarted"`
	VoteVestingEnded    bool           `json:"voteVestingEnded"`
	TokenVestingStarted bool           `json:"tokenVestingStarted"`
	TokenVestingEnded   bool           `json:"tokenVestingEnded"`
}

// Status reports the ledger head and vesting phase.
func (api *VestingAPI) Status(_ context.Context) (*StatusResult, error) {
	head := api.b.Head()
	if head == nil {
		return nil, vesting.ErrNotInitialized
	}
	st, err := api.b.State()
	if err != nil {
		return nil, err
	}
	reg, err := api.b.Registry()
	if err != nil {
		return nil, err
	}
	res := &StatusResult{
		Root:      head.Root,
		HeadIndex: hexutil.Uint64(head.Index),
		Actions:   hexutil.Uint64(head.Actions),
		Custody:   (*hexutil.Big)(new(big.Int).Set(st.GetBalance(params.VestingAddress))),
	}
	res.VoteVestingStarted, _ = reg.HasVoteVestingStarted()
	res.VoteVestingEnded, _ = reg.HasVoteVestingEnded()
	res.TokenVestingStarted, _ = reg.HasTokenVestingStarted()
	res.TokenVestingEnded, _ = reg.HasTokenVestingEnded()
	return res, nil
}

// AvailableTokens returns what a token claim by member would pay now.
func (api *VestingAPI) AvailableTokens(_ context.Context, member common.Address) (*hexutil.Big, error) {
	reg, err := api.b.Registry()
	if err != nil {
		return nil, err
	}
	avail, err := reg.GetAvailableTokensForMember(member)
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(avail), nil
}

// AvailableTokensAt returns what a token claim by member would pay at index.
func (api *VestingAPI) AvailableTokensAt(_ context.Context, member common.Address, index hexutil.Uint64) (*hexutil.Big, error) {
	reg, err := api.b.Registry()
	if err != nil {
		return nil, err
	}
	avail, err := reg.GetAvailableTokensForMemberAt(uint64(index), member)
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(avail), nil
}

// AvailableNextIndex returns what a token claim by member would pay one index
// from now.
func (api *VestingAPI) AvailableNextIndex(_ context.Context, member common.Address) (*hexutil.Big, error) {
	reg, err := api.b.Registry()
	if err != nil {
		return nil, err
	}
	avail, err := reg.AvailableNextIndex(member)
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(avail), nil
}

// ReceiptResult is the RPC form of an action receipt.
type ReceiptResult struct {
	Action sysaction.ActionKind `json:"action"`
	Index  hexutil.Uint64       `json:"index"`
	Amount *hexutil.Big         `json:"amount,omitempty"`
}

// SendAction executes an action envelope on behalf of from. The endpoint
// performs no authentication of from.
func (api *VestingAPI) SendAction(_ context.Context, from common.Address, action sysaction.SysAction) (*ReceiptResult, error) {
	if !api.allowActions {
		return nil, ErrActionsDisabled
	}
	data, err := sysaction.Encode(&action)
	if err != nil {
		return nil, err
	}
	rcpt, err := api.b.Execute(from, data)
	if err != nil {
		return nil, err
	}
	return &ReceiptResult{
		Action: rcpt.Action,
		Index:  hexutil.Uint64(rcpt.Index),
		Amount: (*hexutil.Big)(rcpt.Amount),
	}, nil
}
