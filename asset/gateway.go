// Package asset moves the vested asset out of custody.
package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
)

var (
	ErrInsufficientCustody = errors.New("asset: insufficient custody balance")
	ErrInvalidAmount       = errors.New("asset: invalid amount")
)

// Gateway is the asset collaborator of the vesting ledger. Transfer only ever
// decreases the custody balance and increases the recipient's.
type Gateway interface {
	Transfer(to common.Address, amount *big.Int) error
	BalanceOf(addr common.Address) *big.Int
}

// StateGateway pays out the native balance held by a custody account.
type StateGateway struct {
	db      vm.StateDB
	custody common.Address
}

// NewStateGateway returns a gateway paying from custody in db.
func NewStateGateway(db vm.StateDB, custody common.Address) *StateGateway {
	return &StateGateway{db: db, custody: custody}
}

// Transfer implements Gateway.
func (g *StateGateway) Transfer(to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	if have := g.db.GetBalance(g.custody); have.Cmp(amount) < 0 {
		return fmt.Errorf("%w: have %v, want %v", ErrInsufficientCustody, have, amount)
	}
	g.db.SubBalance(g.custody, amount)
	g.db.AddBalance(to, amount)
	return nil
}

// BalanceOf implements Gateway.
func (g *StateGateway) BalanceOf(addr common.Address) *big.Int {
	return new(big.Int).Set(g.db.GetBalance(addr))
}

// Custody returns the custody account.
func (g *StateGateway) Custody() common.Address { return g.custody }
