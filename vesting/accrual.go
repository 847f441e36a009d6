package vesting

import (
	"fmt"
	"math/big"
)

// Accrue returns the amount of total released linearly over duration since
// start that has not yet been claimed at now.
//
// Nothing accrues up to and including start. An accrued amount below claimed
// can only result from broken bookkeeping and yields ErrAccrualUnderflow.
func Accrue(now, start uint64, total *big.Int, duration uint64, claimed *big.Int) (*big.Int, error) {
	if now <= start {
		return new(big.Int), nil
	}
	if duration == 0 {
		return nil, ErrZeroDuration
	}
	elapsed := now - start
	if elapsed > duration {
		elapsed = duration
	}
	accrued := new(big.Int).Mul(total, new(big.Int).SetUint64(elapsed))
	accrued.Div(accrued, new(big.Int).SetUint64(duration))
	if accrued.Cmp(claimed) < 0 {
		return nil, fmt.Errorf("%w: accrued %v, claimed %v", ErrAccrualUnderflow, accrued, claimed)
	}
	return accrued.Sub(accrued, claimed), nil
}
