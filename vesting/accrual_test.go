package vesting

import (
	"errors"
	"math/big"
	"testing"
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func TestAccrue(t *testing.T) {
	tests := []struct {
		now, start uint64
		total      *big.Int
		duration   uint64
		claimed    *big.Int
		want       *big.Int
	}{
		{150, 200, big.NewInt(5000), 100, big.NewInt(0), big.NewInt(0)},
		{200, 200, big.NewInt(5000), 100, big.NewInt(0), big.NewInt(0)},
		{201, 200, big.NewInt(5000), 100, big.NewInt(0), big.NewInt(50)},
		{201, 200, ether(5000), 100, big.NewInt(0), ether(50)},
		{250, 200, big.NewInt(5000), 100, big.NewInt(0), big.NewInt(2500)},
		{300, 200, big.NewInt(5000), 100, big.NewInt(0), big.NewInt(5000)},
		{301, 200, big.NewInt(5000), 100, big.NewInt(0), big.NewInt(5000)},
		{201, 200, big.NewInt(5000), 100, big.NewInt(20), big.NewInt(30)},
		{201, 200, ether(5000), 100, ether(20), ether(30)},
		{201, 200, big.NewInt(5000), 100, big.NewInt(50), big.NewInt(0)},
		{300, 200, big.NewInt(5000), 100, big.NewInt(50), big.NewInt(4950)},
		{300, 200, big.NewInt(5000), 100, big.NewInt(5000), big.NewInt(0)},
		{305, 200, big.NewInt(5000), 100, big.NewInt(50), big.NewInt(4950)},
		{305, 200, ether(5000), 100, ether(5000), big.NewInt(0)},
		// floor division
		{1, 0, big.NewInt(10), 3, big.NewInt(0), big.NewInt(3)},
		{2, 0, big.NewInt(10), 3, big.NewInt(0), big.NewInt(6)},
		// before start the claimed amount is not consulted
		{100, 200, big.NewInt(5000), 100, big.NewInt(7), big.NewInt(0)},
	}
	for _, tt := range tests {
		got, err := Accrue(tt.now, tt.start, tt.total, tt.duration, tt.claimed)
		if err != nil {
			t.Errorf("Accrue(%d, %d, %v, %d, %v): unexpected error %v", tt.now, tt.start, tt.total, tt.duration, tt.claimed, err)
			continue
		}
		if got.Cmp(tt.want) != 0 {
			t.Errorf("Accrue(%d, %d, %v, %d, %v) = %v, want %v", tt.now, tt.start, tt.total, tt.duration, tt.claimed, got, tt.want)
		}
	}
}

func TestAccrueInvariant(t *testing.T) {
	_, err := Accrue(201, 200, big.NewInt(5000), 100, big.NewInt(51))
	if !errors.Is(err, ErrAccrualUnderflow) || !errors.Is(err, ErrInvariant) {
		t.Errorf("claimed above accrued: want ErrAccrualUnderflow, got %v", err)
	}
	_, err = Accrue(201, 200, big.NewInt(5000), 0, big.NewInt(0))
	if !errors.Is(err, ErrZeroDuration) || !errors.Is(err, ErrInvariant) {
		t.Errorf("zero duration: want ErrZeroDuration, got %v", err)
	}
}

func TestScheduleBoundaries(t *testing.T) {
	s := Schedule{Total: big.NewInt(5000), StartV: 100, DurationV: 10, StartT: 105, DurationT: 20}
	if s.VotesStarted(99) || !s.VotesStarted(100) {
		t.Error("votes start boundary")
	}
	if s.VotesEnded(109) || !s.VotesEnded(110) {
		t.Error("votes end boundary")
	}
	if s.TokensStarted(104) || !s.TokensStarted(105) {
		t.Error("tokens start boundary")
	}
	if s.TokensEnded(124) || !s.TokensEnded(125) {
		t.Error("tokens end boundary")
	}
	if d := s.EffectiveDurationT(0); d != 20 {
		t.Errorf("inherited duration: %d", d)
	}
	if d := s.EffectiveDurationT(15); d != 20 {
		t.Errorf("shorter override must not apply: %d", d)
	}
	if end := s.EffectiveEndT(30); end != 135 {
		t.Errorf("personal end: %d", end)
	}
}
