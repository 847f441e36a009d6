package vesting

import "math/big"

// Schedule holds the two linear curves of a ledger. Votes vest over
// [StartV, StartV+DurationV]; tokens over [StartT, StartT+d] where d is the
// effective duration of the member.
type Schedule struct {
	Total     *big.Int
	StartV    uint64
	DurationV uint64
	StartT    uint64
	DurationT uint64
}

func (s Schedule) VotesStarted(now uint64) bool  { return now >= s.StartV }
func (s Schedule) VotesEnded(now uint64) bool    { return now >= s.StartV+s.DurationV }
func (s Schedule) TokensStarted(now uint64) bool { return now >= s.StartT }
func (s Schedule) TokensEnded(now uint64) bool   { return now >= s.StartT+s.DurationT }

// EffectiveDurationT is the token duration of a member with the given
// personal override. An override never shortens the global duration.
func (s Schedule) EffectiveDurationT(personal uint64) uint64 {
	if personal > s.DurationT {
		return personal
	}
	return s.DurationT
}

// EffectiveEndT is the index at which a member's tokens are fully vested.
func (s Schedule) EffectiveEndT(personal uint64) uint64 {
	return s.StartT + s.EffectiveDurationT(personal)
}

// AvailableVotes returns the votes accrued at now beyond claimed.
func (s Schedule) AvailableVotes(now uint64, claimed *big.Int) (*big.Int, error) {
	return Accrue(now, s.StartV, s.Total, s.DurationV, claimed)
}

// AvailableTokens returns the tokens accrued at now beyond claimed for a
// member with the given personal duration.
func (s Schedule) AvailableTokens(now uint64, personal uint64, claimed *big.Int) (*big.Int, error) {
	return Accrue(now, s.StartT, s.Total, s.EffectiveDurationT(personal), claimed)
}

// pending returns the votes and tokens a token claim by m at now would
// release. Tokens are capped by the votes accrued so far.
func (s Schedule) pending(now uint64, m Member) (votes, tokens *big.Int, err error) {
	votes, err = s.AvailableVotes(now, m.ClaimedVotes)
	if err != nil {
		return nil, nil, err
	}
	tokens, err = s.AvailableTokens(now, m.PersonalDurationT, m.ClaimedTokens)
	if err != nil {
		return nil, nil, err
	}
	ceiling := new(big.Int).Add(m.ClaimedVotes, votes)
	ceiling.Sub(ceiling, m.ClaimedTokens)
	if tokens.Cmp(ceiling) > 0 {
		tokens = ceiling
	}
	return votes, tokens, nil
}
