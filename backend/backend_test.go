package backend

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/gvest/clock"
	"github.com/tos-network/gvest/params"
	"github.com/tos-network/gvest/sysaction"
	"github.com/tos-network/gvest/vesting"
	"golang.org/x/sync/errgroup"
)

var (
	testOwner   = common.HexToAddress("0x00000000000000000000000000000000000000ee")
	testMember1 = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	testMember2 = common.HexToAddress("0x0000000000000000000000000000000000000a02")
	testBob     = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func testGenesis() *params.VestingConfig {
	return &params.VestingConfig{
		Owner:           testOwner,
		Members:         []common.Address{testMember1, testMember2},
		AmountPerMember: big.NewInt(1000),
		StartV:          100,
		DurationV:       10,
		StartT:          100,
		DurationT:       20,
		Fund:            true,
	}
}

func mustAction(t *testing.T, kind sysaction.ActionKind, payload interface{}) []byte {
	t.Helper()
	data, err := sysaction.MakeSysAction(kind, payload)
	require.NoError(t, err)
	return data
}

func newTestBackend(t *testing.T, cfg Config, clk clock.Clock) *Backend {
	t.Helper()
	b, err := New(&cfg, clk)
	require.NoError(t, err)
	return b
}

func TestExecuteCommitsHead(t *testing.T) {
	clk := clock.NewManual(50)
	b := newTestBackend(t, DefaultConfig, clk)
	defer b.Close()

	_, err := b.Execute(testMember1, mustAction(t, sysaction.ActionClaimVotes, nil))
	require.ErrorIs(t, err, vesting.ErrNotInitialized)

	genesis, err := b.Genesis(testGenesis())
	require.NoError(t, err)
	require.Equal(t, uint64(50), genesis.Index)
	require.Zero(t, genesis.Actions)

	_, err = b.Genesis(testGenesis())
	require.ErrorIs(t, err, vesting.ErrAlreadyInitialized)

	clk.Set(103)
	rcpt, err := b.Execute(testMember1, mustAction(t, sysaction.ActionClaimVotes, nil))
	require.NoError(t, err)
	require.Equal(t, int64(300), rcpt.Amount.Int64())
	require.Equal(t, uint64(103), rcpt.Index)

	head := b.Head()
	require.Equal(t, uint64(103), head.Index)
	require.Equal(t, uint64(1), head.Actions)
	require.NotEqual(t, genesis.Root, head.Root)

	clk.Set(104)
	reg, err := b.Registry()
	require.NoError(t, err)
	votes, err := reg.GetPriorVotes(testMember1, 103)
	require.NoError(t, err)
	require.Equal(t, int64(300), votes.Int64())
}

func TestFailedActionKeepsHead(t *testing.T) {
	clk := clock.NewManual(0)
	b := newTestBackend(t, DefaultConfig, clk)
	defer b.Close()

	_, err := b.Genesis(testGenesis())
	require.NoError(t, err)
	before := b.Head()

	clk.Set(100)
	_, err = b.Execute(testMember1, mustAction(t, sysaction.ActionClaimVotes, nil))
	require.ErrorIs(t, err, vesting.ErrNothingToClaim)
	_, err = b.Execute(testMember1, []byte(`{"payload":{}}`))
	require.ErrorIs(t, err, sysaction.ErrInvalidSysAction)
	_, err = b.Execute(testBob, mustAction(t, sysaction.ActionIncreaseDurationT, sysaction.IncreaseDurationPayload{Duration: 30}))
	require.ErrorIs(t, err, vesting.ErrNotOwner)

	require.Equal(t, before, b.Head())
}

func TestClockRegression(t *testing.T) {
	clk := clock.NewManual(0)
	b := newTestBackend(t, DefaultConfig, clk)
	defer b.Close()

	_, err := b.Genesis(testGenesis())
	require.NoError(t, err)

	clk.Set(105)
	_, err = b.Execute(testMember1, mustAction(t, sysaction.ActionClaimVotes, nil))
	require.NoError(t, err)

	clk.Set(104)
	_, err = b.Execute(testMember2, mustAction(t, sysaction.ActionClaimVotes, nil))
	require.True(t, errors.Is(err, ErrClockRegression), "got %v", err)

	// The same index is still open for further actions.
	clk.Set(105)
	_, err = b.Execute(testMember2, mustAction(t, sysaction.ActionClaimVotes, nil))
	require.NoError(t, err)
}

func TestBlockClockAdvancesPerCommit(t *testing.T) {
	b := newTestBackend(t, DefaultConfig, nil)
	defer b.Close()

	cfg := testGenesis()
	cfg.StartV, cfg.StartT = 0, 0
	head, err := b.Genesis(cfg)
	require.NoError(t, err)
	require.Zero(t, head.Index)

	// Nothing has vested at the genesis index, a failed claim does not
	// advance the clock.
	_, err = b.Execute(testMember1, mustAction(t, sysaction.ActionClaimVotes, nil))
	require.ErrorIs(t, err, vesting.ErrNothingToClaim)
	require.Zero(t, b.Clock().CurrentIndex())

	_, err = b.Execute(testMember1, mustAction(t, sysaction.ActionDelegate, sysaction.DelegatePayload{To: testMember2.Hex()}))
	require.NoError(t, err)
	require.Equal(t, uint64(1), b.Clock().CurrentIndex())

	rcpt, err := b.Execute(testMember1, mustAction(t, sysaction.ActionClaimVotes, nil))
	require.NoError(t, err)
	require.Equal(t, uint64(1), rcpt.Index)
	require.Equal(t, int64(100), rcpt.Amount.Int64())
	require.Equal(t, uint64(2), b.Clock().CurrentIndex())

	reg, err := b.Registry()
	require.NoError(t, err)
	require.Equal(t, int64(100), reg.GetCurrentVotes(testMember2).Int64())
}

func TestReopenPersistsLedger(t *testing.T) {
	cfg := DefaultConfig
	cfg.DataDir = t.TempDir()

	clk := clock.NewManual(0)
	b := newTestBackend(t, cfg, clk)
	_, err := b.Genesis(testGenesis())
	require.NoError(t, err)

	clk.Set(102)
	_, err = b.Execute(testMember1, mustAction(t, sysaction.ActionClaimVotes, nil))
	require.NoError(t, err)
	clk.Set(105)
	_, err = b.Execute(testMember1, mustAction(t, sysaction.ActionClaimTokens, sysaction.ClaimTokensPayload{Beneficiary: testBob.Hex()}))
	require.NoError(t, err)
	_, err = b.Execute(testMember2, mustAction(t, sysaction.ActionTransfer, sysaction.TransferPayload{To: testBob.Hex()}))
	require.NoError(t, err)
	want := b.Head()
	require.NoError(t, b.Close())

	_, err = b.Execute(testMember1, mustAction(t, sysaction.ActionClaimVotes, nil))
	require.ErrorIs(t, err, ErrClosed)

	b = newTestBackend(t, cfg, nil)
	defer b.Close()
	require.Equal(t, want, b.Head())
	// A reopened block clock resumes after the last commit.
	require.Equal(t, uint64(106), b.Clock().CurrentIndex())

	reg, err := b.Registry()
	require.NoError(t, err)
	m1 := reg.Members(testMember1)
	require.Equal(t, int64(500), m1.ClaimedVotes.Int64())
	require.Equal(t, int64(250), m1.ClaimedTokens.Int64())
	require.True(t, reg.Members(testMember2).Transferred())
	require.True(t, reg.Members(testBob).Active())
	require.Equal(t, uint64(2), reg.NumCheckpoints(testMember1))

	st, err := b.State()
	require.NoError(t, err)
	// bob received the token claim of member1
	require.Equal(t, int64(250), st.GetBalance(testBob).Int64())
	require.Equal(t, int64(1750), st.GetBalance(params.VestingAddress).Int64())

	votes, err := reg.GetPriorVotes(testBob, 105)
	require.NoError(t, err)
	require.Equal(t, int64(500), votes.Int64())
}

func TestConcurrentReads(t *testing.T) {
	clk := clock.NewManual(0)
	b := newTestBackend(t, DefaultConfig, clk)
	defer b.Close()

	_, err := b.Genesis(testGenesis())
	require.NoError(t, err)
	clk.Set(101)
	_, err = b.Execute(testMember1, mustAction(t, sysaction.ActionClaimVotes, nil))
	require.NoError(t, err)

	claim := mustAction(t, sysaction.ActionClaimVotes, nil)
	var g errgroup.Group
	g.Go(func() error {
		for i := uint64(102); i <= 110; i++ {
			clk.Set(i)
			if _, err := b.Execute(testMember1, claim); err != nil {
				return err
			}
		}
		return nil
	})
	for r := 0; r < 4; r++ {
		g.Go(func() error {
			for i := 0; i < 50; i++ {
				reg, err := b.Registry()
				if err != nil {
					return err
				}
				m := reg.Members(testMember1)
				// The committed votes of member1 always sit on its own
				// checkpoint.
				if got := reg.LastCachedVotes(testMember1); got.Cmp(m.ClaimedVotes) != 0 {
					return errors.New("torn read: checkpoint " + got.String() + ", claimed " + m.ClaimedVotes.String())
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, uint64(10), b.Head().Actions)
}

func TestConfigSanitize(t *testing.T) {
	cfg := Config{Clock: "lunar"}
	_, err := New(&cfg, nil)
	require.Error(t, err)

	cfg = Config{}
	require.NoError(t, cfg.sanitize())
	require.Equal(t, ClockBlock, cfg.Clock)
	require.Equal(t, params.DefaultCheckpointCacheSize, cfg.CheckpointCache)
}
