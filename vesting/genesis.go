package vesting

import (
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/tos-network/gvest/params"
)

// Init seeds a fresh ledger from cfg: global parameters, one active record per
// member and, when cfg.Fund is set, the full allocation in custody.
func Init(db vm.StateDB, cfg *params.VestingConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if isInitialized(db) {
		return ErrAlreadyInitialized
	}
	writeParams(db, Params{
		Owner:           cfg.Owner,
		AmountPerMember: cfg.AmountPerMember,
		StartV:          cfg.StartV,
		DurationV:       cfg.DurationV,
		StartT:          cfg.StartT,
		DurationT:       cfg.DurationT,
		MaxDurationStep: cfg.MaxStep(),
		Sink:            cfg.SinkAddress(),
		MemberCount:     uint64(len(cfg.Members)),
	})
	for _, addr := range cfg.Members {
		setStatus(db, addr, MemberActive)
	}
	// Keep the system account non-empty so commits never prune its storage.
	if db.GetNonce(params.VestingAddress) == 0 {
		db.SetNonce(params.VestingAddress, 1)
	}
	if cfg.Fund {
		db.AddBalance(params.VestingAddress, cfg.TotalAllocation())
	}
	log.Info("Vesting ledger initialized", "members", len(cfg.Members), "amount", cfg.AmountPerMember,
		"startV", cfg.StartV, "durationV", cfg.DurationV, "startT", cfg.StartT, "durationT", cfg.DurationT)
	return nil
}
