package backend

import (
	"strings"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/tos-network/gvest/sysaction"
)

var (
	executeTimer       = metrics.NewRegisteredTimer("vesting/execute", nil)
	executeFailedMeter = metrics.NewRegisteredMeter("vesting/execute/failed", nil)
	commitTimer        = metrics.NewRegisteredTimer("vesting/commit", nil)
	memberGauge        = metrics.NewRegisteredGauge("vesting/members", nil)
	headIndexGauge     = metrics.NewRegisteredGauge("vesting/head/index", nil)
)

// actionCounter returns the counter tracking committed actions of kind.
func actionCounter(kind sysaction.ActionKind) metrics.Counter {
	name := strings.ToLower(strings.TrimPrefix(string(kind), "VESTING_"))
	return metrics.GetOrRegisterCounter("vesting/action/"+name, nil)
}
