package flags

import "github.com/urfave/cli/v2"

const (
	LedgerCategory     = "LEDGER"
	ActionCategory     = "ACTIONS"
	APICategory        = "API AND RPC"
	PerfCategory       = "PERFORMANCE TUNING"
	LoggingCategory    = "LOGGING AND DEBUGGING"
	MetricsCategory    = "METRICS AND STATS"
	MiscCategory       = "MISC"
	DeprecatedCategory = "ALIASED (deprecated)"
)

func init() {
	cli.HelpFlag.(*cli.BoolFlag).Category = MiscCategory
	cli.VersionFlag.(*cli.BoolFlag).Category = MiscCategory
}
