// gvest is the command line interface of a vesting and voting-power ledger.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/tos-network/gvest/cmd/utils"
	"github.com/tos-network/gvest/internal/flags"
	"github.com/urfave/cli/v2"
)

const (
	clientIdentifier = "gvest" // Client identifier to advertise over the network
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = flags.NewApp(gitCommit, gitDate, "the vesting ledger command line interface")
)

func init() {
	app.Action = cli.ShowAppHelp
	app.HideVersion = true // we have a command to print the version
	app.Commands = []*cli.Command{
		// See config.go
		initCommand,
		dumpConfigCommand,
		// See actioncmd.go
		claimVotesCommand,
		claimTokensCommand,
		delegateCommand,
		transferCommand,
		disableCommand,
		renounceCommand,
		increaseDurationCommand,
		increasePersonalDurationsCommand,
		// See querycmd.go
		priorVotesCommand,
		currentVotesCommand,
		memberCommand,
		checkpointsCommand,
		availableCommand,
		statusCommand,
		dumpCommand,
		// See servecmd.go
		serveCommand,
		// See misccmd.go
		versionCommand,
		licenseCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	app.Flags = append(app.Flags, utils.LedgerFlags...)
	app.Flags = append(app.Flags, utils.LoggingFlags...)
	app.Flags = append(app.Flags, utils.MetricsFlags...)

	app.Before = func(ctx *cli.Context) error {
		return utils.SetupLogging(ctx)
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
