package main

import (
	"fmt"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/olekukonko/tablewriter"
	"github.com/tos-network/gvest/cmd/utils"
	"github.com/tos-network/gvest/params"
	"github.com/tos-network/gvest/vesting"
	"github.com/urfave/cli/v2"
)

var (
	rawFlag = &cli.BoolFlag{
		Name:  "raw",
		Usage: "Dump the complete state of the ledger account",
	}

	priorVotesCommand = &cli.Command{
		Action:    priorVotes,
		Name:      "prior-votes",
		Usage:     "Show the voting power of an account at a past index",
		ArgsUsage: "<account> <index>",
	}
	currentVotesCommand = &cli.Command{
		Action:    currentVotes,
		Name:      "current-votes",
		Usage:     "Show the latest voting power of an account",
		ArgsUsage: "<account>",
	}
	memberCommand = &cli.Command{
		Action:    showMember,
		Name:      "member",
		Usage:     "Show member records",
		ArgsUsage: "<address> [<address> ...]",
	}
	checkpointsCommand = &cli.Command{
		Action:    showCheckpoints,
		Name:      "checkpoints",
		Usage:     "List the checkpoint history of an account",
		ArgsUsage: "<account>",
	}
	availableCommand = &cli.Command{
		Action:    showAvailable,
		Name:      "available",
		Usage:     "Show the tokens a member could claim now and at the next index",
		ArgsUsage: "<member>",
	}
	statusCommand = &cli.Command{
		Action:    showStatus,
		Name:      "status",
		Usage:     "Show the ledger head, parameters and vesting phase",
		ArgsUsage: " ",
	}
	dumpCommand = &cli.Command{
		Action:    dump,
		Name:      "dump",
		Usage:     "Dump ledger parameters and member records",
		ArgsUsage: "[<address> ...]",
		Flags:     []cli.Flag{rawFlag},
	}
)

// openRegistry returns a read view of the ledger.
func openRegistry(ctx *cli.Context) (*vesting.Registry, func()) {
	b, _ := openBackend(ctx)
	reg, err := b.Registry()
	if err != nil {
		b.Close()
		utils.Fatalf("Failed to open ledger state: %v", err)
	}
	return reg, func() { b.Close() }
}

func requireArgs(ctx *cli.Context, n int) {
	if ctx.NArg() < n {
		utils.Fatalf("This command requires %d argument(s), see --help.", n)
	}
}

func priorVotes(ctx *cli.Context) error {
	requireArgs(ctx, 2)
	account := utils.MakeAddress("account", ctx.Args().Get(0))
	index, err := strconv.ParseUint(ctx.Args().Get(1), 10, 64)
	if err != nil {
		utils.Fatalf("Invalid index: %v", err)
	}
	reg, done := openRegistry(ctx)
	defer done()

	votes, err := reg.GetPriorVotes(account, index)
	if err != nil {
		utils.Fatalf("Query failed: %v", err)
	}
	fmt.Fprintln(ctx.App.Writer, votes)
	return nil
}

func currentVotes(ctx *cli.Context) error {
	requireArgs(ctx, 1)
	account := utils.MakeAddress("account", ctx.Args().First())
	reg, done := openRegistry(ctx)
	defer done()

	fmt.Fprintln(ctx.App.Writer, reg.GetCurrentVotes(account))
	return nil
}

func memberRow(m vesting.Member) []string {
	delegate := ""
	if m.Delegate != (common.Address{}) {
		delegate = m.Delegate.Hex()
	}
	return []string{
		m.Address.Hex(),
		m.Status.String(),
		m.ClaimedVotes.String(),
		m.ClaimedTokens.String(),
		m.NetVotes().String(),
		strconv.FormatUint(m.PersonalDurationT, 10),
		delegate,
	}
}

var memberHeader = []string{"Address", "Status", "Claimed votes", "Claimed tokens", "Net votes", "Personal durationT", "Delegate"}

func showMember(ctx *cli.Context) error {
	requireArgs(ctx, 1)
	reg, done := openRegistry(ctx)
	defer done()

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader(memberHeader)
	for _, arg := range ctx.Args().Slice() {
		table.Append(memberRow(reg.Members(utils.MakeAddress("member", arg))))
	}
	table.Render()
	return nil
}

func showCheckpoints(ctx *cli.Context) error {
	requireArgs(ctx, 1)
	account := utils.MakeAddress("account", ctx.Args().First())
	reg, done := openRegistry(ctx)
	defer done()

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"#", "From index", "Votes"})
	n := reg.NumCheckpoints(account)
	for i := uint64(0); i < n; i++ {
		cp, err := reg.Checkpoints(account, i)
		if err != nil {
			utils.Fatalf("Failed to read checkpoint %d: %v", i, err)
		}
		table.Append([]string{strconv.FormatUint(i, 10), strconv.FormatUint(cp.FromIndex, 10), cp.Votes.String()})
	}
	table.SetFooter([]string{"", "Total", strconv.FormatUint(n, 10)})
	table.Render()
	return nil
}

func showAvailable(ctx *cli.Context) error {
	requireArgs(ctx, 1)
	member := utils.MakeAddress("member", ctx.Args().First())
	reg, done := openRegistry(ctx)
	defer done()

	now, err := reg.GetAvailableTokensForMember(member)
	if err != nil {
		utils.Fatalf("Query failed: %v", err)
	}
	next, err := reg.AvailableNextIndex(member)
	if err != nil {
		utils.Fatalf("Query failed: %v", err)
	}
	end, err := reg.EffectiveEndT(member)
	if err != nil {
		utils.Fatalf("Query failed: %v", err)
	}
	fmt.Fprintf(ctx.App.Writer, "now %v\nnext %v\nfully vested at %d\n", now, next, end)
	return nil
}

func showStatus(ctx *cli.Context) error {
	b, _ := openBackend(ctx)
	defer b.Close()

	head := b.Head()
	if head == nil {
		utils.Fatalf("No ledger in the data directory, run init first")
	}
	reg, err := b.Registry()
	if err != nil {
		utils.Fatalf("Failed to open ledger state: %v", err)
	}
	p, err := reg.Params()
	if err != nil {
		utils.Fatalf("Failed to read parameters: %v", err)
	}
	phase := func(f func() (bool, error)) string {
		ok, _ := f()
		return strconv.FormatBool(ok)
	}
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"Key", "Value"})
	table.AppendBulk([][]string{
		{"Root", head.Root.Hex()},
		{"Head index", strconv.FormatUint(head.Index, 10)},
		{"Actions", strconv.FormatUint(head.Actions, 10)},
		{"Current index", strconv.FormatUint(b.Clock().CurrentIndex(), 10)},
		{"Owner", p.Owner.Hex()},
		{"Members", strconv.FormatUint(p.MemberCount, 10)},
		{"Amount per member", p.AmountPerMember.String()},
		{"Votes", fmt.Sprintf("%d + %d", p.StartV, p.DurationV)},
		{"Tokens", fmt.Sprintf("%d + %d", p.StartT, p.DurationT)},
		{"Max duration step", strconv.FormatUint(p.MaxDurationStep, 10)},
		{"Sink", p.Sink.Hex()},
		{"Vote vesting started", phase(reg.HasVoteVestingStarted)},
		{"Vote vesting ended", phase(reg.HasVoteVestingEnded)},
		{"Token vesting started", phase(reg.HasTokenVestingStarted)},
		{"Token vesting ended", phase(reg.HasTokenVestingEnded)},
	})
	table.Render()
	return nil
}

func dump(ctx *cli.Context) error {
	b, _ := openBackend(ctx)
	defer b.Close()

	st, err := b.State()
	if err != nil {
		utils.Fatalf("Failed to open ledger state: %v", err)
	}
	if ctx.Bool(rawFlag.Name) {
		raw := st.RawDump(&state.DumpConfig{
			SkipCode:          true,
			OnlyWithAddresses: true,
			Max:               0,
		})
		spew.Fdump(ctx.App.Writer, raw.Accounts[params.VestingAddress])
		return nil
	}
	p, err := vesting.ReadParams(st)
	if err != nil {
		utils.Fatalf("Failed to read parameters: %v", err)
	}
	fmt.Fprintf(ctx.App.Writer, "head: %s\n", spew.Sdump(b.Head()))
	fmt.Fprintf(ctx.App.Writer, "params: %s\n", spew.Sdump(p))
	fmt.Fprintf(ctx.App.Writer, "custody: %v\n", st.GetBalance(params.VestingAddress))
	for _, arg := range ctx.Args().Slice() {
		m := vesting.ReadMember(st, utils.MakeAddress("member", arg))
		fmt.Fprintf(ctx.App.Writer, "member: %s", spew.Sdump(m))
	}
	return nil
}
