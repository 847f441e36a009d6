package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tos-network/gvest/cmd/utils"
	"github.com/tos-network/gvest/sysaction"
	"github.com/urfave/cli/v2"
)

var (
	claimVotesCommand = &cli.Command{
		Action:    claimVotes,
		Name:      "claim-votes",
		Usage:     "Claim the votes vested so far for a member",
		ArgsUsage: "[<member>]",
		Flags:     []cli.Flag{utils.FromFlag},
		Description: `
Adds the votes accrued since the last claim to the member's voting power.
Anyone may claim on behalf of a member; the member defaults to --from.`,
	}
	claimTokensCommand = &cli.Command{
		Action:    claimTokens,
		Name:      "claim-tokens",
		Usage:     "Claim the tokens vested so far",
		ArgsUsage: "[<beneficiary>]",
		Flags:     []cli.Flag{utils.FromFlag},
		Description: `
Pays the vested tokens of --from to the beneficiary, which defaults to --from.
Outstanding votes are claimed first.`,
	}
	delegateCommand = &cli.Command{
		Action:    delegate,
		Name:      "delegate",
		Usage:     "Delegate voting power to another member",
		ArgsUsage: "<delegatee>",
		Flags:     []cli.Flag{utils.FromFlag},
	}
	transferCommand = &cli.Command{
		Action:    transfer,
		Name:      "transfer",
		Usage:     "Move a membership to an unused address",
		ArgsUsage: "<recipient>",
		Flags:     []cli.Flag{utils.FromFlag},
		Description: `
Transfers the whole membership of --from, including claimed votes, claimed
tokens, personal duration and delegation edge. Delegations pointing at the
sender are not redirected.`,
	}
	disableCommand = &cli.Command{
		Action:    disableMember,
		Name:      "disable",
		Usage:     "Terminate a membership (owner only)",
		ArgsUsage: "<member>",
		Flags:     []cli.Flag{utils.FromFlag},
	}
	renounceCommand = &cli.Command{
		Action:    renounce,
		Name:      "renounce",
		Usage:     "Terminate the membership of --from",
		ArgsUsage: " ",
		Flags:     []cli.Flag{utils.FromFlag},
	}
	increaseDurationCommand = &cli.Command{
		Action:    increaseDuration,
		Name:      "increase-duration",
		Usage:     "Extend the global token vesting duration (owner only)",
		ArgsUsage: "<duration>",
		Flags:     []cli.Flag{utils.FromFlag},
	}
	increasePersonalDurationsCommand = &cli.Command{
		Action:    increasePersonalDurations,
		Name:      "increase-personal-durations",
		Usage:     "Extend the token vesting duration of individual members (owner only)",
		ArgsUsage: "<member>=<duration> [<member>=<duration> ...]",
		Flags:     []cli.Flag{utils.FromFlag},
	}
)

// send executes one action on the ledger and prints its receipt.
func send(ctx *cli.Context, kind sysaction.ActionKind, payload interface{}) error {
	from := utils.MakeFrom(ctx)
	data, err := sysaction.MakeSysAction(kind, payload)
	if err != nil {
		return err
	}
	b, _ := openBackend(ctx)
	defer b.Close()

	rcpt, err := b.Execute(from, data)
	if err != nil {
		utils.Fatalf("Action %s failed: %v", kind, err)
	}
	if rcpt.Amount != nil {
		fmt.Fprintf(ctx.App.Writer, "%s committed at index %d, amount %v\n", rcpt.Action, rcpt.Index, rcpt.Amount)
	} else {
		fmt.Fprintf(ctx.App.Writer, "%s committed at index %d\n", rcpt.Action, rcpt.Index)
	}
	return nil
}

// addressArg returns the i-th argument as a hex address, or "" if absent.
func addressArg(ctx *cli.Context, i int, name string, required bool) string {
	arg := ctx.Args().Get(i)
	if arg == "" {
		if required {
			utils.Fatalf("Missing %s address", name)
		}
		return ""
	}
	return utils.MakeAddress(name, arg).Hex()
}

func claimVotes(ctx *cli.Context) error {
	return send(ctx, sysaction.ActionClaimVotes, sysaction.ClaimVotesPayload{
		Member: addressArg(ctx, 0, "member", false),
	})
}

func claimTokens(ctx *cli.Context) error {
	return send(ctx, sysaction.ActionClaimTokens, sysaction.ClaimTokensPayload{
		Beneficiary: addressArg(ctx, 0, "beneficiary", false),
	})
}

func delegate(ctx *cli.Context) error {
	return send(ctx, sysaction.ActionDelegate, sysaction.DelegatePayload{
		To: addressArg(ctx, 0, "delegatee", true),
	})
}

func transfer(ctx *cli.Context) error {
	return send(ctx, sysaction.ActionTransfer, sysaction.TransferPayload{
		To: addressArg(ctx, 0, "recipient", true),
	})
}

func disableMember(ctx *cli.Context) error {
	return send(ctx, sysaction.ActionDisableMember, sysaction.DisableMemberPayload{
		Member: addressArg(ctx, 0, "member", true),
	})
}

func renounce(ctx *cli.Context) error {
	return send(ctx, sysaction.ActionRenounce, nil)
}

func increaseDuration(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		utils.Fatalf("This command requires an argument.")
	}
	duration, err := strconv.ParseUint(ctx.Args().First(), 10, 64)
	if err != nil {
		utils.Fatalf("Invalid duration: %v", err)
	}
	return send(ctx, sysaction.ActionIncreaseDurationT, sysaction.IncreaseDurationPayload{Duration: duration})
}

func increasePersonalDurations(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		utils.Fatalf("This command requires at least one <member>=<duration> argument.")
	}
	payload, err := parseDurations(ctx.Args().Slice())
	if err != nil {
		utils.Fatalf("%v", err)
	}
	return send(ctx, sysaction.ActionIncreasePersonalDurationsT, payload)
}

// parseDurations parses <member>=<duration> pairs, keeping their order.
func parseDurations(args []string) (sysaction.IncreasePersonalDurationsPayload, error) {
	var payload sysaction.IncreasePersonalDurationsPayload
	for _, arg := range args {
		kv := strings.SplitN(arg, "=", 2)
		if len(kv) != 2 {
			return payload, fmt.Errorf("invalid argument %q, want <member>=<duration>", arg)
		}
		duration, err := strconv.ParseUint(kv[1], 10, 64)
		if err != nil {
			return payload, fmt.Errorf("invalid duration in %q: %v", arg, err)
		}
		payload.Members = append(payload.Members, kv[0])
		payload.Durations = append(payload.Durations, duration)
	}
	return payload, nil
}
