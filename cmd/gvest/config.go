package main

import (
	"bufio"
	"errors"
	"fmt"
	"math/big"
	"os"
	"reflect"
	"unicode"

	"github.com/ethereum/go-ethereum/log"
	"github.com/naoina/toml"
	"github.com/tos-network/gvest/backend"
	"github.com/tos-network/gvest/cmd/utils"
	"github.com/tos-network/gvest/metrics"
	"github.com/tos-network/gvest/params"
	"github.com/urfave/cli/v2"
)

var (
	initCommand = &cli.Command{
		Action:    initLedger,
		Name:      "init",
		Usage:     "Bootstrap and initialize a new vesting ledger",
		ArgsUsage: " ",
		Description: `
The init command seeds a new ledger from the [Vesting] section of the
configuration file given with --config. It fails if the data directory
already holds a ledger.`,
	}
	dumpConfigCommand = &cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "",
		Description: `The dumpconfig command shows configuration values.`,
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type gvestConfig struct {
	Vesting params.VestingConfig
	Node    backend.Config
	Metrics metrics.Config
}

func loadConfig(file string, cfg *gvestConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

func defaultConfig() gvestConfig {
	vesting := params.DefaultVestingConfig
	vesting.AmountPerMember = new(big.Int).Set(params.DefaultVestingConfig.AmountPerMember)
	return gvestConfig{
		Vesting: vesting,
		Node:    backend.DefaultConfig,
		Metrics: metrics.DefaultConfig,
	}
}

// makeConfig loads the configuration file and applies command line flags.
func makeConfig(ctx *cli.Context) gvestConfig {
	cfg := defaultConfig()
	if file := ctx.String(utils.ConfigFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			utils.Fatalf("%v", err)
		}
	}
	utils.SetBackendConfig(ctx, &cfg.Node)
	utils.SetMetricsConfig(ctx, &cfg.Metrics)
	return cfg
}

// openBackend opens the ledger selected by the command line.
func openBackend(ctx *cli.Context) (*backend.Backend, gvestConfig) {
	cfg := makeConfig(ctx)
	b, err := backend.New(&cfg.Node, utils.MakeClock(ctx))
	if err != nil {
		utils.Fatalf("Failed to open ledger: %v", err)
	}
	return b, cfg
}

func initLedger(ctx *cli.Context) error {
	if !ctx.IsSet(utils.ConfigFileFlag.Name) {
		utils.Fatalf("Must supply a configuration file with the vesting parameters (--config)")
	}
	b, cfg := openBackend(ctx)
	defer b.Close()

	head, err := b.Genesis(&cfg.Vesting)
	if err != nil {
		utils.Fatalf("Failed to initialize ledger: %v", err)
	}
	log.Info("Successfully wrote genesis state", "datadir", cfg.Node.DataDir, "root", head.Root)
	fmt.Fprintf(ctx.App.Writer, "root %s index %d members %d\n", head.Root.Hex(), head.Index, len(cfg.Vesting.Members))
	return nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg := makeConfig(ctx)
	comment := ""

	if len(cfg.Vesting.Members) == 0 {
		comment += "# Note: Owner and Members must be set before running init\n\n"
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := ctx.App.Writer
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	fmt.Fprint(dump, comment)
	dump.Write(out)

	return nil
}
