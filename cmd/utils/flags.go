// Copyright 2015 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

// Package utils contains internal helper functions for gvest commands.
package utils

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/ethereum/go-ethereum/metrics/exp"
	"github.com/tos-network/gvest/backend"
	"github.com/tos-network/gvest/clock"
	"github.com/tos-network/gvest/internal/flags"
	gvestmetrics "github.com/tos-network/gvest/metrics"
	"github.com/urfave/cli/v2"
)

// These are all the command line flags we support.
// If you add to this list, please remember to include the
// flag in the appropriate command definition.
//
// The flags are defined here so their names and help texts
// are the same for all commands.

var (
	// General settings
	DataDirFlag = &cli.StringFlag{
		Name:     "datadir",
		Usage:    "Data directory for the ledger database",
		Value:    flags.DefaultDataDir(),
		Category: flags.LedgerCategory,
	}
	ConfigFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.LedgerCategory,
	}
	IndexFlag = &cli.Uint64Flag{
		Name:     "index",
		Usage:    "Evaluate the command at this index instead of the ledger clock",
		Category: flags.LedgerCategory,
	}
	ClockFlag = &cli.StringFlag{
		Name:     "clock",
		Usage:    `Index source of the ledger ("block" or "unix")`,
		Value:    backend.DefaultConfig.Clock,
		Category: flags.LedgerCategory,
	}

	// Performance tuning
	CacheFlag = &cli.IntFlag{
		Name:     "cache",
		Usage:    "Number of accounts whose latest checkpoint is kept in memory",
		Value:    backend.DefaultConfig.CheckpointCache,
		Category: flags.PerfCategory,
	}
	CacheDatabaseFlag = &cli.IntFlag{
		Name:     "cache.database",
		Usage:    "Megabytes of memory allocated to the database",
		Value:    backend.DefaultConfig.DatabaseCache,
		Category: flags.PerfCategory,
	}
	CacheTrieFlag = &cli.IntFlag{
		Name:     "cache.trie",
		Usage:    "Megabytes of memory allocated to clean trie nodes",
		Value:    backend.DefaultConfig.TrieCleanCache,
		Category: flags.PerfCategory,
	}

	// Logging and debug settings
	VerbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value:    3,
		Category: flags.LoggingCategory,
	}
	VModuleFlag = &cli.StringFlag{
		Name:     "vmodule",
		Usage:    "Per-module verbosity: comma-separated list of <pattern>=<level> (e.g. vesting/*=5,backend=4)",
		Category: flags.LoggingCategory,
	}
	LogJSONFlag = &cli.BoolFlag{
		Name:     "log.json",
		Usage:    "Format logs with JSON",
		Category: flags.LoggingCategory,
	}

	// Actions
	FromFlag = &cli.StringFlag{
		Name:     "from",
		Usage:    "Address the action is sent from",
		Category: flags.ActionCategory,
	}

	// RPC settings
	HTTPListenAddrFlag = &cli.StringFlag{
		Name:     "http.addr",
		Usage:    "HTTP-RPC server listening interface",
		Value:    "localhost",
		Category: flags.APICategory,
	}
	HTTPPortFlag = &cli.IntFlag{
		Name:     "http.port",
		Usage:    "HTTP-RPC server listening port",
		Value:    8645,
		Category: flags.APICategory,
	}
	HTTPCORSDomainFlag = &cli.StringFlag{
		Name:     "http.corsdomain",
		Usage:    "Comma separated list of domains from which to accept cross origin requests (browser enforced)",
		Value:    "",
		Category: flags.APICategory,
	}
	RPCAllowActionsFlag = &cli.BoolFlag{
		Name:     "rpc.allow-actions",
		Usage:    "Accept vesting_sendAction over RPC (unauthenticated, trusted networks only)",
		Category: flags.APICategory,
	}

	// Metrics flags
	MetricsEnabledFlag = &cli.BoolFlag{
		Name:     "metrics",
		Usage:    "Enable metrics collection and reporting",
		Category: flags.MetricsCategory,
	}
	MetricsEnabledExpensiveFlag = &cli.BoolFlag{
		Name:     "metrics.expensive",
		Usage:    "Enable expensive metrics collection and reporting",
		Category: flags.MetricsCategory,
	}
	// MetricsHTTPFlag defines the endpoint for a stand-alone metrics HTTP endpoint.
	// Since the pprof service enables sensitive/vulnerable behavior, this allows a user
	// to enable a public-OK metrics endpoint without having to worry about ALSO exposing
	// other profiling behavior or information.
	MetricsHTTPFlag = &cli.StringFlag{
		Name:     "metrics.addr",
		Usage:    "Enable stand-alone metrics HTTP server listening interface",
		Value:    gvestmetrics.DefaultConfig.HTTP,
		Category: flags.MetricsCategory,
	}
	MetricsPortFlag = &cli.IntFlag{
		Name:     "metrics.port",
		Usage:    "Metrics HTTP server listening port",
		Value:    gvestmetrics.DefaultConfig.Port,
		Category: flags.MetricsCategory,
	}
)

var (
	// LedgerFlags is the flag group shared by every command touching the ledger.
	LedgerFlags = []cli.Flag{
		DataDirFlag,
		ConfigFileFlag,
		IndexFlag,
		ClockFlag,
		CacheFlag,
		CacheDatabaseFlag,
		CacheTrieFlag,
	}

	// LoggingFlags is the flag group of all logging flags.
	LoggingFlags = []cli.Flag{
		VerbosityFlag,
		VModuleFlag,
		LogJSONFlag,
	}

	// MetricsFlags is the flag group of all metrics flags.
	MetricsFlags = []cli.Flag{
		MetricsEnabledFlag,
		MetricsEnabledExpensiveFlag,
		MetricsHTTPFlag,
		MetricsPortFlag,
	}

	// RPCFlags is the flag group of the serve command.
	RPCFlags = []cli.Flag{
		HTTPListenAddrFlag,
		HTTPPortFlag,
		HTTPCORSDomainFlag,
		RPCAllowActionsFlag,
	}
)

// MakeDataDir retrieves the currently requested data directory, terminating
// if none (or the empty string) is specified.
func MakeDataDir(ctx *cli.Context) string {
	if path := ctx.String(DataDirFlag.Name); path != "" {
		return flags.ExpandPath(path)
	}
	Fatalf("Cannot determine default data directory, please set manually (--datadir)")
	return ""
}

// SplitAndTrim splits input separated by a comma
// and trims excessive white space from the substrings.
func SplitAndTrim(input string) (ret []string) {
	l := strings.Split(input, ",")
	for _, r := range l {
		if r = strings.TrimSpace(r); r != "" {
			ret = append(ret, r)
		}
	}
	return ret
}

// SetBackendConfig applies ledger related command line flags to the config.
func SetBackendConfig(ctx *cli.Context, cfg *backend.Config) {
	if ctx.IsSet(DataDirFlag.Name) || cfg.DataDir == "" {
		cfg.DataDir = MakeDataDir(ctx)
	}
	if ctx.IsSet(ClockFlag.Name) {
		cfg.Clock = ctx.String(ClockFlag.Name)
	}
	if ctx.IsSet(CacheFlag.Name) {
		cfg.CheckpointCache = ctx.Int(CacheFlag.Name)
	}
	if ctx.IsSet(CacheDatabaseFlag.Name) {
		cfg.DatabaseCache = ctx.Int(CacheDatabaseFlag.Name)
	}
	if ctx.IsSet(CacheTrieFlag.Name) {
		cfg.TrieCleanCache = ctx.Int(CacheTrieFlag.Name)
	}
}

// SetMetricsConfig applies metrics related command line flags to the config.
func SetMetricsConfig(ctx *cli.Context, cfg *gvestmetrics.Config) {
	if ctx.IsSet(MetricsEnabledFlag.Name) {
		cfg.Enabled = ctx.Bool(MetricsEnabledFlag.Name)
	}
	if ctx.IsSet(MetricsEnabledExpensiveFlag.Name) {
		cfg.EnabledExpensive = ctx.Bool(MetricsEnabledExpensiveFlag.Name)
	}
	if ctx.IsSet(MetricsHTTPFlag.Name) {
		cfg.HTTP = ctx.String(MetricsHTTPFlag.Name)
	}
	if ctx.IsSet(MetricsPortFlag.Name) {
		cfg.Port = ctx.Int(MetricsPortFlag.Name)
	}
}

// MakeClock returns the fixed clock requested with --index, or nil to let
// the backend use its configured clock.
func MakeClock(ctx *cli.Context) clock.Clock {
	if ctx.IsSet(IndexFlag.Name) {
		return clock.Fixed(ctx.Uint64(IndexFlag.Name))
	}
	return nil
}

// MakeAddress parses a hex address flag or argument.
func MakeAddress(name, value string) common.Address {
	if !common.IsHexAddress(value) {
		Fatalf("Invalid %s address: %q", name, value)
	}
	return common.HexToAddress(value)
}

// MakeFrom returns the sender of an action given with --from.
func MakeFrom(ctx *cli.Context) common.Address {
	if !ctx.IsSet(FromFlag.Name) {
		Fatalf("Missing sender, please set --%s", FromFlag.Name)
	}
	return MakeAddress("sender", ctx.String(FromFlag.Name))
}

// SetupMetrics starts the stand-alone metrics endpoint when metrics are
// enabled. Collection itself is switched on by go-ethereum's metrics package
// reading --metrics from the command line at startup.
func SetupMetrics(cfg *gvestmetrics.Config) {
	if !metrics.Enabled {
		return
	}
	log.Info("Enabling metrics collection")
	if cfg.HTTP != "" {
		address := fmt.Sprintf("%s:%d", cfg.HTTP, cfg.Port)
		log.Info("Enabling stand-alone metrics HTTP endpoint", "address", address)
		exp.Setup(address)
	}
}
