package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/tos-network/gvest/params"
	"github.com/urfave/cli/v2"
)

var (
	versionCommand = &cli.Command{
		Action:    version,
		Name:      "version",
		Usage:     "Print version numbers",
		ArgsUsage: " ",
		Description: `
The output of this command is supposed to be machine-readable.
`,
	}
	licenseCommand = &cli.Command{
		Action:    license,
		Name:      "license",
		Usage:     "Display license information",
		ArgsUsage: " ",
	}
)

func version(ctx *cli.Context) error {
	w := ctx.App.Writer
	fmt.Fprintln(w, strings.Title(clientIdentifier))
	fmt.Fprintln(w, "Version:", params.VersionWithMeta)
	if gitCommit != "" {
		fmt.Fprintln(w, "Git Commit:", gitCommit)
	}
	if gitDate != "" {
		fmt.Fprintln(w, "Git Commit Date:", gitDate)
	}
	fmt.Fprintln(w, "Architecture:", runtime.GOARCH)
	fmt.Fprintln(w, "Go Version:", runtime.Version())
	fmt.Fprintln(w, "Operating System:", runtime.GOOS)
	fmt.Fprintf(w, "GOPATH=%s\n", os.Getenv("GOPATH"))
	fmt.Fprintf(w, "GOROOT=%s\n", runtime.GOROOT())
	return nil
}

func license(ctx *cli.Context) error {
	fmt.Fprintln(ctx.App.Writer, `Gvest licensing summary

- Default repository license: GNU LGPL-3.0 (see LICENSE)
- cmd/ command applications include GPL-3.0-governed components (see COPYING)`)
	return nil
}
