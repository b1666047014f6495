package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/github/skillscan/pkg/cli"
	"github.com/github/skillscan/pkg/console"
	"github.com/github/skillscan/pkg/constants"
)

// Build-time variables set by the release pipeline
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   constants.BinaryName,
	Short: "Static risk analysis for AI agent skill files",
	Long: `skillscan statically inspects markdown skill files consumed by AI coding
agents and flags patterns associated with data exfiltration, privilege
escalation, destructive behavior, and malware delivery.

It is a heuristic defense-in-depth layer: it executes nothing and
guarantees nothing, but surfaces the patterns worth a human look.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var verbose bool

func init() {
	cli.SetVersionInfo(version)
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable per-file progress output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cli.SetVerbose(verbose)
	}
	rootCmd.AddCommand(cli.NewScanCommand())
	rootCmd.AddCommand(cli.NewNameCommand())
	rootCmd.AddCommand(cli.NewWatchCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
