package app

import (
	"github.com/spf13/cobra"

	"github.com/0x0918/sstan/internal/cli"
)

func BuildRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "sstan",
		Short:         "Static analyzer for Solidity: vulnerabilities, gas optimizations and quality issues",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cli.AddCommands(root)
	return root
}
