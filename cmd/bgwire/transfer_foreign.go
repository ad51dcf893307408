package main

import (
	"github.com/spf13/cobra"

	"github.com/bgwire/bgwire/internal/config"
	"github.com/bgwire/bgwire/internal/engine"
)

var transferForeignCmd = &cobra.Command{
	Use:   "foreign [individual|corporate]",
	Short: "Register foreign currency transfers",
	Long: `Collect a batch of foreign currency transfers and register each one
through the bank's foreign payment form. Only recipients with non-Bulgarian
IBANs are offered; each must carry a BIC, country and address.

Registered transfers remain pending until signed with 'bgwire transfer sign'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer(cmd, args, &engine.ForeignTransfer{}, config.ForeignOnly)
	},
}

func init() {
	transferCmd.AddCommand(transferForeignCmd)
}
