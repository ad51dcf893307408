package main

import (
	"github.com/spf13/cobra"

	"github.com/bgwire/bgwire/internal/config"
	"github.com/bgwire/bgwire/internal/engine"
)

var transferLevaCmd = &cobra.Command{
	Use:   "leva [individual|corporate]",
	Short: "Register domestic transfers in leva",
	Long: `Collect a batch of domestic transfers and register each one through the
bank's payment form. Only recipients with Bulgarian IBANs are offered.

Registered transfers remain pending until signed with 'bgwire transfer sign'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer(cmd, args, &engine.LevaTransfer{}, config.DomesticOnly)
	},
}

func init() {
	transferCmd.AddCommand(transferLevaCmd)
}
