package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bgwire/bgwire/internal/config"
	"github.com/bgwire/bgwire/internal/ui"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the accounts transfers are sent from",
}

var accountAddCmd = &cobra.Command{
	Use:   "add [individual|corporate]",
	Short: "Register a source account",
	Long: `Register the name of an account as shown in the bank's account chooser.
The name must match the remote listing exactly; it is used to pick the
account when a transfer form opens.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := askAccountClass(args)
		if err != nil {
			return err
		}

		accounts, err := config.LoadAccounts(configDir)
		if err != nil {
			return err
		}

		var name string
		err = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Account name").
				Description("Exactly as listed in the account chooser").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("account name must not be empty")
					}
					for _, existing := range accounts[class] {
						if existing == s {
							return errors.New("account is already registered")
						}
					}
					return nil
				}),
		)).Run()
		if err != nil {
			return err
		}

		accounts[class] = append(accounts[class], name)
		if err := config.SaveAccounts(configDir, accounts); err != nil {
			return err
		}
		cmd.Println(ui.RenderOK(fmt.Sprintf("Registered %s account %q.", class, name)))
		return nil
	},
}

func init() {
	accountCmd.AddCommand(accountAddCmd)
	rootCmd.AddCommand(accountCmd)
}
