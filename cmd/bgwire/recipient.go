package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bgwire/bgwire/internal/config"
	"github.com/bgwire/bgwire/internal/transaction"
	"github.com/bgwire/bgwire/internal/ui"
)

var recipientCmd = &cobra.Command{
	Use:   "recipient",
	Short: "Manage the recipient address book",
}

var recipientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a recipient to the address book",
	Long: `Add a transfer recipient. Recipients with Bulgarian IBANs are offered for
leva transfers; any other IBAN marks a foreign recipient, which additionally
needs a BIC, a country and an address for the foreign payment form.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := config.LoadRecipients(configDir)
		if err != nil {
			return err
		}

		var name, iban string
		err = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Recipient name").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name must not be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("IBAN").
				Placeholder("BG80BNBG96611020345678").
				Value(&iban).
				Validate(func(s string) error {
					if !transaction.ValidIBAN(s) {
						return errors.New("not a valid IBAN")
					}
					return nil
				}),
		)).Run()
		if err != nil {
			return err
		}

		recipient := transaction.Recipient{Name: name, IBAN: iban}
		if !recipient.Domestic() {
			err = huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("BIC").
					Value(&recipient.BIC).
					Validate(func(s string) error {
						if l := len(s); l != 8 && l != 11 {
							return errors.New("BIC must be 8 or 11 characters")
						}
						return nil
					}),
				huh.NewSelect[string]().
					Title("Country").
					Options(huh.NewOptions(transaction.CountryNames()...)...).
					Value(&recipient.Country),
				huh.NewInput().
					Title("Address").
					Value(&recipient.Address).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errors.New("address must not be empty")
						}
						return nil
					}),
			)).Run()
			if err != nil {
				return err
			}
		}

		recipient.Alias = name
		err = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Alias").
				Description("Short name shown in recipient pickers").
				Value(&recipient.Alias).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("alias must not be empty")
					}
					if book.HasAlias(s) {
						return errors.New("alias is already taken")
					}
					return nil
				}),
		)).Run()
		if err != nil {
			return err
		}

		if err := book.Add(recipient); err != nil {
			return err
		}
		if err := config.SaveRecipients(configDir, book); err != nil {
			return err
		}
		cmd.Println(ui.RenderOK(fmt.Sprintf("Added recipient %q (%s).", recipient.Alias, recipient.IBAN)))
		return nil
	},
}

func init() {
	recipientCmd.AddCommand(recipientAddCmd)
	rootCmd.AddCommand(recipientCmd)
}
