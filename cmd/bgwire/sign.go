package main

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bgwire/bgwire/internal/queue"
)

var signCmd = &cobra.Command{
	Use:   "sign [individual|corporate]",
	Short: "Sign the transfers pending on the remote system",
	Long: `Open the pending transfers view, select every pending transfer, answer
the one-time challenge and release the batch. For corporate accounts the
signed transfers are sent in a second pass.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := askAccountClass(args)
		if err != nil {
			return err
		}

		settings, err := loadSettings()
		if err != nil {
			return err
		}

		store := queue.Open(settings.Dir)
		eng := newEngine(settings, store)
		defer eng.Close(cmd.Context())

		return eng.Sign(cmd.Context(), class, promptChallenge)
	},
}

func init() {
	transferCmd.AddCommand(signCmd)
}

// promptChallenge asks the operator for the one-time code matching the
// challenge shown by the remote system.
func promptChallenge(challenge string) (string, error) {
	var response string
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Challenge: " + challenge).
			Description("Enter the response code from your token").
			Value(&response).
			Validate(func(s string) error {
				s = strings.TrimSpace(s)
				if s == "" {
					return errors.New("response must not be empty")
				}
				for _, r := range s {
					if r < '0' || r > '9' {
						return errors.New("response must contain digits only")
					}
				}
				return nil
			}),
	)).Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}
