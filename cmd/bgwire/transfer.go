package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/bgwire/bgwire/internal/config"
	"github.com/bgwire/bgwire/internal/engine"
	"github.com/bgwire/bgwire/internal/queue"
	"github.com/bgwire/bgwire/internal/ui"
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Collect and execute transfer batches",
}

func init() {
	rootCmd.AddCommand(transferCmd)
}

// runTransfer is the shared driver behind the transfer subcommands: it
// resolves the account class and account, collects the batch, then hands the
// batch to the engine for execution. A declined confirmation leaves the
// queue untouched and exits cleanly.
func runTransfer(cmd *cobra.Command, args []string, op engine.Operation, nat config.Nationality) error {
	class, err := askAccountClass(args)
	if err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	accounts, err := config.LoadAccounts(settings.Dir)
	if err != nil {
		return err
	}
	account, err := accounts.Pick(class)
	if err != nil {
		return err
	}

	book, err := config.LoadRecipients(settings.Dir)
	if err != nil {
		return err
	}

	store := queue.Open(settings.Dir)
	key := queue.Key{Command: op.Name(), AccountClass: class}

	batch, err := collectBatch(store, key, op.Currency(), nat, book)
	if errors.Is(err, errAborted) {
		cmd.Println(ui.RenderWarn("Aborted. No transactions were registered."))
		return nil
	}
	if err != nil {
		return err
	}

	eng := newEngine(settings, store)
	defer eng.Close(cmd.Context())

	return eng.RunBatch(cmd.Context(), op, engine.BatchRun{
		Key:     key,
		Account: account,
		Batch:   batch,
	})
}
