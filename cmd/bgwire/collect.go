package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/bgwire/bgwire/internal/config"
	"github.com/bgwire/bgwire/internal/queue"
	"github.com/bgwire/bgwire/internal/transaction"
	"github.com/bgwire/bgwire/internal/ui"
)

// errAborted signals an operator-declined confirmation. The queue is left
// exactly as it was.
var errAborted = errors.New("transfer aborted")

const doneChoice = "- done -"

// askAccountClass resolves the account class from the positional argument or
// an interactive select.
func askAccountClass(args []string) (transaction.AccountClass, error) {
	if len(args) > 0 {
		return transaction.ParseAccountClass(args[0])
	}
	class := transaction.Individual
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[transaction.AccountClass]().
			Title("Account class").
			Options(
				huh.NewOption("Individual", transaction.Individual),
				huh.NewOption("Corporate", transaction.Corporate),
			).
			Value(&class),
	)).Run()
	if err != nil {
		return "", err
	}
	return class, nil
}

// collectBatch interactively assembles a batch for the given queue key:
// offers to resume any batch persisted by a previous session, then collects
// transactions until the operator is done, then asks for final confirmation.
// Validation failures re-prompt; they never abort the command.
func collectBatch(store *queue.Store, key queue.Key, currency string, nat config.Nationality, book *config.AddressBook) ([]transaction.Request, error) {
	batch, err := resumePrompt(store, key)
	if err != nil {
		return nil, err
	}

	recipients := book.Filter(nat)
	if len(recipients) == 0 && len(batch) == 0 {
		return nil, fmt.Errorf("no matching recipients registered; add one with 'bgwire recipient add'")
	}

	for {
		recipient, done, err := askRecipient(recipients, len(batch) > 0)
		if err != nil {
			return nil, err
		}
		if done {
			if len(batch) == 0 {
				fmt.Println(ui.RenderWarn("No transactions collected yet."))
				continue
			}
			break
		}

		tx, err := askTransaction(recipient, currency)
		if err != nil {
			return nil, err
		}
		batch = append(batch, tx)
		fmt.Println(ui.RenderOK(fmt.Sprintf("Added transaction to %s for %s %s: %q",
			tx.Recipient.Name, tx.Amount, tx.Currency, tx.Description)))
	}

	// Final review before anything is persisted for execution.
	fmt.Println("Transactions:")
	fmt.Print(ui.TransactionTable(batch))
	confirmed := true
	err = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Register these %d transaction(s)?", len(batch))).
			Value(&confirmed),
	)).Run()
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, errAborted
	}
	return batch, nil
}

// resumePrompt surfaces a batch left over from a previous session and lets
// the operator decide between resuming and discarding it. Nothing is
// re-attempted silently.
func resumePrompt(store *queue.Store, key queue.Key) ([]transaction.Request, error) {
	stored, err := store.Load(key)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, nil
	}

	fmt.Println(ui.RenderWarn("Transactions from a previous session are present:"))
	fmt.Println(ui.RenderMuted("(" + store.Path() + ")"))
	fmt.Print(ui.TransactionTable(stored))
	resume := true
	err = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Import these transactions?").
			Value(&resume),
	)).Run()
	if err != nil {
		return nil, err
	}
	if !resume {
		return nil, nil
	}
	return stored, nil
}

// askRecipient picks a recipient from the filtered address book, or reports
// that the operator is done collecting.
func askRecipient(recipients []transaction.Recipient, allowDone bool) (transaction.Recipient, bool, error) {
	options := make([]huh.Option[string], 0, len(recipients)+1)
	for _, r := range recipients {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", r.Alias, r.IBAN), r.Alias))
	}
	options = append(options, huh.NewOption(doneChoice, doneChoice))

	var choice string
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Recipient").
			Options(options...).
			Value(&choice),
	)).Run()
	if err != nil {
		return transaction.Recipient{}, false, err
	}
	if choice == doneChoice {
		return transaction.Recipient{}, true, nil
	}
	for _, r := range recipients {
		if r.Alias == choice {
			return r, false, nil
		}
	}
	return transaction.Recipient{}, false, fmt.Errorf("recipient %q does not exist", choice)
}

// askTransaction collects and validates the amount, description and, when
// the regulatory threshold applies, the funds origin for one transaction.
func askTransaction(recipient transaction.Recipient, currency string) (transaction.Request, error) {
	var amount, description string
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(fmt.Sprintf("Amount in %s", currency)).
			Placeholder("123.45").
			Value(&amount).
			Validate(func(s string) error {
				_, err := transaction.ValidateAmount(s)
				return err
			}),
		huh.NewInput().
			Title("Description").
			Value(&description).
			Validate(transaction.ValidateDescription),
	)).Run()
	if err != nil {
		return transaction.Request{}, err
	}

	amt, err := transaction.ValidateAmount(amount)
	if err != nil {
		return transaction.Request{}, err
	}

	origin := ""
	if transaction.RequiresFundsOrigin(amt, currency) {
		options := make([]huh.Option[string], 0, len(transaction.FundOrigins))
		for _, o := range transaction.FundOrigins {
			options = append(options, huh.NewOption(o.Label, o.Label))
		}
		err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Origin of funds").
				Options(options...).
				Value(&origin),
		)).Run()
		if err != nil {
			return transaction.Request{}, err
		}
	}

	tx := transaction.Request{
		ID:          uuid.NewString(),
		Recipient:   recipient,
		Amount:      amount,
		Currency:    currency,
		Origin:      origin,
		Description: description,
	}
	if err := tx.Validate(); err != nil {
		return transaction.Request{}, err
	}
	return tx, nil
}
