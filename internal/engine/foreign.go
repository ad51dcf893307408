package engine

import (
	"context"
	"fmt"

	"github.com/bgwire/bgwire/internal/transaction"
)

// ForeignTransfer drives cross-border transfers through the foreign currency
// payment form. The form carries more fields than the leva one: payee
// address and SWIFT code, a currency picker, the beneficiary bank's country
// and an operation type declaration.
type ForeignTransfer struct{}

func (ForeignTransfer) Name() string     { return "transfer:foreign" }
func (ForeignTransfer) Currency() string { return "EUR" }

func (ForeignTransfer) Prepare(ctx context.Context, e *Engine, _ transaction.AccountClass) error {
	return e.NavigateHome(ctx)
}

func (op ForeignTransfer) Execute(ctx context.Context, e *Engine, class transaction.AccountClass, account string, tx transaction.Request) error {
	// Open the foreign currency payment form.
	if err := e.awaitPresent(ctx, e.site.ForeignMenu); err != nil {
		return err
	}
	if err := e.sess.Click(ctx, e.site.ForeignFormLink); err != nil {
		return fmt.Errorf("opening the foreign currency form: %w", err)
	}

	if err := e.ChooseAccount(ctx, account); err != nil {
		return err
	}

	if err := op.fillForm(ctx, e, tx); err != nil {
		return err
	}

	// The form keeps validating asynchronously after the operation type
	// dialog closes; wait for the page to settle instead of sleeping.
	if err := e.awaitAbsent(ctx, e.site.OperationTypeSelect); err != nil {
		return err
	}
	if err := e.awaitInvisible(ctx, e.site.LoadingOverlay); err != nil {
		return err
	}

	if err := e.sess.Click(ctx, e.site.ForeignSave); err != nil {
		return fmt.Errorf("submitting the foreign currency form: %w", err)
	}
	return e.awaitPresent(ctx, e.site.ForeignSaveResult)
}

func (ForeignTransfer) fillForm(ctx context.Context, e *Engine, tx transaction.Request) error {
	if err := e.awaitPresent(ctx, e.site.PayeeName); err != nil {
		return err
	}
	if err := e.sess.Fill(ctx, e.site.PayeeName, tx.Recipient.Name); err != nil {
		return fmt.Errorf("filling payee name: %w", err)
	}
	if err := e.sess.Fill(ctx, e.site.PayeeAccount, tx.Recipient.IBAN); err != nil {
		return fmt.Errorf("filling payee account: %w", err)
	}
	if err := e.sess.Fill(ctx, e.site.PayeeAddress, tx.Recipient.Address); err != nil {
		return fmt.Errorf("filling payee address: %w", err)
	}
	if err := e.sess.Fill(ctx, e.site.PayeeBankSWIFT, tx.Recipient.BIC); err != nil {
		return fmt.Errorf("filling payee bank SWIFT: %w", err)
	}
	if err := e.sess.Fill(ctx, e.site.ForeignAmount, tx.Amount); err != nil {
		return fmt.Errorf("filling amount: %w", err)
	}
	if err := e.sess.Fill(ctx, e.site.ForeignDescription, tx.Description); err != nil {
		return fmt.Errorf("filling description: %w", err)
	}

	// Currency.
	if err := e.sess.Click(ctx, e.site.CurrencyPicker); err != nil {
		return fmt.Errorf("opening the currency picker: %w", err)
	}
	if err := e.sess.Click(ctx, e.site.CurrencyOption(tx.Currency)); err != nil {
		return fmt.Errorf("selecting currency %s: %w", tx.Currency, err)
	}

	// Beneficiary bank country.
	country := transaction.CountryCode(tx.Recipient.Country)
	if country == "" {
		return fmt.Errorf("unknown recipient country %q", tx.Recipient.Country)
	}
	if err := e.sess.SelectOption(ctx, e.site.CountryPicker, country); err != nil {
		return fmt.Errorf("selecting country %s: %w", tx.Recipient.Country, err)
	}

	// Operation type. The dialog box has no identifier of its own, and
	// its select boxes load one after the other.
	if err := e.sess.Click(ctx, e.site.OperationTypeButton); err != nil {
		return fmt.Errorf("opening the operation type dialog: %w", err)
	}
	if err := e.awaitPresent(ctx, e.site.OperationTypeSelect); err != nil {
		return err
	}
	if err := e.sess.SelectOption(ctx, e.site.OperationTypeSelect, operationTypePrivate); err != nil {
		return fmt.Errorf("selecting operation type: %w", err)
	}
	if err := e.awaitPresent(ctx, e.site.OperationCodePick); err != nil {
		return err
	}
	if err := e.sess.SelectOption(ctx, e.site.OperationCodePick, operationCodePrivateTransfer); err != nil {
		return fmt.Errorf("selecting operation code: %w", err)
	}
	if err := e.sess.Click(ctx, e.site.OperationTypeOK); err != nil {
		return fmt.Errorf("confirming operation type: %w", err)
	}
	return nil
}

// Central bank reporting codes for the operation type declaration.
const (
	operationTypePrivate         = "4"   // other private transfers
	operationCodePrivateTransfer = "629" // private transfer, miscellaneous
)
