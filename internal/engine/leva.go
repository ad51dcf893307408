package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bgwire/bgwire/internal/retry"
	"github.com/bgwire/bgwire/internal/transaction"
	"github.com/bgwire/bgwire/internal/wait"
)

// LevaTransfer drives domestic (BGN) transfers through the "In leva" payment
// form.
type LevaTransfer struct{}

func (LevaTransfer) Name() string     { return "transfer:leva" }
func (LevaTransfer) Currency() string { return transaction.DomesticCurrency }

func (LevaTransfer) Prepare(ctx context.Context, e *Engine, _ transaction.AccountClass) error {
	return e.ClickMainNav(ctx, "transfers")
}

func (op LevaTransfer) Execute(ctx context.Context, e *Engine, class transaction.AccountClass, account string, tx transaction.Request) error {
	if err := op.openForm(ctx, e, class); err != nil {
		return err
	}
	if err := e.ChooseAccount(ctx, account); err != nil {
		return err
	}
	if err := op.fillForm(ctx, e, tx); err != nil {
		return err
	}
	if err := e.ClickLinkButton(ctx, "Save"); err != nil {
		return err
	}
	return e.AwaitSuccess(ctx)
}

// openForm reaches the "In leva" payment form from the transfers page. The
// secondary navigation entry differs per account class, and the links do not
// work immediately after they render; a fast-fail probe for the form button
// decides whether the click took, and a timeout there re-attempts the
// navigation rather than failing the transaction.
func (op LevaTransfer) openForm(ctx context.Context, e *Engine, class transaction.AccountClass) error {
	tab := "Transfer Types"
	if class == transaction.Corporate {
		tab = "New transfer"
	}

	policy := retry.Policy{
		Transient: func(err error) bool {
			var timeout *wait.TimeoutError
			return errors.As(err, &timeout) || retry.Transient(err)
		},
	}
	err := retry.Perform(ctx, func(ctx context.Context) error {
		if err := e.ClickSecondaryNav(ctx, tab); err != nil {
			return err
		}
		probe := wait.ElementPresent(e.sess, e.site.LinkButton("In leva"))
		probe.Timeout = time.Second
		return e.await(ctx, probe)
	}, policy)
	if err != nil {
		return fmt.Errorf("opening the leva transfer form: %w", err)
	}

	if err := e.ClickLinkButton(ctx, "In leva"); err != nil {
		return err
	}
	return e.awaitPresent(ctx, e.site.PaymentForm)
}

func (LevaTransfer) fillForm(ctx context.Context, e *Engine, tx transaction.Request) error {
	if err := e.sess.Fill(ctx, e.site.LevaName, tx.Recipient.Name); err != nil {
		return fmt.Errorf("filling recipient name: %w", err)
	}
	if err := e.sess.Fill(ctx, e.site.LevaIBAN, tx.Recipient.IBAN); err != nil {
		return fmt.Errorf("filling IBAN: %w", err)
	}
	if err := e.sess.Fill(ctx, e.site.LevaAmount, tx.Amount); err != nil {
		return fmt.Errorf("filling amount: %w", err)
	}
	if err := e.sess.Fill(ctx, e.site.LevaDetails, tx.Description); err != nil {
		return fmt.Errorf("filling details: %w", err)
	}

	if tx.Origin != "" {
		code := transaction.FundOriginCode(tx.Origin)
		if code == "" {
			return fmt.Errorf("unknown funds origin %q", tx.Origin)
		}
		if err := e.sess.SelectOption(ctx, e.site.FundsOriginSelect, code); err != nil {
			return fmt.Errorf("declaring funds origin: %w", err)
		}
	}
	return nil
}
