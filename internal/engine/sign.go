package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bgwire/bgwire/internal/browser"
	"github.com/bgwire/bgwire/internal/transaction"
)

// ChallengeFunc obtains the operator's response to a one-time challenge. The
// prompt lives in the front end; the engine only cares about the answer.
type ChallengeFunc func(challenge string) (string, error)

// Sign releases the transfers pending on the remote system: selects them
// all, resolves inline funds-origin declarations, reads the one-time
// challenge and submits the operator's response. Corporate accounts separate
// signing from sending, so the pass repeats for the send action. A wrong
// response is surfaced verbatim; a one-time code is single-use, so the
// challenge itself is never retried automatically.
func (e *Engine) Sign(ctx context.Context, class transaction.AccountClass, respond ChallengeFunc) error {
	if err := e.Login(ctx); err != nil {
		return err
	}
	if err := e.SelectAccountClass(ctx, class); err != nil {
		return err
	}

	pending, err := e.openPendingView(ctx, class)
	if err != nil {
		return err
	}
	if !pending {
		e.printf("The %s account has no pending transfers.", class)
		return nil
	}

	// Phase 1: select everything and trigger the class-appropriate action.
	if err := e.selectAllTransfers(ctx); err != nil {
		return err
	}
	action := "Send"
	if class == transaction.Corporate {
		action = "Sign"
	}
	if err := e.ClickLinkButton(ctx, action); err != nil {
		return err
	}
	if err := e.awaitPresent(ctx, e.site.ResponseInput); err != nil {
		return err
	}
	if err := e.confirmFundsOriginDeclarations(ctx); err != nil {
		return err
	}

	// Phase 2: read the challenge, obtain and submit the response.
	challenge, err := e.sess.Text(ctx, e.site.Challenge)
	if err != nil {
		return fmt.Errorf("reading the signing challenge: %w", err)
	}
	response, err := respond(strings.TrimSpace(challenge))
	if err != nil {
		return err
	}
	if err := e.sess.Fill(ctx, e.site.ResponseInput, response); err != nil {
		return fmt.Errorf("filling the challenge response: %w", err)
	}
	if err := e.ClickLinkButton(ctx, "OK"); err != nil {
		return err
	}
	if err := e.AwaitSuccess(ctx); err != nil {
		return err
	}
	e.printMessages(ctx)

	if class != transaction.Corporate {
		return nil
	}

	// Corporate accounts separate signing from sending; run the send pass.
	if err := e.CloseDialog(ctx); err != nil {
		return err
	}
	if _, err := e.openPendingView(ctx, class); err != nil {
		return err
	}
	if err := e.selectAllTransfers(ctx); err != nil {
		return err
	}
	if err := e.ClickLinkButton(ctx, "Send"); err != nil {
		return err
	}
	if err := e.awaitVisible(ctx, e.site.LinkButton("OK")); err != nil {
		return err
	}
	if err := e.ClickLinkButton(ctx, "OK"); err != nil {
		return err
	}
	if err := e.AwaitSuccess(ctx); err != nil {
		return err
	}
	e.printMessages(ctx)
	return nil
}

// openPendingView navigates to the pending transfers tab and reports whether
// any transfers are waiting there.
func (e *Engine) openPendingView(ctx context.Context, class transaction.AccountClass) (bool, error) {
	if err := e.ClickMainNav(ctx, "transfers"); err != nil {
		return false, err
	}
	// The transfers page loads its tabs dynamically; wait for a button
	// that only renders once they work.
	marker := "Next"
	if class == transaction.Corporate {
		marker = "In leva"
	}
	if err := e.awaitPresent(ctx, e.site.LinkButton(marker)); err != nil {
		return false, err
	}
	if err := e.ClickSecondaryNav(ctx, "Pending"); err != nil {
		return false, err
	}
	if err := e.awaitPresent(ctx, e.site.PendingFilterToggle); err != nil {
		return false, err
	}
	return e.sess.Present(ctx, e.site.PendingPayerRows)
}

// selectAllTransfers expands the pending table and checks every row.
func (e *Engine) selectAllTransfers(ctx context.Context) error {
	if err := e.ClickLinkButton(ctx, "Show all"); err != nil {
		return err
	}
	if err := e.awaitInvisible(ctx, e.site.LoadingOverlay); err != nil {
		return err
	}
	return e.ClickLinkButton(ctx, "Select all")
}

// confirmFundsOriginDeclarations resolves the per-item funds-origin
// sub-dialogs the preview demands inline before signing.
func (e *Engine) confirmFundsOriginDeclarations(ctx context.Context) error {
	rows, err := e.sess.Find(ctx, e.site.SignPreviewRows)
	if err != nil {
		return fmt.Errorf("inspecting the signing preview: %w", err)
	}
	declarations := 0
	for range rows {
		// Re-resolve the link each pass: confirming one declaration
		// replaces the preview table and stales the old handles.
		link, err := e.sess.FindOne(ctx, e.site.DirtyMoneyLink)
		if errors.Is(err, browser.ErrNoSuchElement) {
			break
		}
		if err != nil {
			return fmt.Errorf("locating funds-origin declaration: %w", err)
		}
		if err := link.Click(ctx); err != nil {
			return fmt.Errorf("opening funds-origin declaration: %w", err)
		}
		if err := e.awaitPresent(ctx, e.site.DirtyMoneyForm); err != nil {
			return err
		}
		if err := e.sess.Click(ctx, e.site.DirtyMoneySend); err != nil {
			return fmt.Errorf("confirming funds-origin declaration: %w", err)
		}
		if err := e.awaitAbsent(ctx, e.site.DirtyMoneyForm); err != nil {
			return err
		}
		declarations++
	}
	if declarations > 0 {
		e.printf("Confirmed %d funds-origin declaration(s).", declarations)
	}
	return nil
}

func (e *Engine) printMessages(ctx context.Context) {
	for _, message := range e.Messages(ctx) {
		e.printf("%s", message)
	}
}
