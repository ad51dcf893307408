package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bgwire/bgwire/internal/browser"
	"github.com/bgwire/bgwire/internal/queue"
	"github.com/bgwire/bgwire/internal/retry"
	"github.com/bgwire/bgwire/internal/transaction"
	"github.com/bgwire/bgwire/internal/wait"
)

// Credentials authenticate the remote session.
type Credentials struct {
	Username string
	Password string
}

// Config assembles an Engine. Session, Site and Store are required.
type Config struct {
	Session *browser.Session
	Site    *SiteMap
	Store   *queue.Store
	Out     io.Writer

	BaseURL     string
	Credentials Credentials

	// WaitTimeout and PollInterval override the poller defaults.
	WaitTimeout  time.Duration
	PollInterval time.Duration
}

// Engine owns the single remote session for the duration of one command
// invocation and drives batches through it one transaction at a time.
type Engine struct {
	sess  *browser.Session
	site  *SiteMap
	store *queue.Store
	out   io.Writer

	baseURL string
	creds   Credentials

	waitTimeout  time.Duration
	pollInterval time.Duration

	loggedIn bool
}

func New(cfg Config) *Engine {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	return &Engine{
		sess:         cfg.Session,
		site:         cfg.Site,
		store:        cfg.Store,
		out:          out,
		baseURL:      cfg.BaseURL,
		creds:        cfg.Credentials,
		waitTimeout:  cfg.WaitTimeout,
		pollInterval: cfg.PollInterval,
	}
}

// Close tears down the remote session.
func (e *Engine) Close(ctx context.Context) error {
	return e.sess.Close(ctx)
}

// await runs a condition through the poller with the engine's configured
// timing applied where the condition does not carry its own.
func (e *Engine) await(ctx context.Context, cond wait.Condition) error {
	if cond.Timeout <= 0 {
		cond.Timeout = e.waitTimeout
	}
	if cond.PollInterval <= 0 {
		cond.PollInterval = e.pollInterval
	}
	return wait.Await(ctx, cond)
}

func (e *Engine) awaitPresent(ctx context.Context, sel browser.Selector) error {
	return e.await(ctx, wait.ElementPresent(e.sess, sel))
}

func (e *Engine) awaitAbsent(ctx context.Context, sel browser.Selector) error {
	return e.await(ctx, wait.ElementAbsent(e.sess, sel))
}

func (e *Engine) awaitVisible(ctx context.Context, sel browser.Selector) error {
	return e.await(ctx, wait.ElementVisible(e.sess, sel))
}

func (e *Engine) awaitInvisible(ctx context.Context, sel browser.Selector) error {
	return e.await(ctx, wait.ElementInvisible(e.sess, sel))
}

// awaitBinding waits for the element matched by the XPath selector to have
// the given Knockout view model bound to it. Buttons exist in the DOM before
// their click handlers do; clicking early is a silent no-op.
func (e *Engine) awaitBinding(ctx context.Context, sel browser.Selector, viewModel string) error {
	script := `
		var node = document.evaluate(` + jsString(sel.Value) + `, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		if (!node || !window.require || !require.s.contexts._.defined.knockout) { return false; }
		var data = require('knockout').dataFor(node);
		return !!data && data.constructor.name === ` + jsString(viewModel) + `;`
	return e.await(ctx, wait.Condition{
		Kind: wait.Binding,
		Desc: fmt.Sprintf("%s on %s", viewModel, sel),
		Probe: func(ctx context.Context) (bool, error) {
			return e.sess.ExecuteBool(ctx, script)
		},
	})
}

func jsString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// dialogPolicy is the default recovery policy: a dialog (security warning,
// marketing banner) can pop up at any moment and obscure the interaction
// target.
func (e *Engine) dialogPolicy() retry.Policy {
	return retry.Policy{Recover: e.CloseDialog}
}

// CloseDialog dismisses whatever dialog is currently open, if any, and
// confirms it is gone before returning so the retried action does not race
// the same obstruction. A close control that disappears mid-interaction
// means the dialog already went away.
func (e *Engine) CloseDialog(ctx context.Context) error {
	present, err := e.sess.Present(ctx, e.site.DialogClose)
	if err != nil || !present {
		return err
	}

	// The close button may still be fading in; poll the click until it
	// lands instead of sleeping.
	err = e.await(ctx, wait.Condition{
		Kind: wait.Visibility,
		Desc: "dismissal of open dialog",
		Probe: func(ctx context.Context) (bool, error) {
			err := e.sess.Click(ctx, e.site.DialogClose)
			switch {
			case err == nil:
				return true, nil
			case errors.Is(err, browser.ErrNoSuchElement), errors.Is(err, browser.ErrStaleElement):
				// Dialog disappeared on its own.
				return true, nil
			case errors.Is(err, browser.ErrNotVisible):
				return false, nil
			}
			return false, err
		},
	})
	if err != nil {
		return fmt.Errorf("dismissing dialog: %w", err)
	}

	// Wait for the dialog to fade out.
	if err := e.awaitInvisible(ctx, e.site.DialogClose); err != nil {
		return fmt.Errorf("dialog did not disappear after dismissal: %w", err)
	}
	return nil
}

// closeDialogByID dismisses the dialog with the given id if it is present.
func (e *Engine) closeDialogByID(ctx context.Context, id string) error {
	present, err := e.sess.Present(ctx, e.site.DialogByID(id))
	if err != nil || !present {
		return err
	}
	return e.CloseDialog(ctx)
}

// Login opens the base URL and authenticates, leaving the session at the
// profile selection screen. A security warning can obscure the form at any
// point during the procedure; the whole sequence is retried under the
// supervisor. Login is idempotent per engine run.
func (e *Engine) Login(ctx context.Context) error {
	if e.loggedIn {
		return nil
	}
	if err := e.sess.Open(ctx, e.baseURL); err != nil {
		return fmt.Errorf("opening %s: %w", e.baseURL, err)
	}
	err := retry.Perform(ctx, func(ctx context.Context) error {
		if err := e.awaitPresent(ctx, e.site.LoginUser); err != nil {
			return err
		}
		if err := e.sess.Fill(ctx, e.site.LoginUser, e.creds.Username); err != nil {
			return err
		}
		if err := e.sess.Fill(ctx, e.site.LoginPass, e.creds.Password); err != nil {
			return err
		}
		if err := e.sess.Click(ctx, e.site.LoginSubmit); err != nil {
			return err
		}
		return e.awaitPresent(ctx, e.site.ProfileSelection)
	}, e.dialogPolicy())
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	e.loggedIn = true
	return nil
}

// SelectAccountClass picks the individual or corporate profile after login
// and dismisses the marketing banner that tends to greet it.
func (e *Engine) SelectAccountClass(ctx context.Context, class transaction.AccountClass) error {
	button := e.site.AccountClassButton(class)
	if err := e.awaitBinding(ctx, button, e.site.AccountClassBinding); err != nil {
		return fmt.Errorf("selecting %s profile: %w", class, err)
	}
	if err := e.sess.Click(ctx, button); err != nil {
		return fmt.Errorf("selecting %s profile: %w", class, err)
	}
	if err := e.awaitPresent(ctx, e.site.MainNav); err != nil {
		return fmt.Errorf("selecting %s profile: %w", class, err)
	}
	if err := e.closeDialogByID(ctx, e.site.CampaignDialogID); err != nil {
		return fmt.Errorf("closing campaign dialog: %w", err)
	}
	return nil
}

// ClickMainNav clicks a main navigation entry by its case-insensitive name.
func (e *Engine) ClickMainNav(ctx context.Context, name string) error {
	title, ok := e.site.MainNavTitles[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown main navigation link %q", name)
	}
	err := retry.Perform(ctx, func(ctx context.Context) error {
		return e.sess.Click(ctx, e.site.MainNavLink(title))
	}, e.dialogPolicy())
	if err != nil {
		return fmt.Errorf("clicking main navigation link %q: %w", name, err)
	}
	return nil
}

// NavigateHome returns to the homepage through the menu icon; navigating to
// the URL directly would drop the session token the site passes around in it.
func (e *Engine) NavigateHome(ctx context.Context) error {
	return e.ClickMainNav(ctx, "home")
}

// ClickSecondaryNav clicks a tab in the secondary navigation.
func (e *Engine) ClickSecondaryNav(ctx context.Context, title string) error {
	err := retry.Perform(ctx, func(ctx context.Context) error {
		return e.sess.Click(ctx, e.site.SecondaryNavLink(title))
	}, e.dialogPolicy())
	if err != nil {
		return fmt.Errorf("clicking secondary navigation link %q: %w", title, err)
	}
	return nil
}

// ClickLinkButton clicks the primary button carrying the given label, waiting
// for it to become visible first. The page may replace the DOM under the
// interaction at any time; stale handles and obscuring dialogs are retried.
func (e *Engine) ClickLinkButton(ctx context.Context, label string) error {
	sel := e.site.LinkButton(label)
	if err := e.awaitVisible(ctx, sel); err != nil {
		return err
	}
	err := retry.Perform(ctx, func(ctx context.Context) error {
		return e.sess.ClickVisible(ctx, sel)
	}, e.dialogPolicy())
	if err != nil {
		return fmt.Errorf("clicking button %q: %w", label, err)
	}
	return nil
}

// ChooseAccount selects the source account, named like "1234567890 BGN", in
// the account chooser modal.
func (e *Engine) ChooseAccount(ctx context.Context, account string) error {
	if err := e.ClickLinkButton(ctx, "Choose an account from the list"); err != nil {
		return err
	}

	row := e.site.AccountRow(account)
	if err := e.awaitPresent(ctx, e.site.ModalContent); err != nil {
		return err
	}
	if err := e.awaitVisible(ctx, e.site.ModalContent); err != nil {
		return err
	}
	if err := e.awaitPresent(ctx, row); err != nil {
		return fmt.Errorf("account %q not offered in the chooser: %w", account, err)
	}
	if err := e.sess.Click(ctx, row); err != nil {
		return fmt.Errorf("selecting account %q: %w", account, err)
	}

	// Wait for the modal to go away and the chosen account to show.
	if err := e.awaitAbsent(ctx, e.site.ModalBackdrop); err != nil {
		return err
	}
	return e.awaitPresent(ctx, e.site.AccountChosen)
}

// AwaitSuccess waits for the page's success message container.
func (e *Engine) AwaitSuccess(ctx context.Context) error {
	return e.awaitPresent(ctx, e.site.SuccessMessage)
}

// Messages returns the result messages the page is currently showing.
func (e *Engine) Messages(ctx context.Context) []string {
	elements, err := e.sess.Find(ctx, e.site.ResultMessages)
	if err != nil {
		return nil
	}
	var messages []string
	for _, element := range elements {
		text, err := element.Text(ctx)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			messages = append(messages, text)
		}
	}
	return messages
}

func (e *Engine) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format+"\n", args...)
}
