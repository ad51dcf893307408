// Package engine drives batches of transfers through the remote banking UI:
// the batch execution state machine, the signing challenge flow, and the
// navigation and recovery routines they share. All waiting goes through the
// condition poller and all fragile interactions through the recovery
// supervisor; fixed sleeps are deliberately absent.
package engine

import (
	"github.com/bgwire/bgwire/internal/browser"
	"github.com/bgwire/bgwire/internal/transaction"
)

// SiteMap bundles every selector, field locator and label for one version of
// the remote UI. The site changes shape across deployments; keeping the
// mapping in one value per version confines the drift to this file.
type SiteMap struct {
	// Login.
	LoginUser        browser.Selector
	LoginPass        browser.Selector
	LoginSubmit      browser.Selector
	ProfileSelection browser.Selector

	// Account class (profile) selection. The buttons appear before their
	// click handlers are bound; AccountClassBinding names the view model
	// to wait for.
	AccountClassButton  func(class transaction.AccountClass) browser.Selector
	AccountClassBinding string

	// Navigation.
	MainNav          browser.Selector
	MainNavLink      func(title string) browser.Selector
	SecondaryNavLink func(title string) browser.Selector
	LinkButton       func(text string) browser.Selector

	// Global page state.
	LoadingOverlay browser.Selector
	SuccessMessage browser.Selector
	DialogByID     func(id string) browser.Selector
	DialogClose    browser.Selector

	// Source-account chooser modal.
	ModalContent  browser.Selector
	ModalBackdrop browser.Selector
	AccountRow    func(account string) browser.Selector
	AccountChosen browser.Selector

	// Domestic (leva) transfer form.
	PaymentForm       browser.Selector
	LevaName          browser.Selector
	LevaIBAN          browser.Selector
	LevaAmount        browser.Selector
	LevaDetails       browser.Selector
	FundsOriginSelect browser.Selector

	// Foreign currency transfer form.
	ForeignMenu         browser.Selector
	ForeignFormLink     browser.Selector
	PayeeName           browser.Selector
	PayeeAccount        browser.Selector
	PayeeAddress        browser.Selector
	PayeeBankSWIFT      browser.Selector
	ForeignAmount       browser.Selector
	ForeignDescription  browser.Selector
	CurrencyPicker      browser.Selector
	CurrencyOption      func(currency string) browser.Selector
	CountryPicker       browser.Selector
	OperationTypeButton browser.Selector
	OperationTypeSelect browser.Selector
	OperationCodePick   browser.Selector
	OperationTypeOK     browser.Selector
	ForeignSave         browser.Selector
	ForeignSaveResult   browser.Selector

	// Pending transfers (signing) view.
	PendingFilterToggle browser.Selector
	PendingPayerRows    browser.Selector
	SignPreviewRows     browser.Selector
	DirtyMoneyLink      browser.Selector
	DirtyMoneyForm      browser.Selector
	DirtyMoneySend      browser.Selector
	Challenge           browser.Selector
	ResponseInput       browser.Selector
	ResultMessages      browser.Selector

	// CampaignDialogID is the dialog the marketing banner renders in.
	CampaignDialogID string

	// mainNavTitles maps case-insensitive link names to the title
	// attribute the site actually uses; the capitalization is not
	// consistent across menu entries.
	MainNavTitles map[string]string
}

// SiteV2 maps the current production UI.
var SiteV2 = &SiteMap{
	LoginUser:        browser.XPath(`//input[contains(@data-bind, "Model.UserName") and contains(@id, "Model_UserName")]`),
	LoginPass:        browser.XPath(`//input[contains(@data-bind, "Model.Password") and contains(@id, "Model_Password")]`),
	LoginSubmit:      browser.CSS(".btn-login"),
	ProfileSelection: browser.CSS(".profile-selection"),

	AccountClassButton: func(class transaction.AccountClass) browser.Selector {
		return browser.XPath(`//button[contains(@data-bind, "` + string(class) + `")]`)
	},
	AccountClassBinding: "ChooseThemeViewModel",

	MainNav: browser.XPath(`//nav[contains(@class, "nav-main") and not(contains(@class, "nav-mobile"))]`),
	MainNavLink: func(title string) browser.Selector {
		return browser.XPath(`//nav[contains(@class, "nav-main") and not(contains(@class, "nav-mobile"))]//a[span[@title = "` + title + `"]]`)
	},
	SecondaryNavLink: func(title string) browser.Selector {
		return browser.XPath(`//ul[contains(concat(" ", normalize-space(@class), " "), " nav-tabs ")]//a[span[@title = "` + title + `"]]`)
	},
	LinkButton: func(text string) browser.Selector {
		return browser.XPath(`//button[contains(concat(" ", normalize-space(@class), " "), " btn-primary ") and .//span[normalize-space(text()) = "` + text + `"]]`)
	},

	LoadingOverlay: browser.CSS(".overlay-loading"),
	SuccessMessage: browser.CSS(".status-container .text-success"),
	DialogByID: func(id string) browser.Selector {
		return browser.CSS("#" + id)
	},
	DialogClose: browser.CSS("button.close"),

	ModalContent:  browser.XPath(`//div[@class = "modal-content"]`),
	ModalBackdrop: browser.XPath(`//div[contains(@class, "modal-backdrop")]`),
	AccountRow: func(account string) browser.Selector {
		return browser.XPath(`//div[@class = "modal-content"]//tr[@data-selectionmode = "Single" and .//span[text() = "` + account + `"]]`)
	},
	AccountChosen: browser.XPath(`//span[normalize-space(text()) = "Choose a different account"]`),

	PaymentForm:       browser.CSS(".pmt-form"),
	LevaName:          browser.XPath(`//div[contains(@class, "pmt-form")]//label[normalize-space(text()) = "Name"]/following::input[1]`),
	LevaIBAN:          browser.XPath(`//div[contains(@class, "pmt-form")]//label[normalize-space(text()) = "IBAN"]/following::input[1]`),
	LevaAmount:        browser.XPath(`//div[contains(@class, "pmt-form")]//label[normalize-space(text()) = "Amount"]/following::input[1]`),
	LevaDetails:       browser.XPath(`//div[contains(@class, "pmt-form")]//label[normalize-space(text()) = "Details"]/following::input[1]`),
	FundsOriginSelect: browser.XPath(`//select[contains(@id, "Model_DirtyMoney_Model_DirtyMoney")]`),

	ForeignMenu:        browser.CSS("#NewPaymentTypes"),
	ForeignFormLink:    browser.XPath(`//a[normalize-space(text()) = "In foreign currency"]`),
	PayeeName:          browser.CSS(`input[name="Document.PayeeName"]`),
	PayeeAccount:       browser.CSS(`input[name="Document.PayeeAccountNumber"]`),
	PayeeAddress:       browser.CSS(`input[name="Document.PayeeAddress"]`),
	PayeeBankSWIFT:     browser.CSS(`input[name="Document.PayeeBankSWIFT"]`),
	ForeignAmount:      browser.CSS(`input[name="Document.Amount"]`),
	ForeignDescription: browser.CSS(`input[name="Document.Description"]`),
	CurrencyPicker:     browser.CSS("#CCYPicker-button"),
	CurrencyOption: func(currency string) browser.Selector {
		return browser.XPath(`//a[normalize-space(text()) = "` + currency + `"]`)
	},
	CountryPicker:       browser.XPath(`//select[@name = "Document.PayeeBankCountryPicker"]`),
	OperationTypeButton: browser.CSS("#FCCYOpCodeSelector"),
	// The operation type dialog has no identifier of its own.
	OperationTypeSelect: browser.XPath(`//div[@aria-labelledby="ui-dialog-title-1"]/div/fieldset[@class="col1"]/div[@class="column"][1]/select`),
	OperationCodePick:   browser.XPath(`//select[@id = "OpCodePick"]`),
	OperationTypeOK:     browser.XPath(`//div[@aria-labelledby="ui-dialog-title-1"]/div/div/button`),
	ForeignSave:         browser.CSS("#btnSave"),
	ForeignSaveResult:   browser.CSS("#SaveOKResultHolder"),

	PendingFilterToggle: browser.XPath(`//a[contains(@data-bind, "filterToggler")]`),
	PendingPayerRows:    browser.XPath(`//table//tr//span[contains(@data-bind, "Payment.PayerName")]`),
	SignPreviewRows:     browser.CSS("#SignSendPreview > table tr"),
	DirtyMoneyLink:      browser.CSS("a.dirtyMoney"),
	DirtyMoneyForm:      browser.CSS("#DirtyMoneyDeclarationForm"),
	DirtyMoneySend:      browser.XPath(`//button[@name = "sendDirtyMontdlnk"]`),
	Challenge:           browser.XPath(`//span[contains(@data-bind, "Model.Challenge")]`),
	ResponseInput:       browser.CSS("input#id_Model_Response"),
	ResultMessages:      browser.XPath(`//span[@data-bind = "text: Message"]`),

	CampaignDialogID: "CampaignsContent",

	MainNavTitles: map[string]string{
		"home":        "home",
		"transfers":   "Transfers",
		"accounts":    "accounts",
		"cards":       "cards",
		"loans":       "loans",
		"deposits":    "deposits",
		"investments": "investments",
		"offers":      "offers",
		"forms":       "forms",
		"financing":   "financing",
	},
}
