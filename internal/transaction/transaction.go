// Package transaction holds the domain types shared by the collection front
// end, the durable queue and the execution engine: transfer requests, the
// recipient address-book entry, account classes and the validation rules that
// gate a request before it is accepted into a batch.
package transaction

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountClass distinguishes the individual and corporate banking profiles.
// The remote UI exposes different navigation and signing flows for each.
type AccountClass string

const (
	Individual AccountClass = "individual"
	Corporate  AccountClass = "corporate"
)

// ParseAccountClass validates an account class argument.
func ParseAccountClass(s string) (AccountClass, error) {
	switch AccountClass(strings.ToLower(strings.TrimSpace(s))) {
	case Individual:
		return Individual, nil
	case Corporate:
		return Corporate, nil
	}
	return "", fmt.Errorf("invalid account class %q (expected %q or %q)", s, Individual, Corporate)
}

// FundsOriginThreshold is the domestic-currency amount above which the bank
// requires a declaration of the origin of the funds.
var FundsOriginThreshold = decimal.RequireFromString("30000.00")

// DomesticCurrency is the currency for which the funds-origin rule applies.
const DomesticCurrency = "BGN"

// Recipient is an address-book entry. BIC, Address and Country are only
// required for recipients outside Bulgaria.
type Recipient struct {
	Alias   string `yaml:"alias,omitempty"`
	Name    string `yaml:"name"`
	IBAN    string `yaml:"iban"`
	BIC     string `yaml:"bic,omitempty"`
	Address string `yaml:"address,omitempty"`
	Country string `yaml:"country,omitempty"`
}

// Domestic reports whether the recipient holds a Bulgarian account.
func (r Recipient) Domestic() bool {
	return strings.HasPrefix(strings.ToUpper(r.IBAN), "BG")
}

// Request is a single transfer waiting to be executed against the remote
// system. Amount is kept in its canonical two-fraction-digit string form so
// that a request round-trips byte-for-byte through the queue file and can be
// matched by value equality on removal.
type Request struct {
	ID          string    `yaml:"id"`
	Recipient   Recipient `yaml:"recipient"`
	Amount      string    `yaml:"amount"`
	Currency    string    `yaml:"currency"`
	Origin      string    `yaml:"origin,omitempty"`
	Description string    `yaml:"description"`
}

// AmountDecimal parses the canonical amount. Only valid on a validated
// request.
func (r Request) AmountDecimal() decimal.Decimal {
	return decimal.RequireFromString(r.Amount)
}

// Equal reports value equality, the identity used by the queue store when a
// confirmed request is removed.
func (r Request) Equal(other Request) bool {
	return r == other
}

var amountPattern = regexp.MustCompile(`^[0-9]+\.[0-9]{2}$`)

// ErrAmountFormat rejects amounts that are not expressed with exactly two
// fraction digits, or that carry surrounding whitespace.
var ErrAmountFormat = errors.New(`the amount must be in the format "123.45"`)

// ErrAmountNotPositive rejects zero and negative amounts.
var ErrAmountNotPositive = errors.New("the amount must be greater than zero")

// ValidateAmount checks a raw operator-supplied amount. Whitespace is not
// trimmed: a padded amount is an input mistake and is rejected outright.
func ValidateAmount(raw string) (decimal.Decimal, error) {
	if !amountPattern.MatchString(raw) {
		return decimal.Decimal{}, ErrAmountFormat
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, ErrAmountFormat
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, ErrAmountNotPositive
	}
	return amount, nil
}

// RequiresFundsOrigin reports whether a funds-origin declaration is mandatory
// for the given amount and currency.
func RequiresFundsOrigin(amount decimal.Decimal, currency string) bool {
	return currency == DomesticCurrency && amount.GreaterThan(FundsOriginThreshold)
}

// ValidateDescription rejects empty descriptions and surrounding whitespace.
func ValidateDescription(raw string) error {
	if raw == "" {
		return errors.New("the description must not be empty")
	}
	if strings.TrimSpace(raw) != raw {
		return errors.New("the description must not have leading or trailing whitespace")
	}
	return nil
}

// Validate checks the request invariants: positive two-fraction-digit amount,
// non-empty description, and a funds-origin declaration whenever the amount
// exceeds the domestic threshold.
func (r Request) Validate() error {
	amount, err := ValidateAmount(r.Amount)
	if err != nil {
		return err
	}
	if err := ValidateDescription(r.Description); err != nil {
		return err
	}
	if r.Recipient.Name == "" || r.Recipient.IBAN == "" {
		return errors.New("the recipient must have a name and an IBAN")
	}
	if RequiresFundsOrigin(amount, r.Currency) && r.Origin == "" {
		return fmt.Errorf("transfers above %s %s require a funds-origin declaration",
			FundsOriginThreshold.StringFixed(2), DomesticCurrency)
	}
	return nil
}
