package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountClass(t *testing.T) {
	for _, input := range []string{"individual", "Individual", " INDIVIDUAL "} {
		class, err := ParseAccountClass(input)
		require.NoError(t, err, input)
		assert.Equal(t, Individual, class)
	}
	class, err := ParseAccountClass("corporate")
	require.NoError(t, err)
	assert.Equal(t, Corporate, class)

	_, err = ParseAccountClass("business")
	assert.Error(t, err)
}

func TestValidateAmount(t *testing.T) {
	valid := []string{"0.01", "1.00", "123.45", "30000.00", "1000000.99"}
	for _, raw := range valid {
		_, err := ValidateAmount(raw)
		assert.NoError(t, err, raw)
	}

	invalid := []string{
		"", "12", "12.3", "12.345", ".45", "12,45", "-1.00",
		" 12.45", "12.45 ", "1e3", "12.45.67", "abc",
	}
	for _, raw := range invalid {
		_, err := ValidateAmount(raw)
		assert.ErrorIs(t, err, ErrAmountFormat, "%q", raw)
	}

	_, err := ValidateAmount("0.00")
	assert.ErrorIs(t, err, ErrAmountNotPositive)
}

func TestRequiresFundsOrigin(t *testing.T) {
	at := func(raw string) bool {
		amount, err := ValidateAmount(raw)
		require.NoError(t, err)
		return RequiresFundsOrigin(amount, DomesticCurrency)
	}
	assert.False(t, at("29999.99"))
	assert.False(t, at("30000.00"), "the threshold itself needs no declaration")
	assert.True(t, at("30000.01"))

	// The rule is a domestic-currency regulation.
	huge, err := ValidateAmount("999999.00")
	require.NoError(t, err)
	assert.False(t, RequiresFundsOrigin(huge, "EUR"))
}

func TestValidateDescription(t *testing.T) {
	assert.NoError(t, ValidateDescription("rent for march"))
	assert.Error(t, ValidateDescription(""))
	assert.Error(t, ValidateDescription(" rent"))
	assert.Error(t, ValidateDescription("rent "))
}

func TestRecipientDomestic(t *testing.T) {
	assert.True(t, Recipient{IBAN: "BG80BNBG96611020345678"}.Domestic())
	assert.True(t, Recipient{IBAN: "bg80bnbg96611020345678"}.Domestic())
	assert.False(t, Recipient{IBAN: "DE89370400440532013000"}.Domestic())
	assert.False(t, Recipient{IBAN: ""}.Domestic())
}

func TestRequestValidate(t *testing.T) {
	base := Request{
		ID:          "x",
		Recipient:   Recipient{Name: "Ivan Petrov", IBAN: "BG80BNBG96611020345678"},
		Amount:      "100.00",
		Currency:    DomesticCurrency,
		Description: "rent",
	}
	require.NoError(t, base.Validate())

	missingName := base
	missingName.Recipient.Name = ""
	assert.Error(t, missingName.Validate())

	overThreshold := base
	overThreshold.Amount = "30000.01"
	assert.Error(t, overThreshold.Validate(), "above the threshold an origin is mandatory")

	overThreshold.Origin = "Savings"
	assert.NoError(t, overThreshold.Validate())

	foreignLarge := base
	foreignLarge.Amount = "50000.00"
	foreignLarge.Currency = "EUR"
	assert.NoError(t, foreignLarge.Validate())
}

func TestRequestEqualIsValueIdentity(t *testing.T) {
	a := Request{
		ID:          "x",
		Recipient:   Recipient{Name: "Ivan", IBAN: "BG80BNBG96611020345678"},
		Amount:      "100.00",
		Currency:    DomesticCurrency,
		Description: "rent",
	}
	b := a
	assert.True(t, a.Equal(b))

	b.Amount = "100.01"
	assert.False(t, a.Equal(b))
}

func TestFundOriginCatalogue(t *testing.T) {
	require.Len(t, FundOrigins, 16)
	seen := make(map[string]bool)
	for _, origin := range FundOrigins {
		assert.NotEmpty(t, origin.Label)
		assert.Equal(t, FundOriginCode(origin.Label), origin.Code)
		assert.False(t, seen[origin.Code], "duplicate code %s", origin.Code)
		seen[origin.Code] = true
	}
	assert.Equal(t, "", FundOriginCode("not a real origin"))
}

func TestValidIBAN(t *testing.T) {
	valid := []string{
		"BG80BNBG96611020345678",
		"DE89370400440532013000",
		"GB82WEST12345698765432",
		"FR1420041010050500013M02606",
		"BG80 BNBG 9661 1020 3456 78", // grouping spaces are tolerated
	}
	for _, iban := range valid {
		assert.True(t, ValidIBAN(iban), iban)
	}

	invalid := []string{
		"",
		"BG80BNBG96611020345679", // checksum off by one
		"BG80BNBG96611020",       // truncated, checksum cannot hold
		"1234567890123456",       // no country prefix
		"BG80-BNBG-9661-1020",
	}
	for _, iban := range invalid {
		assert.False(t, ValidIBAN(iban), iban)
	}
}

func TestCountryCodes(t *testing.T) {
	assert.Equal(t, "056", CountryCode("Belgium"))
	assert.Equal(t, "", CountryCode("Atlantis"))
	assert.False(t, ValidCountry("Atlantis"))
	assert.True(t, ValidCountry("Germany"))

	names := CountryNames()
	require.NotEmpty(t, names)
	assert.IsType(t, "", names[0])
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i], "names must be sorted")
	}
}
