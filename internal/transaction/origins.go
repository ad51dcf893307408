package transaction

// FundOrigin is one entry of the bank's fixed funds-origin catalogue. The
// remote form identifies origins by their numeric code.
type FundOrigin struct {
	Code  string
	Label string
}

// FundOrigins is the catalogue of declarable origins, in the order the remote
// select box lists them.
var FundOrigins = []FundOrigin{
	{"1", "Commercial activity"},
	{"2", "Agricultural activity"},
	{"3", "Personal labour services"},
	{"4", "Liberal profession services"},
	{"5", "Received loan"},
	{"6", "Real estate sale"},
	{"7", "Vehicle sale"},
	{"8", "Received rent"},
	{"9", "Donation"},
	{"10", "Savings"},
	{"11", "Inheritance"},
	{"12", "Labour remuneration"},
	{"13", "Dividend"},
	{"14", "Insurance paid"},
	{"15", "Deal with financial instruments"},
	{"16", "Other income from legal activity"},
}

// FundOriginCode returns the numeric code for an origin label, or "" when the
// label is not part of the catalogue.
func FundOriginCode(label string) string {
	for _, origin := range FundOrigins {
		if origin.Label == label {
			return origin.Code
		}
	}
	return ""
}
