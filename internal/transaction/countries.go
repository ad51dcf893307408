package transaction

import "sort"

// countryCodes maps recipient country names to the ISO 3166-1 numeric codes
// the remote country picker uses as option values.
var countryCodes = map[string]string{
	"Austria":        "040",
	"Belgium":        "056",
	"Bulgaria":       "100",
	"Croatia":        "191",
	"Cyprus":         "196",
	"Czech Republic": "203",
	"Denmark":        "208",
	"Estonia":        "233",
	"Finland":        "246",
	"France":         "250",
	"Germany":        "276",
	"Greece":         "300",
	"Hungary":        "348",
	"Iceland":        "352",
	"Ireland":        "372",
	"Italy":          "380",
	"Latvia":         "428",
	"Liechtenstein":  "438",
	"Lithuania":      "440",
	"Luxembourg":     "442",
	"Malta":          "470",
	"Netherlands":    "528",
	"North Macedonia": "807",
	"Norway":         "578",
	"Poland":         "616",
	"Portugal":       "620",
	"Romania":        "642",
	"Serbia":         "688",
	"Slovakia":       "703",
	"Slovenia":       "705",
	"Spain":          "724",
	"Sweden":         "752",
	"Switzerland":    "756",
	"Turkey":         "792",
	"United Kingdom": "826",
	"United States":  "840",
}

// CountryNames returns all recognized country names, sorted, for prompt
// autocompletion.
func CountryNames() []string {
	names := make([]string, 0, len(countryCodes))
	for name := range countryCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CountryCode returns the ISO numeric code for a country name, or "" when the
// country is not recognized.
func CountryCode(name string) string {
	return countryCodes[name]
}

// ValidCountry reports whether the country name is recognized.
func ValidCountry(name string) bool {
	_, ok := countryCodes[name]
	return ok
}
