package transaction

import (
	"strings"
)

// ValidIBAN reports whether the given string passes the ISO 13616 mod-97
// checksum. It accepts IBANs with or without grouping spaces.
func ValidIBAN(iban string) bool {
	iban = strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if len(iban) < 15 || len(iban) > 34 {
		return false
	}
	for _, r := range iban {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	// Country code must be alphabetic, check digits numeric.
	if iban[0] < 'A' || iban[1] < 'A' || iban[2] > '9' || iban[3] > '9' {
		return false
	}

	// Move the first four characters to the end, substitute letters with
	// their numeric values (A=10..Z=35) and compute the remainder mod 97
	// incrementally to avoid big integers.
	rearranged := iban[4:] + iban[:4]
	remainder := 0
	for _, r := range rearranged {
		if r >= 'A' {
			value := int(r-'A') + 10
			remainder = (remainder*100 + value) % 97
		} else {
			remainder = (remainder*10 + int(r-'0')) % 97
		}
	}
	return remainder == 1
}
