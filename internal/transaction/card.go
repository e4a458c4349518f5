package transaction

import (
	"regexp"
	"strings"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

// normalizeCardNumber strips the spacing conventions cardholders type in.
func normalizeCardNumber(number string) string {
	number = strings.ReplaceAll(number, " ", "")
	return strings.ReplaceAll(number, "-", "")
}

// lastFour returns the only card digits allowed to be persisted.
func lastFour(number string) string {
	digits := normalizeCardNumber(number)
	if len(digits) < 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// validCardNumber checks length, digits and the Luhn checksum.
func validCardNumber(number string) bool {
	digits := normalizeCardNumber(number)
	if len(digits) < 12 || len(digits) > 19 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return passesLuhn(digits)
}

// passesLuhn implements the standard mod 10 checksum.
func passesLuhn(number string) bool {
	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		n := int(number[i] - '0')
		if alternate {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alternate = !alternate
	}
	return sum%10 == 0
}

// validExpiry checks the MM/YY format.
func validExpiry(expiry string) bool {
	return expiryPattern.MatchString(expiry)
}
