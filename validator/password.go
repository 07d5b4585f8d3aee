package validator

import "unicode"

// Password policy: minimum length 8, letters, mixed case, digits, symbols.
// All rules must hold; the first violated rule's message is returned.

const passwordMinLen = 8

type passwordRule struct {
	ok      func(string) bool
	message string
}

var passwordRules = []passwordRule{
	{func(s string) bool { return len(s) >= passwordMinLen },
		"The password must be at least 8 characters."},
	{hasLetter, "The password must contain at least one letter."},
	{hasMixedCase, "The password must contain both uppercase and lowercase letters."},
	{hasDigit, "The password must contain at least one number."},
	{hasSymbol, "The password must contain at least one symbol."},
}

// CheckPassword returns the first violated policy message, or "" when the
// password satisfies the full policy.
func CheckPassword(password string) string {
	for _, rule := range passwordRules {
		if !rule.ok(password) {
			return rule.message
		}
	}
	return ""
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func hasMixedCase(s string) bool {
	var upper, lower bool
	for _, r := range s {
		if unicode.IsUpper(r) {
			upper = true
		}
		if unicode.IsLower(r) {
			lower = true
		}
	}
	return upper && lower
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasSymbol(s string) bool {
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return true
		}
	}
	return false
}
