package dataprocessing

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	UnknownCustomer   = "Unknown"
	UnknownEmail      = "Unknown"
	InvalidEmailLabel = "Invalid email given"
	OtherProduct      = "Other"

	invalidEmailMarker = "invalid"
)

// productNames maps raw product codes to display names
var productNames = map[string]string{
	"laptop A": "MacBook Pro",
	"laptop B": "HP Envy",
	"laptop C": "Dell Inspiron",
	"laptop D": "Lenovo IdeaPad",
}

// ProductName maps a raw product code to its display name. Unknown and
// empty codes map to "Other"; the second result reports whether the code
// was known.
func ProductName(code string) (string, bool) {
	if name, ok := productNames[code]; ok {
		return name, true
	}
	return OtherProduct, false
}

// NormalizeEmail substitutes placeholders for missing and known-bad
// addresses. Anything else is returned unchanged.
func NormalizeEmail(email string) string {
	switch email {
	case "":
		return UnknownEmail
	case invalidEmailMarker:
		return InvalidEmailLabel
	default:
		return email
	}
}

// customerNormalizer title-cases customer names. A cases.Caser keeps state,
// so one normalizer must not be shared between goroutines.
type customerNormalizer struct {
	caser cases.Caser
}

func newCustomerNormalizer() *customerNormalizer {
	return &customerNormalizer{caser: cases.Title(language.English)}
}

// Normalize trims the name, replaces a blank name with "Unknown" and title
// cases the rest. A letter following an apostrophe starts a new word, so
// "O'NEIL" becomes "O'Neil".
func (n *customerNormalizer) Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return UnknownCustomer
	}
	return upperAfterApostrophe(n.caser.String(name))
}

func upperAfterApostrophe(s string) string {
	if !strings.ContainsAny(s, "'’") {
		return s
	}
	runes := []rune(s)
	for i := 1; i < len(runes); i++ {
		if runes[i-1] == '\'' || runes[i-1] == '’' {
			runes[i] = unicode.ToUpper(runes[i])
		}
	}
	return string(runes)
}

// numberIssue describes why a raw number was replaced with zero
type numberIssue string

const (
	numberOK          numberIssue = ""
	numberMissing     numberIssue = "missing"
	numberUnparseable numberIssue = "unparseable"
	numberNegative    numberIssue = "negative"
	numberFractional  numberIssue = "fractional"
)

// parseAmount parses a non-negative decimal. Missing, unparseable and
// negative values become zero.
func parseAmount(value string) (decimal.Decimal, numberIssue) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, numberMissing
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, numberUnparseable
	}
	if d.IsNegative() {
		return decimal.Zero, numberNegative
	}
	return d, numberOK
}

// parseQuantity parses a non-negative whole quantity. "5" and "5.0" are both
// accepted; a fractional quantity is treated as unparseable and becomes zero.
func parseQuantity(value string) (int64, numberIssue) {
	d, issue := parseAmount(value)
	if issue != numberOK {
		return 0, issue
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, numberFractional
	}
	return d.IntPart(), numberOK
}
