// Package codes derives and compares the canonical account codes that identify
// chart-of-accounts rows across schema generations.
package codes

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fundacct/fundledger/internal/core/domain"
)

// Separator joins the parts of a canonical account code for display.
const Separator = "-"

// AccountCode concatenates the four identity parts of an account into its
// canonical display code, e.g. ("TPF", "1000", "GEN", U) -> "TPF-1000-GEN-U".
func AccountCode(entityCode, glCode, fundNumber string, restriction domain.Restriction) string {
	return strings.Join([]string{
		strings.ToUpper(strings.TrimSpace(entityCode)),
		strings.TrimSpace(glCode),
		strings.ToUpper(strings.TrimSpace(fundNumber)),
		string(restriction),
	}, Separator)
}

// Canonicalize strips all non-alphanumeric characters and lower-cases, so
// "TPF-1000-GEN-U" and "tpf 1000 gen u" compare equal. Every code comparison in
// the resolver goes through this.
func Canonicalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Equal reports whether two raw codes canonicalize to the same value.
func Equal(a, b string) bool {
	return Canonicalize(a) == Canonicalize(b)
}

// MismatchedPart compares a supplied account code against the code derived from
// the four identity parts and names the first part that disagrees. It returns
// "" when the codes match. Used by the CSV importer to produce diagnostics like
// "restriction mismatch" instead of a bare code comparison.
func MismatchedPart(supplied, entityCode, glCode, fundNumber string, restriction domain.Restriction) string {
	derived := AccountCode(entityCode, glCode, fundNumber, restriction)
	if Equal(supplied, derived) {
		return ""
	}

	// Walk the supplied code's tokens against the expected parts to name the
	// offender. A supplied code that does not split into four tokens is reported
	// as a whole-code mismatch.
	parts := splitCode(supplied)
	expected := []struct{ name, value string }{
		{"entity", entityCode},
		{"gl", glCode},
		{"fund", fundNumber},
		{"restriction", string(restriction)},
	}
	if len(parts) != len(expected) {
		return "code"
	}
	for i, exp := range expected {
		if !Equal(parts[i], exp.value) {
			return exp.name
		}
	}
	return "code"
}

// splitCode tokenizes a raw account code on any run of non-alphanumerics.
func splitCode(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Describe renders a mismatch diagnostic for import logs.
func Describe(part, supplied, entityCode, glCode, fundNumber string, restriction domain.Restriction) string {
	return fmt.Sprintf("%s mismatch: supplied code %q, expected %q",
		part, supplied, AccountCode(entityCode, glCode, fundNumber, restriction))
}
