package schema

import (
	"regexp"
	"strconv"
	"strings"
)

// numericPattern accepts plain integers, decimals and exponent forms.
// strconv alone is too permissive here (it also parses "inf" and hex
// floats, which are not SQL default literals).
var numericPattern = regexp.MustCompile(`^[+-]?(\d+|\d*\.\d+)([eE][+-]?\d+)?$`)

// NormalizeDefault canonicalizes a raw default-value expression for
// comparison, independent of dialect quoting and casing conventions. It is
// pure and deterministic, and idempotent: feeding its output back in
// returns the same value.
//
// Unrecognized function-shaped defaults (UUID generators, sequence calls)
// are deliberately returned as-is and compared literally.
func NormalizeDefault(raw *string, declaredType string) *string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}

	if canon, ok := canonicalTimeFunc(s); ok {
		return &canon
	}

	if IsTextType(declaredType) {
		s = stripQuotes(s)
		if s == "" {
			// An empty-string default collapses to "no default" so the
			// result stays idempotent under re-normalization.
			return nil
		}
	}

	if numericPattern.MatchString(s) {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			n := strconv.FormatInt(v, 10)
			return &n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			n := strconv.FormatFloat(f, 'g', -1, 64)
			return &n
		}
	}

	return &s
}

// SameDefault reports whether two columns carry the same default once
// normalized. This is the single point where false-positive default diffs
// are avoided.
func SameDefault(a, b *ColumnSnapshot) bool {
	na := NormalizeDefault(a.DefaultRaw, a.DeclaredType)
	nb := NormalizeDefault(b.DefaultRaw, b.DeclaredType)
	if na == nil || nb == nil {
		return na == nil && nb == nil
	}
	return *na == *nb
}

// canonicalTimeFunc folds the synonyms of the portable time functions into
// one token per function family, e.g. now() and CURRENT_TIMESTAMP() both
// become CURRENT_TIMESTAMP.
func canonicalTimeFunc(s string) (string, bool) {
	base := strings.ToUpper(s)
	base = strings.TrimSuffix(base, "()")
	switch base {
	case "CURRENT_TIMESTAMP", "NOW":
		return "CURRENT_TIMESTAMP", true
	case "CURRENT_DATE":
		return "CURRENT_DATE", true
	case "CURRENT_TIME":
		return "CURRENT_TIME", true
	}
	return "", false
}

// IsTextType reports whether a declared type carries a character/text
// marker; such columns get string-quoted defaults.
func IsTextType(declaredType string) bool {
	t := strings.ToUpper(declaredType)
	return strings.Contains(t, "CHAR") || strings.Contains(t, "TEXT")
}

// stripQuotes removes exactly one layer of matching single or double quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
