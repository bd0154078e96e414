package dialect

import (
	"strings"
)

// quoteWith escapes and wraps an identifier according to the given style.
// Embedded closing quote characters are doubled, which is the escape rule
// shared by every engine we target.
func quoteWith(style QuoteStyle, name string) string {
	switch style {
	case QuoteBacktick:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	case QuoteDouble:
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	case QuoteBracket:
		return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
	default:
		return name
	}
}

// DefaultGetSchemaName is a default implementation for resolving the schema
// name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}
