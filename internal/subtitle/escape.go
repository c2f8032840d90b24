package subtitle

import "strings"

// Values spliced into a filter expression are always wrapped in single
// quotes, which makes every character literal except backslash and the
// quote itself. Escaping those two is what keeps an attacker-controlled
// path or font name from breaking out of the quoted value and injecting
// filter directives; colons, commas, and brackets are neutralized by the
// quoting. The argv is never passed through a shell.
var filterEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
)

// EscapeFilterValue escapes a string for embedding inside a single-quoted
// filter-graph option value.
func EscapeFilterValue(value string) string {
	return filterEscaper.Replace(value)
}
