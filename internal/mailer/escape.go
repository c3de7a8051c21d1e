package mailer

import "strings"

// escaper replaces & < > " ' with their HTML entities in a single pass, so
// the ampersands introduced by earlier substitutions are never re-escaped.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML encodes user-supplied text for interpolation into a message
// body. It is the sole injection defense: every dynamic field passes through
// it exactly once, and templates never sanitize on their own. Applying it
// twice double-encodes.
func EscapeHTML(s string) string {
	return escaper.Replace(s)
}
