package tooltip

import "regexp"

// lineBreak matches a real newline or the two-character escape `\n`.
var lineBreak = regexp.MustCompile(`\n|\\n`)

// SplitLines splits a plain text message into lines. Both real newlines and
// literal `\n` escape sequences are line breaks.
func SplitLines(text string) []string {
	return lineBreak.Split(text, -1)
}
