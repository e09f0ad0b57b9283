// Package text classifies raw input into the runs the segmentation engine
// works on.
package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares raw input for tokenization. It converts CRLF and bare CR
// line endings to LF and composes the text to Unicode NFC so that dictionary
// lookups see the same code points the dictionary was built with.
// Surrounding whitespace is kept; the rejoiner copies it verbatim.
func Normalize(s string) string {
	// Normalize line endings: CRLF → LF, then bare CR → LF.
	if strings.ContainsRune(s, '\r') {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	if !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}
	return s
}
