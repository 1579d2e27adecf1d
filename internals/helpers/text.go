// file: internals/helpers/text.go
package helper

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// FoldName produces the key used for case-insensitive name uniqueness:
// NFKC, Unicode case folding, inner whitespace collapsed.
func FoldName(name string) string {
	s := norm.NFKC.String(strings.TrimSpace(name))
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}
