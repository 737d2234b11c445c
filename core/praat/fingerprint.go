package praat

import (
	"github.com/FocuswithJustin/textgrid/core/cas"
	"github.com/FocuswithJustin/textgrid/core/textgrid"
)

// Fingerprint hashes the verbose rendering of doc. Documents that render
// identically share a fingerprint whatever layout they were read from.
func Fingerprint(doc *textgrid.Document) cas.HashResult {
	return cas.Sum([]byte(Render(doc, Verbose)))
}
