package text

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageflow/pageflow/model"
)

var (
	upperCaser  = cases.Upper(language.Und)
	lowerCaser  = cases.Lower(language.Und)
	titleCaser  = cases.Title(language.Und)
)

// ApplyTextTransform implements §4.3's "textTransform is applied to the
// content string before measurement". Uses golang.org/x/text/cases for
// correct Unicode case folding rather than an ASCII-only byte loop —
// the same module the teacher pack already depends on transitively.
func ApplyTextTransform(s string, t model.TextTransform) string {
	switch t {
	case model.TransformUppercase:
		return upperCaser.String(s)
	case model.TransformLowercase:
		return lowerCaser.String(s)
	case model.TransformCapitalize:
		return titleCaser.String(s)
	default:
		return s
	}
}
