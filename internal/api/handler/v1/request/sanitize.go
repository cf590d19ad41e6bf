package request

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// plainText strips markup from admin-authored schema text. Form names, labels
// and options end up in the browser form, so they are stored without tags.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

func plainTexts(in []string) []string {
	if in == nil {
		return nil
	}

	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = plainText(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
