package issue

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every tag and attribute, leaving only text content.
// bluemonday policies are safe for concurrent use once built.
var stripPolicy = bluemonday.StrictPolicy()

// StripHTML renders a rich-text description as plain text for the stored
// search projection. Tags are removed, text and whitespace kept, entities
// decoded back to their literal characters.
func StripHTML(markup string) string {
	return html.UnescapeString(stripPolicy.Sanitize(markup))
}
