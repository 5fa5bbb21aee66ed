package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy removes all HTML tags and attributes. Roster usernames and
// device names are plain text; anything that looks like markup is stripped
// before it reaches the store or a dashboard.
var strictPolicy = bluemonday.StrictPolicy()

// Text strips all HTML from input and returns plain text.
func Text(input string) string {
	return strictPolicy.Sanitize(input)
}
