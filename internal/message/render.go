package message

import "strings"

// Recognized placeholders. Anything else in the template is left verbatim.
const (
	PlaceholderName = "{name}"
	PlaceholderSeat = "{seat}"
)

// Render substitutes every occurrence of {name} and {seat} in the
// template. No escaping is applied; callers own the template content.
func Render(template, name, seat string) string {
	out := strings.ReplaceAll(template, PlaceholderName, name)
	out = strings.ReplaceAll(out, PlaceholderSeat, seat)
	return out
}
