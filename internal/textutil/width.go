package textutil

import "github.com/mattn/go-runewidth"

// DisplayWidth reports the printable width of text accounting for wide runes.
func DisplayWidth(text string) int {
	width := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			w = 1
		}
		width += w
	}
	return width
}

// TruncateWidth shortens text to at most width columns, appending an ellipsis
// when something was cut.
func TruncateWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	used := 0
	var b []rune
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			w = 1
		}
		if used+w > width-1 {
			break
		}
		used += w
		b = append(b, r)
	}
	return string(b) + "…"
}
