package term

import "regexp"

var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*[a-zA-Z]")

// StripANSI removes ANSI escape sequences from s, e.g. before measuring its
// printable width or writing it to a non-terminal sink.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}
