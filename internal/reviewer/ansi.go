package reviewer

import "regexp"

// sgrPattern matches Select Graphic Rendition sequences: ESC [ params m.
var sgrPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

// StripANSI removes terminal color sequences from s. Other escape sequences
// and all surrounding text are left as they are.
func StripANSI(s string) string {
	return sgrPattern.ReplaceAllString(s, "")
}
