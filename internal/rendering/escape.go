package rendering

import "strings"

// EscapeXML escapes text for use inside a WordprocessingML text node.
// Characters that XML 1.0 cannot carry at all are dropped.
func EscapeXML(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + len(text)/8)

	for _, r := range text {
		switch r {
		case '&':
			result.WriteString("&amp;")
		case '<':
			result.WriteString("&lt;")
		case '>':
			result.WriteString("&gt;")
		case '"':
			result.WriteString("&quot;")
		case '\'':
			result.WriteString("&apos;")
		case '\t', '\n', '\r':
			result.WriteRune(r)
		default:
			if !validXMLRune(r) {
				continue
			}
			result.WriteRune(r)
		}
	}

	return result.String()
}

func validXMLRune(r rune) bool {
	switch {
	case r < 0x20:
		return false
	case r >= 0xD800 && r <= 0xDFFF:
		return false
	case r == 0xFFFE || r == 0xFFFF:
		return false
	default:
		return r <= 0x10FFFF
	}
}
