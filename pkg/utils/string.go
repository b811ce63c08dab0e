package utils

import "strings"

// TrimQuotes drops one leading and one trailing quote character (" or '),
// as often left behind by secrets pasted into .env files.
func TrimQuotes(s string) string {
	if strings.HasPrefix(s, `"`) || strings.HasPrefix(s, "'") {
		s = s[1:]
	}
	if strings.HasSuffix(s, `"`) || strings.HasSuffix(s, "'") {
		s = s[:len(s)-1]
	}
	return s
}
