package controller

import (
	"regexp"
	"strings"
)

// ErrorPrefix starts every user-facing failure message.
const ErrorPrefix = "❌ Error: "

var secretPatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	// user:password@ in URLs and DSNs
	{regexp.MustCompile(`(://[^:/@\s]+:)[^@\s]+@`), `${1}****@`},
	// password=..., pwd=..., secret=... in key/value DSNs
	{regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|token)(\s*[=:]\s*)('[^']*'|"[^"]*"|[^\s;&]+)`), `${1}${2}****`},
}

// MaskSecrets replaces credentials embedded in s.
func MaskSecrets(s string) string {
	for _, p := range secretPatterns {
		s = p.re.ReplaceAllString(s, p.repl)
	}
	return s
}

// FormatError renders err the way the dashboard shows it.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return ErrorPrefix + strings.TrimSpace(MaskSecrets(err.Error()))
}
