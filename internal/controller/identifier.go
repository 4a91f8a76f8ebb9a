package controller

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidIdentifier is returned for table names that do not match the
// identifier grammar.
var ErrInvalidIdentifier = errors.New("invalid table identifier")

// identifierPattern matches one to three dot-separated parts. Each part is
// a bare identifier or a double-quoted name without embedded quotes.
var identifierPattern = regexp.MustCompile(
	`^(?:[A-Za-z_][A-Za-z0-9_$]*|"[^"]+")(?:\.(?:[A-Za-z_][A-Za-z0-9_$]*|"[^"]+")){0,2}$`)

// ValidateIdentifier trims s and checks it against the identifier grammar.
// It returns the trimmed identifier, which is safe to embed in a query.
func ValidateIdentifier(s string) (string, error) {
	id := strings.TrimSpace(s)
	if id == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	if !identifierPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return id, nil
}

// SelectAll builds the query issued for a validated identifier.
func SelectAll(identifier string) string {
	return "SELECT * FROM " + identifier
}
