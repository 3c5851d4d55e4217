// Package sanitize validates externally supplied pattern identifiers and
// category values before they reach SQL parameters or filesystem paths.
//
// Pattern ids must match: ^[a-z0-9-]{1,64}$. Everything else is filtered
// out; an id that filters down to nothing is rejected rather than defaulted,
// so a hostile input can never silently alias another pattern.
package sanitize

import (
	"errors"
	"fmt"
	"strings"
)

// MaxIDLength is the maximum length of a canonical pattern id.
const MaxIDLength = 64

// ErrInvalid is the validation error sentinel. Operations that return it
// have not touched storage.
var ErrInvalid = errors.New("invalid input")

// Categories is the closed enumeration of pattern categories. Extending it
// is a schema-level change, not a runtime one.
var Categories = []string{
	"verification",
	"investigation",
	"methodology",
	"communication",
	"planning",
	"tooling",
}

var categorySet = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// ID canonicalizes a raw pattern identifier: lowercase letters, digits, and
// hyphens survive, every other rune (including path separators and dots) is
// dropped, runs of hyphens collapse to one, and leading/trailing hyphens are
// trimmed. Returns ErrInvalid if nothing survives or the input was empty.
func ID(raw string) (string, error) {
	lowered := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(lowered))
	lastHyphen := false
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-' || r == '_' || r == ' ':
			// Separators normalize to a single hyphen
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
		// Everything else (slashes, dots, quotes, control chars) is dropped
	}

	id := strings.Trim(b.String(), "-")
	if id == "" {
		return "", fmt.Errorf("%w: id %q is empty after sanitization", ErrInvalid, raw)
	}
	if len(id) > MaxIDLength {
		id = strings.TrimRight(id[:MaxIDLength], "-")
	}
	return id, nil
}

// Category checks exact membership in the category enumeration after
// trimming and lowercasing. Non-members return ErrInvalid.
func Category(raw string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(raw))
	if !categorySet[c] {
		return "", fmt.Errorf("%w: unknown category %q (valid: %s)",
			ErrInvalid, raw, strings.Join(Categories, ", "))
	}
	return c, nil
}
