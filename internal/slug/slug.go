// Package slug turns product and variant names into URL slugs.
package slug

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make lowercases s, strips diacritics and joins the remaining letter and
// digit runs with single hyphens.
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// ExistsFunc reports whether a slug is already taken
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns Make(s), or the first "<slug>-N" (N from 1) that is
// not taken.
func Unique(ctx context.Context, s string, exists ExistsFunc) (string, error) {
	base := Make(s)
	if base == "" {
		base = "item"
	}

	candidate := base
	for n := 1; ; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
