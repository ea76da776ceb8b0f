package morph

import (
	"strings"
	"unicode/utf8"
)

// firstRune returns the first rune of s, or utf8.RuneError when s is empty.
func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// lastRune returns the last rune of s, or utf8.RuneError when s is empty.
func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// dropLastRune removes the final rune of s.
func dropLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

// dropFirstRune removes the first rune of s.
func dropFirstRune(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[size:]
}

// joinTokens joins the non-empty tokens with a space, or with nothing when
// spaced is false.
func joinTokens(spaced bool, tokens ...string) string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok != "" {
			kept = append(kept, tok)
		}
	}
	if spaced {
		return strings.Join(kept, " ")
	}
	return strings.Join(kept, "")
}
