// Package palette holds the fixed set of group colors and normalizes
// arbitrary color input onto it.
package palette

import (
	"math/rand/v2"
	"strings"
)

// Token is one of the named hues in tokens.
type Token string

// Default is used when imported data carries no usable color.
const Default Token = "blue"

var tokens = [...]Token{
	"red", "orange", "amber", "yellow", "lime", "green", "emerald", "teal", "cyan",
	"sky", "blue", "indigo", "violet", "purple", "fuchsia", "pink", "rose",
}

var index = func() map[Token]struct{} {
	m := make(map[Token]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}()

// All returns the palette in display order.
func All() []Token {
	out := make([]Token, len(tokens))
	copy(out, tokens[:])
	return out
}

// Normalize trims and lowercases s and reports whether it names a token.
// Hex codes and free text are not mapped.
func Normalize(s string) (Token, bool) {
	t := Token(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := index[t]; !ok {
		return "", false
	}
	return t, true
}

// Random picks a token uniformly.
func Random() Token {
	return tokens[rand.IntN(len(tokens))]
}

// OrDefault normalizes s, falling back to Default.
func OrDefault(s string) Token {
	if t, ok := Normalize(s); ok {
		return t
	}
	return Default
}
