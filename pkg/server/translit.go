package server

import (
	"net/url"
	"strings"
)

// Latin→Cyrillic keyboard-layout table for ingredient search: users who
// typed before switching layouts get their query mapped onto the
// Russian layout. The table is fixed and must stay byte-exact.
// TODO: verify the mapping against real search logs before extending it.
var layoutTable = func() map[rune]rune {
	latin := []rune("qwertyuiop[]asdfghjkl;'zxcvbnm,./")
	cyrillic := []rune("йцукенгшщзхъфывапролджэячсмитьбю.")

	table := make(map[rune]rune, len(latin))
	for index, r := range latin {
		table[r] = cyrillic[index]
	}

	return table
}()

// normalizeIngredientQuery prepares the raw name parameter for a
// case-insensitive substring match: percent-escaped input is unescaped,
// anything else is run through the layout table; either way the result
// is lowercased.
func normalizeIngredientQuery(raw string) string {
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "%") {
		if unescaped, err := url.QueryUnescape(raw); err == nil {
			raw = unescaped
		}

		return strings.ToLower(raw)
	}

	var builder strings.Builder

	for _, r := range raw {
		if mapped, ok := layoutTable[r]; ok {
			builder.WriteRune(mapped)
		} else {
			builder.WriteRune(r)
		}
	}

	return strings.ToLower(builder.String())
}
