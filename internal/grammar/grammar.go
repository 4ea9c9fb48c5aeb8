// Package grammar implements the shared lexical primitives of the HTTP
// header grammars: token and quoted-string handling per RFC 7230, comma and
// semicolon list splitting, quality values per RFC 7231 and parameter pairs.
//
// Every grammar here is purpose-built for the headers of this module.
// All splitting is quote-aware: a separator inside a double-quoted region
// never terminates an element.
package grammar

//go:generate go tool errtrace -w .

import (
	"strconv"
	"strings"
)

var (
	isTchar       [256]bool
	isCookieOctet [256]bool
)

func init() {
	const tchars = "!#$%&'*+-.^_`|~" +
		"0123456789" +
		"abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	for _, c := range []byte(tchars) {
		isTchar[c] = true
	}
	// cookie-octet, RFC 6265 Section 4.1.1. Excludes CTLs (DEL included),
	// whitespace, DQUOTE, comma, semicolon and backslash.
	for c := 0x21; c <= 0x7e; c++ {
		switch c {
		case '"', ',', ';', '\\':
		default:
			isCookieOctet[c] = true
		}
	}
}

// IsTchar reports whether c belongs to the RFC 7230 tchar set.
func IsTchar(c byte) bool { return isTchar[c] }

// IsToken reports whether s is a non-empty RFC 7230 token.
func IsToken[T ~string | ~[]byte](s T) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTchar[s[i]] {
			return false
		}
	}
	return true
}

// IsCookieValue reports whether s is a valid RFC 6265 cookie-value,
// optionally wrapped in double quotes.
func IsCookieValue[T ~string | ~[]byte](s T) bool {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	for i := 0; i < len(s); i++ {
		if !isCookieOctet[s[i]] {
			return false
		}
	}
	return true
}

// IsQuoted reports whether s is a complete RFC 7230 quoted-string.
func IsQuoted[T ~string | ~[]byte](s T) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}
	for i := 1; i < len(s)-1; i++ {
		switch s[i] {
		case '\\':
			i++
			if i == len(s)-1 {
				return false
			}
		case '"':
			return false
		}
	}
	return true
}

// Unquote strips quoted-string delimiters and unescapes quoted pairs.
// A value that is not a quoted-string is returned unchanged.
func Unquote(s string) string {
	if !IsQuoted(s) {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// Quote wraps s into a quoted-string, escaping '"' and '\'.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('"')
	return sb.String()
}

// QuoteIfNeeded returns s unchanged when it is a valid token,
// otherwise it returns s as a quoted-string.
func QuoteIfNeeded(s string) string {
	if IsToken(s) {
		return s
	}
	return Quote(s)
}

// SplitSep splits s on the given separator, skipping separators inside
// quoted strings. Elements are trimmed and empty elements are dropped.
func SplitSep(s string, sep byte) []string {
	var elems []string
	start, quoted := 0, false
	for i := 0; i < len(s); i++ {
		switch {
		case quoted:
			if s[i] == '\\' {
				i++
			} else if s[i] == '"' {
				quoted = false
			}
		case s[i] == '"':
			quoted = true
		case s[i] == sep:
			if e := strings.TrimSpace(s[start:i]); e != "" {
				elems = append(elems, e)
			}
			start = i + 1
		}
	}
	if e := strings.TrimSpace(s[start:]); e != "" {
		elems = append(elems, e)
	}
	return elems
}

// SplitList splits a comma-separated list.
func SplitList(s string) []string { return SplitSep(s, ',') }

// SplitListUnique splits a comma-separated list and removes later
// duplicates, preserving the position of the first occurrence.
// The duplicate match is case-sensitive on the trimmed element.
func SplitListUnique(s string) []string {
	elems := SplitList(s)
	if len(elems) < 2 {
		return elems
	}
	seen := make(map[string]bool, len(elems))
	uniq := elems[:0]
	for _, e := range elems {
		if seen[e] {
			continue
		}
		seen[e] = true
		uniq = append(uniq, e)
	}
	return uniq
}

// Params splits s on the given separator and then each piece once on "=".
// Pieces lacking "=" or with an empty key are silently skipped.
// Keys and values are trimmed; quoted values are kept quoted.
func Params(s string, sep byte) [][2]string {
	pieces := SplitSep(s, sep)
	var kvs [][2]string
	for _, p := range pieces {
		k, v, ok := cutUnquoted(p, '=')
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		kvs = append(kvs, [2]string{k, strings.TrimSpace(v)})
	}
	return kvs
}

// cutUnquoted is strings.Cut on the first occurrence of c outside quotes.
func cutUnquoted(s string, c byte) (before, after string, found bool) {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch {
		case quoted:
			if s[i] == '\\' {
				i++
			} else if s[i] == '"' {
				quoted = false
			}
		case s[i] == '"':
			quoted = true
		case s[i] == c:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// ParseQuality parses an RFC 7231 quality value: a float in [0, 1]
// with at most three decimal digits.
func ParseQuality(s string) (float64, bool) {
	if s == "" || (s[0] != '0' && s[0] != '1') {
		return 0, false
	}
	if len(s) > 1 {
		if s[1] != '.' || len(s) == 2 || len(s) > 5 {
			return 0, false
		}
		for i := 2; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return 0, false
			}
		}
	}
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || q > 1 {
		return 0, false
	}
	return q, true
}

// FormatQuality renders a quality value without trailing zeros.
func FormatQuality(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// ParseNonNegInt parses a string of decimal digits into a non-negative
// integer.
func ParseNonNegInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
