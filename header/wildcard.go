package header

import (
	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// TokenSet is an ordered, duplicate-free set of tokens that may instead be
// the "*" wildcard. The wildcard is exclusive: it cannot be combined with
// concrete elements.
type TokenSet struct {
	Elems    []string
	Wildcard bool
}

// Has reports whether the set contains the given element.
// A wildcard set contains everything.
func (ts TokenSet) Has(elem string) bool {
	if ts.Wildcard {
		return true
	}
	for i := range ts.Elems {
		if util.EqFold(ts.Elems[i], elem) {
			return true
		}
	}
	return false
}

func (ts TokenSet) String() string { return encodeTokenSet(ts) }

// decodeTokenSet builds the decode half of a wildcard token-set codec.
func decodeTokenSet(foldCase bool) func(string) (TokenSet, error) {
	return func(s string) (TokenSet, error) {
		elems := grammar.SplitListUnique(s)
		if len(elems) == 0 {
			return TokenSet{}, ErrEmptyValue
		}

		var ts TokenSet
		seen := make(map[string]bool, len(elems))
		for _, e := range elems {
			if e == "*" {
				if len(elems) > 1 {
					return TokenSet{}, ErrWildcardConflict
				}
				ts.Wildcard = true
				return ts, nil
			}
			if foldCase {
				e = util.LCase(e)
			}
			if !grammar.IsToken(e) {
				return TokenSet{}, grammarErrf("Invalid token %q", e)
			}
			if seen[e] {
				continue
			}
			seen[e] = true
			ts.Elems = append(ts.Elems, e)
		}
		return ts, nil
	}
}

func encodeTokenSet(ts TokenSet) string {
	if ts.Wildcard {
		return "*"
	}
	return encodeTokenList(ts.Elems)
}

// decodeDirectiveSet decodes a Clear-Site-Data value: a list of
// double-quoted directives, or the quoted wildcard `"*"`.
func decodeDirectiveSet(s string) (TokenSet, error) {
	elems := grammar.SplitListUnique(s)
	if len(elems) == 0 {
		return TokenSet{}, ErrEmptyValue
	}

	var ts TokenSet
	seen := make(map[string]bool, len(elems))
	for _, e := range elems {
		if !grammar.IsQuoted(e) {
			return TokenSet{}, grammarErrf("Invalid directive %q", e)
		}
		d := grammar.Unquote(e)
		if d == "*" {
			if len(elems) > 1 {
				return TokenSet{}, ErrWildcardConflict
			}
			ts.Wildcard = true
			return ts, nil
		}
		d = util.LCase(d)
		if seen[d] {
			continue
		}
		seen[d] = true
		ts.Elems = append(ts.Elems, d)
	}
	return ts, nil
}

func encodeDirectiveSet(ts TokenSet) string {
	if ts.Wildcard {
		return `"*"`
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := range ts.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(grammar.Quote(ts.Elems[i]))
	}
	return sb.String()
}

var (
	AccessControlAllowHeaders   = register(New[TokenSet]("Access-Control-Allow-Headers", CommaList, decodeTokenSet(true), encodeTokenSet))
	AccessControlAllowMethods   = register(New[TokenSet]("Access-Control-Allow-Methods", CommaList, decodeTokenSet(false), encodeTokenSet))
	AccessControlExposeHeaders  = register(New[TokenSet]("Access-Control-Expose-Headers", CommaList, decodeTokenSet(true), encodeTokenSet))
	AccessControlRequestHeaders = register(New[TokenSet]("Access-Control-Request-Headers", CommaList, decodeTokenSet(true), encodeTokenSet))
	ClearSiteData               = register(New[TokenSet]("Clear-Site-Data", CommaList, decodeDirectiveSet, encodeDirectiveSet))
	Vary                        = register(New[TokenSet]("Vary", CommaList, decodeTokenSet(false), encodeTokenSet))
)
