package header

import (
	"strings"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// TokenList is an ordered, duplicate-free list of tokens. It is the value
// type of plain list headers such as Allow, Connection or Content-Encoding.
type TokenList []string

// Has reports whether the list contains the given token, case-insensitively.
func (l TokenList) Has(token string) bool {
	for i := range l {
		if util.EqFold(l[i], token) {
			return true
		}
	}
	return false
}

func (l TokenList) String() string { return encodeTokenList(l) }

// decodeTokenList builds the decode half of a token-list codec.
func decodeTokenList(foldCase bool) func(string) (TokenList, error) {
	return func(s string) (TokenList, error) {
		elems := grammar.SplitList(s)
		if len(elems) == 0 {
			return nil, ErrEmptyValue
		}

		list := make(TokenList, 0, len(elems))
		seen := make(map[string]bool, len(elems))
		for _, e := range elems {
			if foldCase {
				e = util.LCase(e)
			}
			if !grammar.IsToken(e) {
				return nil, grammarErrf("Invalid token %q", e)
			}
			if seen[e] {
				continue
			}
			seen[e] = true
			list = append(list, e)
		}
		return list, nil
	}
}

func encodeTokenList(l TokenList) string { return strings.Join(l, ", ") }

// Plain token-list headers. Tokens whose grammars are case-insensitive
// (codings, protocol names of Connection and Upgrade) are folded to
// lowercase; Allow methods and Trailer field names keep their case.
var (
	AcceptRanges     = register(New[TokenList]("Accept-Ranges", CommaList, decodeTokenList(true), encodeTokenList))
	Allow            = register(New[TokenList]("Allow", CommaList, decodeTokenList(false), encodeTokenList))
	Connection       = register(New[TokenList]("Connection", CommaList, decodeTokenList(true), encodeTokenList))
	ContentEncoding  = register(New[TokenList]("Content-Encoding", CommaList, decodeTokenList(true), encodeTokenList))
	ContentLanguage  = register(New[TokenList]("Content-Language", CommaList, decodeTokenList(true), encodeTokenList))
	Pragma           = register(New[TokenList]("Pragma", CommaList, decodeTokenList(true), encodeTokenList))
	Trailer          = register(New[TokenList]("Trailer", CommaList, decodeTokenList(false), encodeTokenList))
	TransferEncoding = register(New[TokenList]("Transfer-Encoding", CommaList, decodeTokenList(true), encodeTokenList))
	Upgrade          = register(New[TokenList]("Upgrade", CommaList, decodeTokenList(false), encodeTokenList))
)
