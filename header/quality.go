package header

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// QualityValue is a header token with its RFC 7231 quality weight.
type QualityValue struct {
	Token   string
	Quality float64
}

func (v QualityValue) String() string {
	if v.Quality == 1 {
		return v.Token
	}
	return v.Token + ";q=" + grammar.FormatQuality(v.Quality)
}

// QualityList is a preference-ordered list of tokens with quality weights.
// It is the value type of the Accept-Charset, Accept-Encoding,
// Accept-Language and TE headers.
type QualityList []QualityValue

// Has reports whether the list contains the given token, case-insensitively.
func (l QualityList) Has(token string) bool {
	for i := range l {
		if util.EqFold(l[i].Token, token) {
			return true
		}
	}
	return false
}

// Best returns the token with the highest quality.
// Ties resolve to the earliest entry.
func (l QualityList) Best() (QualityValue, bool) {
	if len(l) == 0 {
		return QualityValue{}, false
	}
	best := l[0]
	for _, v := range l[1:] {
		if v.Quality > best.Quality {
			best = v
		}
	}
	return best, true
}

func (l QualityList) String() string { return encodeQualityList(l) }

// decodeQualityList builds the decode half of a quality-list codec.
// Tokens are case-folded to lowercase when foldCase is set.
func decodeQualityList(foldCase bool) func(string) (QualityList, error) {
	return func(s string) (QualityList, error) {
		elems := grammar.SplitList(s)
		if len(elems) == 0 {
			return nil, ErrEmptyValue
		}

		list := make(QualityList, 0, len(elems))
		seen := make(map[string]bool, len(elems))
		for _, e := range elems {
			v, err := parseQualityValue(e, foldCase)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			if v.Token == "*" && len(elems) > 1 {
				return nil, ErrWildcardConflict
			}
			if seen[v.Token] {
				continue
			}
			seen[v.Token] = true
			list = append(list, v)
		}
		return list, nil
	}
}

func parseQualityValue(e string, foldCase bool) (QualityValue, error) {
	v := QualityValue{Quality: 1}
	tok, params, _ := strings.Cut(e, ";")
	v.Token = util.TrimSP(tok)
	if foldCase {
		v.Token = util.LCase(v.Token)
	}
	if v.Token != "*" && !grammar.IsToken(v.Token) {
		return v, grammarErrf("Invalid token %q", v.Token)
	}
	for _, kv := range grammar.Params(params, ';') {
		if !util.EqFold(kv[0], "q") {
			continue
		}
		q, ok := grammar.ParseQuality(kv[1])
		if !ok {
			return v, ErrInvalidQuality
		}
		v.Quality = q
	}
	return v, nil
}

func encodeQualityList(l QualityList) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := range l {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(l[i].String())
	}
	return sb.String()
}

// Quality-list header descriptors. Accept-Encoding carries the only hard
// default of the module: a missing header means gzip is acceptable, while a
// present but malformed one never degrades to it.
var (
	AcceptCharset  = register(New[QualityList]("Accept-Charset", CommaList, decodeQualityList(true), encodeQualityList))
	AcceptEncoding = register(New[QualityList]("Accept-Encoding", CommaList, decodeQualityList(true), encodeQualityList,
		WithDefault(QualityList{{Token: "gzip", Quality: 1}})))
	AcceptLanguage = register(New[QualityList]("Accept-Language", CommaList, decodeQualityList(true), encodeQualityList))
	TE             = register(New[QualityList]("TE", CommaList, decodeQualityList(true), encodeQualityList))
)
