package header

import (
	"strings"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

func decodeHost(s string) (string, error) {
	host := util.LCase(s)
	if strings.ContainsAny(host, " \t,/@") {
		return "", grammarErrf("Invalid host %q", s)
	}
	return host, nil
}

func decodeURIRef(s string) (string, error) {
	if strings.ContainsAny(s, " \t") {
		return "", grammarErrf("Invalid URI reference %q", s)
	}
	return s, nil
}

func decodeExpect(s string) (string, error) {
	if !util.EqFold(s, "100-continue") {
		return "", grammarErrf("Invalid expectation %q", s)
	}
	return "100-continue", nil
}

// Product is one software item of the User-Agent and Server headers.
// Multiple comments attached to a product are concatenated with "; ".
type Product struct {
	Name    string
	Version string
	Comment string
}

func (p Product) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	writeProduct(sb, p)
	return sb.String()
}

func decodeProducts(s string) ([]Product, error) {
	var products []Product
	for i := 0; i < len(s); {
		switch {
		case s[i] == ' ' || s[i] == '\t':
			i++
		case s[i] == '(':
			if len(products) == 0 {
				return nil, grammarErrf("Invalid product comment %q", s[i:])
			}
			comment, next, ok := consumeComment(s, i)
			if !ok {
				return nil, grammarErrf("Invalid product comment %q", s[i:])
			}
			last := &products[len(products)-1]
			if last.Comment == "" {
				last.Comment = comment
			} else {
				last.Comment += "; " + comment
			}
			i = next
		default:
			j := i
			for j < len(s) && s[j] != ' ' && s[j] != '\t' && s[j] != '(' {
				j++
			}
			var p Product
			var ok bool
			p.Name, p.Version, ok = strings.Cut(s[i:j], "/")
			if !grammar.IsToken(p.Name) || (ok && !grammar.IsToken(p.Version)) {
				return nil, grammarErrf("Invalid product %q", s[i:j])
			}
			products = append(products, p)
			i = j
		}
	}
	if len(products) == 0 {
		return nil, ErrEmptyValue
	}
	return products, nil
}

// consumeComment reads a parenthesized comment starting at s[i], handling
// nesting and backslash escapes. It returns the comment text without the
// outer parentheses.
func consumeComment(s string, i int) (comment string, next int, ok bool) {
	depth := 0
	var sb strings.Builder
	for ; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) {
				i++
				sb.WriteByte(s[i])
			}
		case '(':
			if depth > 0 {
				sb.WriteByte(s[i])
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1, true
			}
			sb.WriteByte(s[i])
		default:
			sb.WriteByte(s[i])
		}
	}
	return "", i, false
}

func writeProduct(sb *strings.Builder, p Product) {
	sb.WriteString(p.Name)
	if p.Version != "" {
		sb.WriteByte('/')
		sb.WriteString(p.Version)
	}
	if p.Comment != "" {
		sb.WriteString(" (")
		for i := 0; i < len(p.Comment); i++ {
			if p.Comment[i] == '(' || p.Comment[i] == ')' || p.Comment[i] == '\\' {
				sb.WriteByte('\\')
			}
			sb.WriteByte(p.Comment[i])
		}
		sb.WriteByte(')')
	}
}

func encodeProducts(products []Product) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := range products {
		if i > 0 {
			sb.WriteByte(' ')
		}
		writeProduct(sb, products[i])
	}
	return sb.String()
}

var (
	Age           = register(New[int64]("Age", SingleLine, decodeDeltaSeconds, encodeInt))
	ContentLength = register(New[int64]("Content-Length", SingleLine, decodeDeltaSeconds, encodeInt))
	Expect        = register(New[string]("Expect", SingleLine, decodeExpect, encodeString))
	Host          = register(New[string]("Host", SingleLine, decodeHost, encodeString))
	Location      = register(New[string]("Location", SingleLine, decodeURIRef, encodeString))
	MaxForwards   = register(New[int64]("Max-Forwards", SingleLine, decodeDeltaSeconds, encodeInt))
	Referer       = register(New[string]("Referer", SingleLine, decodeURIRef, encodeString))
	Server        = register(New[[]Product]("Server", SingleLine, decodeProducts, encodeProducts))
	UserAgent     = register(New[[]Product]("User-Agent", SingleLine, decodeProducts, encodeProducts))
)
