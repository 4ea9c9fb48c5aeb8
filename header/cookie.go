package header

import (
	"strconv"
	"strings"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// CookiePair is one name=value pair of the Cookie header.
type CookiePair struct {
	Name  string
	Value string
}

func (p CookiePair) String() string { return p.Name + "=" + p.Value }

func decodeCookie(s string) ([]CookiePair, error) {
	pieces := grammar.SplitSep(s, ';')
	if len(pieces) == 0 {
		return nil, ErrEmptyValue
	}

	pairs := make([]CookiePair, 0, len(pieces))
	seen := make(map[string]bool, len(pieces))
	for _, piece := range pieces {
		p, err := parseCookiePair(piece)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		// The same cookie name may arrive twice; the first wins.
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func parseCookiePair(s string) (CookiePair, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return CookiePair{}, grammarErrf("Invalid cookie pair %q", s)
	}
	p := CookiePair{Name: util.TrimSP(name), Value: util.TrimSP(value)}
	if !grammar.IsToken(p.Name) {
		return CookiePair{}, grammarErrf("Invalid cookie name %q", p.Name)
	}
	if !grammar.IsCookieValue(p.Value) {
		return CookiePair{}, grammarErrf("Invalid cookie value %q", p.Value)
	}
	return p, nil
}

func encodeCookie(pairs []CookiePair) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := range pairs {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(pairs[i].Name)
		sb.WriteByte('=')
		sb.WriteString(pairs[i].Value)
	}
	return sb.String()
}

// CookieSpec is the value type of Set-Cookie: one pair plus its attributes.
// A zero Expires means the attribute is absent.
type CookieSpec struct {
	Name  string
	Value string

	Path        string
	Domain      string
	Expires     time.Time
	MaxAge      *int64
	Secure      bool
	HTTPOnly    bool
	Partitioned bool
	SameSite    string
}

func (c CookieSpec) String() string { return encodeSetCookie(c) }

func decodeSetCookie(s string) (CookieSpec, error) {
	pieces := grammar.SplitSep(s, ';')
	if len(pieces) == 0 {
		return CookieSpec{}, ErrEmptyValue
	}

	pair, err := parseCookiePair(pieces[0])
	if err != nil {
		return CookieSpec{}, errtrace.Wrap(err)
	}
	c := CookieSpec{Name: pair.Name, Value: pair.Value}

	seen := make(map[string]bool, len(pieces)-1)
	for _, piece := range pieces[1:] {
		name, arg, hasArg := strings.Cut(piece, "=")
		name = util.LCase(util.TrimSP(name))
		arg = util.TrimSP(arg)
		// Every attribute of a cookie is singular.
		if seen[name] {
			return CookieSpec{}, conflictErrf("Duplicate attribute %q", name)
		}
		seen[name] = true

		switch name {
		case "path":
			c.Path = arg
		case "domain":
			c.Domain = util.LCase(arg)
		case "expires":
			t, err := grammar.ParseHTTPDate(arg)
			if err != nil {
				return CookieSpec{}, grammarErrf("Invalid attribute value %q", arg)
			}
			c.Expires = t
		case "max-age":
			// Negative values expire the cookie immediately and are legal.
			n, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return CookieSpec{}, grammarErrf("Invalid attribute value %q", arg)
			}
			c.MaxAge = &n
		case "secure":
			if hasArg {
				return CookieSpec{}, grammarErrf("Invalid attribute value %q", arg)
			}
			c.Secure = true
		case "httponly":
			if hasArg {
				return CookieSpec{}, grammarErrf("Invalid attribute value %q", arg)
			}
			c.HTTPOnly = true
		case "partitioned":
			if hasArg {
				return CookieSpec{}, grammarErrf("Invalid attribute value %q", arg)
			}
			c.Partitioned = true
		case "samesite":
			switch {
			case util.EqFold(arg, "Strict"):
				c.SameSite = "Strict"
			case util.EqFold(arg, "Lax"):
				c.SameSite = "Lax"
			case util.EqFold(arg, "None"):
				c.SameSite = "None"
			default:
				return CookieSpec{}, grammarErrf("Invalid attribute value %q", arg)
			}
		default:
			return CookieSpec{}, grammarErrf("Unknown attribute %q", name)
		}
	}
	return c, nil
}

func encodeSetCookie(c CookieSpec) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	sb.WriteString(c.Name)
	sb.WriteByte('=')
	sb.WriteString(c.Value)
	if c.Path != "" {
		sb.WriteString("; Path=")
		sb.WriteString(c.Path)
	}
	if c.Domain != "" {
		sb.WriteString("; Domain=")
		sb.WriteString(c.Domain)
	}
	if !c.Expires.IsZero() {
		sb.WriteString("; Expires=")
		sb.WriteString(grammar.FormatHTTPDate(c.Expires))
	}
	if c.MaxAge != nil {
		sb.WriteString("; Max-Age=")
		sb.WriteString(strconv.FormatInt(*c.MaxAge, 10))
	}
	if c.Secure {
		sb.WriteString("; Secure")
	}
	if c.HTTPOnly {
		sb.WriteString("; HttpOnly")
	}
	if c.SameSite != "" {
		sb.WriteString("; SameSite=")
		sb.WriteString(c.SameSite)
	}
	if c.Partitioned {
		sb.WriteString("; Partitioned")
	}
	return sb.String()
}

var (
	Cookie    = register(New[[]CookiePair]("Cookie", SemicolonList, decodeCookie, encodeCookie))
	SetCookie = register(New[CookieSpec]("Set-Cookie", SingleLine, decodeSetCookie, encodeSetCookie))
)
