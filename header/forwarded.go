package header

import (
	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// ForwardedElem is one element of the Forwarded header (RFC 7239): the four
// known parameters plus unrecognized ones kept in order as extensions.
type ForwardedElem struct {
	For   string
	By    string
	Host  string
	Proto string
	Ext   []Param
}

func (e ForwardedElem) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	first := true
	write := func(k, v string) {
		if !first {
			sb.WriteString(";")
		}
		first = false
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(grammar.QuoteIfNeeded(v))
	}
	if e.For != "" {
		write("for", e.For)
	}
	if e.By != "" {
		write("by", e.By)
	}
	if e.Host != "" {
		write("host", e.Host)
	}
	if e.Proto != "" {
		write("proto", e.Proto)
	}
	for _, p := range e.Ext {
		write(p.Name, p.Value)
	}
	return sb.String()
}

func decodeForwarded(s string) ([]ForwardedElem, error) {
	elems := grammar.SplitList(s)
	if len(elems) == 0 {
		return nil, ErrEmptyValue
	}

	fwd := make([]ForwardedElem, 0, len(elems))
	for _, raw := range elems {
		var e ForwardedElem
		// Pieces without "=" are dropped by Params; that mirrors the
		// forgiving nature of this grammar.
		for _, kv := range grammar.Params(raw, ';') {
			v := grammar.Unquote(kv[1])
			switch util.LCase(kv[0]) {
			case "for":
				if e.For == "" {
					e.For = v
				}
			case "by":
				if e.By == "" {
					e.By = v
				}
			case "host":
				if e.Host == "" {
					e.Host = v
				}
			case "proto":
				if e.Proto == "" {
					e.Proto = util.LCase(v)
				}
			default:
				e.Ext = append(e.Ext, Param{Name: util.LCase(kv[0]), Value: v})
			}
		}
		fwd = append(fwd, e)
	}
	return fwd, nil
}

func encodeForwarded(fwd []ForwardedElem) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := range fwd {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fwd[i].String())
	}
	return sb.String()
}

var Forwarded = register(New[[]ForwardedElem]("Forwarded", CommaList, decodeForwarded, encodeForwarded))
