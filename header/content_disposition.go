package header

import (
	"strings"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// DispositionSpec is the value type of Content-Disposition: the disposition
// type and its parameters with their original order preserved.
type DispositionSpec struct {
	Type   string
	Params []Param
}

func (d DispositionSpec) String() string { return encodeContentDisposition(d) }

// Filename returns the filename parameter, if present.
func (d DispositionSpec) Filename() (string, bool) {
	for _, p := range d.Params {
		if p.Name == "filename" {
			return p.Value, true
		}
	}
	return "", false
}

func decodeContentDisposition(s string) (DispositionSpec, error) {
	typ, rest, _ := strings.Cut(s, ";")
	d := DispositionSpec{Type: util.LCase(util.TrimSP(typ))}
	if !grammar.IsToken(d.Type) {
		return DispositionSpec{}, grammarErrf("Invalid disposition type %q", d.Type)
	}

	seen := make(map[string]bool)
	for _, kv := range grammar.Params(rest, ';') {
		name := util.LCase(kv[0])
		if !grammar.IsToken(name) {
			return DispositionSpec{}, grammarErrf("Invalid parameter name %q", name)
		}
		if seen[name] {
			return DispositionSpec{}, conflictErrf("Duplicate parameter %q", name)
		}
		seen[name] = true
		d.Params = append(d.Params, Param{Name: name, Value: grammar.Unquote(kv[1])})
	}
	return d, nil
}

func encodeContentDisposition(d DispositionSpec) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	sb.WriteString(d.Type)
	for _, p := range d.Params {
		sb.WriteString("; ")
		sb.WriteString(p.Name)
		sb.WriteByte('=')
		sb.WriteString(grammar.QuoteIfNeeded(p.Value))
	}
	return sb.String()
}

var ContentDisposition = register(New[DispositionSpec]("Content-Disposition", SingleLine, decodeContentDisposition, encodeContentDisposition))
