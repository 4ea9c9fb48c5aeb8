package header

import (
	"strconv"
	"strings"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// PolicyDirective is one directive of a policy header: a name with zero or
// more source values. Unrecognized names are carried as opaque extensions.
type PolicyDirective struct {
	Name   string
	Values []string
}

func (d PolicyDirective) String() string {
	if len(d.Values) == 0 {
		return d.Name
	}
	return d.Name + " " + strings.Join(d.Values, " ")
}

// decodeCSP parses a Content-Security-Policy value: semicolon-separated
// directives, each a name followed by space-separated source expressions.
func decodeCSP(s string) ([]PolicyDirective, error) {
	pieces := grammar.SplitSep(s, ';')
	if len(pieces) == 0 {
		return nil, ErrEmptyValue
	}

	policy := make([]PolicyDirective, 0, len(pieces))
	seen := make(map[string]bool, len(pieces))
	for _, piece := range pieces {
		fields := strings.Fields(piece)
		d := PolicyDirective{Name: util.LCase(fields[0])}
		if !grammar.IsToken(d.Name) {
			return nil, grammarErrf("Invalid directive %q", d.Name)
		}
		if seen[d.Name] {
			return nil, conflictErrf("Duplicate directive %q", d.Name)
		}
		seen[d.Name] = true
		if len(fields) > 1 {
			d.Values = fields[1:]
		}
		policy = append(policy, d)
	}
	return policy, nil
}

func encodeCSP(policy []PolicyDirective) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := range policy {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(policy[i].String())
	}
	return sb.String()
}

// decodePermissionsPolicy parses comma-separated feature=allowlist entries.
// Allowlist values stay opaque; entries without "=" are skipped like any
// other parameter pair.
func decodePermissionsPolicy(s string) ([]Param, error) {
	kvs := grammar.Params(s, ',')
	if len(kvs) == 0 {
		return nil, ErrEmptyValue
	}

	policy := make([]Param, 0, len(kvs))
	seen := make(map[string]bool, len(kvs))
	for _, kv := range kvs {
		name := util.LCase(kv[0])
		if !grammar.IsToken(name) {
			return nil, grammarErrf("Invalid feature name %q", name)
		}
		if seen[name] {
			return nil, conflictErrf("Duplicate feature %q", name)
		}
		seen[name] = true
		policy = append(policy, Param{Name: name, Value: kv[1]})
	}
	return policy, nil
}

func encodePermissionsPolicy(policy []Param) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := range policy {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(policy[i].Name)
		sb.WriteByte('=')
		sb.WriteString(policy[i].Value)
	}
	return sb.String()
}

// HSTSPolicy is the value type of Strict-Transport-Security.
type HSTSPolicy struct {
	MaxAge            int64
	IncludeSubDomains bool
	Preload           bool
}

func (p HSTSPolicy) String() string { return encodeHSTS(p) }

func decodeHSTS(s string) (HSTSPolicy, error) {
	var p HSTSPolicy
	maxAgeSet := false
	seen := make(map[string]bool)
	for _, piece := range grammar.SplitSep(s, ';') {
		name, arg, hasArg := strings.Cut(piece, "=")
		name = util.LCase(util.TrimSP(name))
		if seen[name] {
			return HSTSPolicy{}, conflictErrf("Duplicate directive %q", name)
		}
		seen[name] = true

		switch name {
		case "max-age":
			n, ok := grammar.ParseNonNegInt(grammar.Unquote(util.TrimSP(arg)))
			if !hasArg || !ok {
				return HSTSPolicy{}, grammarErrf("Invalid directive value %q", arg)
			}
			p.MaxAge = n
			maxAgeSet = true
		case "includesubdomains":
			p.IncludeSubDomains = true
		case "preload":
			p.Preload = true
		default:
			return HSTSPolicy{}, grammarErrf("Unknown directive %q", name)
		}
	}
	if !maxAgeSet {
		return HSTSPolicy{}, requiredErr("max-age")
	}
	return p, nil
}

func encodeHSTS(p HSTSPolicy) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	sb.WriteString("max-age=")
	sb.WriteString(strconv.FormatInt(p.MaxAge, 10))
	if p.IncludeSubDomains {
		sb.WriteString("; includeSubDomains")
	}
	if p.Preload {
		sb.WriteString("; preload")
	}
	return sb.String()
}

var (
	ContentSecurityPolicy           = register(New[[]PolicyDirective]("Content-Security-Policy", SingleLine, decodeCSP, encodeCSP))
	ContentSecurityPolicyReportOnly = register(New[[]PolicyDirective]("Content-Security-Policy-Report-Only", SingleLine, decodeCSP, encodeCSP))
	PermissionsPolicy               = register(New[[]Param]("Permissions-Policy", CommaList, decodePermissionsPolicy, encodePermissionsPolicy))
	StrictTransportSecurity         = register(New[HSTSPolicy]("Strict-Transport-Security", SingleLine, decodeHSTS, encodeHSTS))
)
