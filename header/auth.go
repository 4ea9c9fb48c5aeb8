package header

import (
	"encoding/base64"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// BasicCredentials is the decoded payload of the Basic scheme.
type BasicCredentials struct {
	Username string
	Password string
}

// BearerToken is the opaque token of the Bearer scheme.
type BearerToken struct {
	Token string
}

// DigestCredentials carries the parameters of the Digest scheme.
// Username, Realm, Nonce, URI and Response are mandatory and non-empty;
// the optional parameters pass through uninterpreted.
type DigestCredentials struct {
	Username string
	Realm    string
	Nonce    string
	URI      string
	Response string

	Algorithm string
	QOP       string
	NC        string
	CNonce    string
	Opaque    string

	// Params holds unrecognized digest parameters.
	Params Values
}

// Credentials is the tagged value of Authorization and Proxy-Authorization.
// Exactly one of Basic, Bearer or Digest is set for the well-known schemes;
// any other scheme keeps its parameter list (or token) uninterpreted.
type Credentials struct {
	Scheme string

	Basic  *BasicCredentials
	Bearer *BearerToken
	Digest *DigestCredentials

	// Token and Params carry the payload of schemes other than
	// Basic, Bearer and Digest.
	Token  string
	Params Values
}

// String renders the credentials with secrets masked and is safe to log.
// The wire form is produced by the codec only.
func (c Credentials) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	sb.WriteString(c.Scheme)
	switch {
	case c.Basic != nil:
		sb.WriteByte(' ')
		sb.WriteString(c.Basic.Username)
		sb.WriteByte(':')
		sb.WriteString(maskSecret(c.Basic.Password))
	case c.Bearer != nil:
		sb.WriteByte(' ')
		sb.WriteString(maskSecret(c.Bearer.Token))
	case c.Digest != nil:
		sb.WriteString(` username=`)
		sb.WriteString(grammar.Quote(c.Digest.Username))
		sb.WriteString(`, realm=`)
		sb.WriteString(grammar.Quote(c.Digest.Realm))
		sb.WriteString(`, response=`)
		sb.WriteString(grammar.Quote(maskSecret(c.Digest.Response)))
	case c.Token != "":
		sb.WriteByte(' ')
		sb.WriteString(maskSecret(c.Token))
	}
	return sb.String()
}

// maskSecret hides a secret, keeping the first and last four characters of
// tokens long enough not to be recoverable from them.
func maskSecret(s string) string {
	if len(s) >= 16 {
		return s[:4] + "********" + s[len(s)-4:]
	}
	return "********"
}

func decodeCredentials(s string) (Credentials, error) {
	scheme, rest, _ := strings.Cut(s, " ")
	if !grammar.IsToken(scheme) {
		return Credentials{}, grammarErrf("Invalid authorization scheme %q", scheme)
	}
	rest = util.TrimSP(rest)

	switch {
	case util.EqFold(scheme, "Basic"):
		return errtrace.Wrap2(decodeBasic(rest))
	case util.EqFold(scheme, "Bearer"):
		return errtrace.Wrap2(decodeBearer(rest))
	case util.EqFold(scheme, "Digest"):
		return errtrace.Wrap2(decodeDigest(rest))
	}

	c := Credentials{Scheme: scheme}
	if strings.Contains(rest, "=") && !isToken68(rest) {
		c.Params = paramValues(grammar.Params(rest, ','))
	} else {
		c.Token = rest
	}
	return c, nil
}

func decodeBasic(payload string) (Credentials, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Credentials{}, grammarErrf("Invalid base64 value")
	}
	// The password may contain colons: only the first one delimits.
	user, pass, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Credentials{}, grammarErrf("Invalid Basic credentials")
	}
	return Credentials{Scheme: "Basic", Basic: &BasicCredentials{Username: user, Password: pass}}, nil
}

func decodeBearer(payload string) (Credentials, error) {
	if payload == "" {
		return Credentials{}, requiredErr("token")
	}
	if !isToken68(payload) {
		return Credentials{}, grammarErrf("Invalid Bearer token")
	}
	return Credentials{Scheme: "Bearer", Bearer: &BearerToken{Token: payload}}, nil
}

func decodeDigest(payload string) (Credentials, error) {
	d := &DigestCredentials{}
	for _, kv := range grammar.Params(payload, ',') {
		v := grammar.Unquote(kv[1])
		switch util.LCase(kv[0]) {
		case "username":
			d.Username = v
		case "realm":
			d.Realm = v
		case "nonce":
			d.Nonce = v
		case "uri":
			d.URI = v
		case "response":
			d.Response = v
		case "algorithm":
			d.Algorithm = v
		case "qop":
			d.QOP = v
		case "nc":
			d.NC = v
		case "cnonce":
			d.CNonce = v
		case "opaque":
			d.Opaque = v
		default:
			if d.Params == nil {
				d.Params = make(Values)
			}
			d.Params.Set(kv[0], v)
		}
	}

	for _, f := range [...][2]string{
		{"username", d.Username},
		{"realm", d.Realm},
		{"nonce", d.Nonce},
		{"uri", d.URI},
		{"response", d.Response},
	} {
		if f[1] == "" {
			return Credentials{}, requiredErr(f[0])
		}
	}
	return Credentials{Scheme: "Digest", Digest: d}, nil
}

// isToken68 reports whether s matches the RFC 7235 token68 grammar.
func isToken68(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	for ; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '-' || c == '.' || c == '_' || c == '~' || c == '+' || c == '/' {
			continue
		}
		break
	}
	if i == 0 {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] != '=' {
			return false
		}
	}
	return true
}

func paramValues(kvs [][2]string) Values {
	if len(kvs) == 0 {
		return nil
	}
	vals := make(Values, len(kvs))
	for _, kv := range kvs {
		vals.Set(kv[0], grammar.Unquote(kv[1]))
	}
	return vals
}

func encodeCredentials(c Credentials) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	switch {
	case c.Basic != nil:
		sb.WriteString("Basic ")
		sb.WriteString(base64.StdEncoding.EncodeToString([]byte(c.Basic.Username + ":" + c.Basic.Password)))
	case c.Bearer != nil:
		sb.WriteString("Bearer ")
		sb.WriteString(c.Bearer.Token)
	case c.Digest != nil:
		sb.WriteString("Digest ")
		writeDigest(sb, c.Digest)
	default:
		sb.WriteString(c.Scheme)
		if c.Token != "" {
			sb.WriteByte(' ')
			sb.WriteString(c.Token)
		} else if len(c.Params) > 0 {
			sb.WriteByte(' ')
			writeAuthParams(sb, c.Params)
		}
	}
	return sb.String()
}

// writeDigest renders digest parameters in the conventional order:
// the five mandatory ones, then the known optional ones, then extensions.
// algorithm, qop and nc stay unquoted per RFC 7616.
func writeDigest(sb *strings.Builder, d *DigestCredentials) {
	kvs := [][2]string{
		{"username", grammar.Quote(d.Username)},
		{"realm", grammar.Quote(d.Realm)},
		{"nonce", grammar.Quote(d.Nonce)},
		{"uri", grammar.Quote(d.URI)},
		{"response", grammar.Quote(d.Response)},
	}
	if d.Algorithm != "" {
		kvs = append(kvs, [2]string{"algorithm", d.Algorithm})
	}
	if d.QOP != "" {
		kvs = append(kvs, [2]string{"qop", d.QOP})
	}
	if d.NC != "" {
		kvs = append(kvs, [2]string{"nc", d.NC})
	}
	if d.CNonce != "" {
		kvs = append(kvs, [2]string{"cnonce", grammar.Quote(d.CNonce)})
	}
	if d.Opaque != "" {
		kvs = append(kvs, [2]string{"opaque", grammar.Quote(d.Opaque)})
	}
	for _, k := range d.Params.SortedKeys() {
		v, _ := d.Params.Last(k)
		kvs = append(kvs, [2]string{k, grammar.QuoteIfNeeded(v)})
	}
	for i, kv := range kvs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(kv[0])
		sb.WriteByte('=')
		sb.WriteString(kv[1])
	}
}

func writeAuthParams(sb *strings.Builder, params Values) {
	for i, k := range params.SortedKeys() {
		v, _ := params.Last(k)
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(grammar.QuoteIfNeeded(v))
	}
}

// Challenge is one element of WWW-Authenticate and Proxy-Authenticate.
type Challenge struct {
	Scheme string
	Token  string
	Params Values
}

func (ch Challenge) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	writeChallenge(sb, ch)
	return sb.String()
}

// Challenges is an ordered list of authentication challenges.
type Challenges []Challenge

// Scheme returns the first challenge with the given scheme.
func (chs Challenges) Scheme(scheme string) (Challenge, bool) {
	for _, ch := range chs {
		if util.EqFold(ch.Scheme, scheme) {
			return ch, true
		}
	}
	return Challenge{}, false
}

func (chs Challenges) String() string { return encodeChallenges(chs) }

// decodeChallenges splits a challenge list. Commas separate both challenges
// and their parameters: a list element without "=" starts a new challenge,
// an element with "=" extends the current one.
func decodeChallenges(s string) (Challenges, error) {
	var chs Challenges
	for _, e := range grammar.SplitList(s) {
		scheme, rest, cut := strings.Cut(e, " ")
		isParam := strings.Contains(e, "=") && !cut
		switch {
		case !isParam && grammar.IsToken(scheme):
			ch := Challenge{Scheme: scheme}
			rest = util.TrimSP(rest)
			if rest != "" {
				if kvs := grammar.Params(rest, ','); len(kvs) > 0 && !isToken68(rest) {
					ch.Params = paramValues(kvs)
				} else {
					ch.Token = rest
				}
			}
			chs = append(chs, ch)
		case len(chs) > 0:
			kvs := grammar.Params(e, ',')
			if len(kvs) == 0 {
				return nil, grammarErrf("Invalid challenge parameter %q", e)
			}
			last := &chs[len(chs)-1]
			if last.Params == nil {
				last.Params = make(Values)
			}
			for _, kv := range kvs {
				last.Params.Set(kv[0], grammar.Unquote(kv[1]))
			}
		default:
			return nil, grammarErrf("Invalid challenge %q", e)
		}
	}
	if len(chs) == 0 {
		return nil, ErrEmptyValue
	}
	return chs, nil
}

func writeChallenge(sb *strings.Builder, ch Challenge) {
	sb.WriteString(ch.Scheme)
	if ch.Token != "" {
		sb.WriteByte(' ')
		sb.WriteString(ch.Token)
		return
	}
	if len(ch.Params) > 0 {
		sb.WriteByte(' ')
		// realm leads by convention, the rest goes alphabetically.
		first := true
		if realm, ok := ch.Params.Last("realm"); ok {
			sb.WriteString("realm=")
			sb.WriteString(grammar.Quote(realm))
			first = false
		}
		for _, k := range ch.Params.SortedKeys() {
			if k == "realm" {
				continue
			}
			v, _ := ch.Params.Last(k)
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(grammar.QuoteIfNeeded(v))
		}
	}
}

func encodeChallenges(chs Challenges) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := range chs {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeChallenge(sb, chs[i])
	}
	return sb.String()
}

var (
	Authorization      = register(New[Credentials]("Authorization", SingleLine, decodeCredentials, encodeCredentials))
	ProxyAuthorization = register(New[Credentials]("Proxy-Authorization", SingleLine, decodeCredentials, encodeCredentials))
	ProxyAuthenticate  = register(New[Challenges]("Proxy-Authenticate", CommaList, decodeChallenges, encodeChallenges))
	WWWAuthenticate    = register(New[Challenges]("WWW-Authenticate", CommaList, decodeChallenges, encodeChallenges))
)
