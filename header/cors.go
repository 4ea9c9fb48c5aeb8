package header

import (
	"strconv"
	"strings"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// AllowOrigin is the value type of Access-Control-Allow-Origin: the "*"
// wildcard, the "null" origin, or exactly one serialized origin.
type AllowOrigin struct {
	Origin   string
	Wildcard bool
	Null     bool
}

func (ao AllowOrigin) String() string { return encodeAllowOrigin(ao) }

func decodeAllowOrigin(s string) (AllowOrigin, error) {
	if len(grammar.SplitList(s)) > 1 {
		return AllowOrigin{}, grammarErrf("Invalid origin %q", s)
	}
	switch {
	case s == "*":
		return AllowOrigin{Wildcard: true}, nil
	case util.EqFold(s, "null"):
		return AllowOrigin{Null: true}, nil
	}
	origin, err := parseOrigin(s)
	if err != nil {
		return AllowOrigin{}, err
	}
	return AllowOrigin{Origin: origin}, nil
}

// parseOrigin validates a serialized origin: scheme "://" host with an
// optional port, no path, no whitespace.
func parseOrigin(s string) (string, error) {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok || !grammar.IsToken(scheme) || rest == "" ||
		strings.ContainsAny(rest, " \t/") {
		return "", grammarErrf("Invalid origin %q", s)
	}
	return util.LCase(scheme) + "://" + rest, nil
}

func encodeAllowOrigin(ao AllowOrigin) string {
	switch {
	case ao.Wildcard:
		return "*"
	case ao.Null:
		return "null"
	default:
		return ao.Origin
	}
}

func decodeOrigin(s string) (string, error) {
	if util.EqFold(s, "null") {
		return "null", nil
	}
	return parseOrigin(s)
}

func decodeCredentialsFlag(s string) (bool, error) {
	if s != "true" {
		return false, grammarErrf("Invalid value %q, must be \"true\"", s)
	}
	return true, nil
}

func decodeMethod(s string) (string, error) {
	if !grammar.IsToken(s) {
		return "", grammarErrf("Invalid method %q", s)
	}
	return s, nil
}

func decodeDeltaSeconds(s string) (int64, error) {
	n, ok := grammar.ParseNonNegInt(s)
	if !ok {
		return 0, grammarErrf("Invalid number %q", s)
	}
	return n, nil
}

func encodeInt(n int64) string { return strconv.FormatInt(n, 10) }

func encodeString(s string) string { return s }

var (
	AccessControlAllowCredentials = register(New[bool]("Access-Control-Allow-Credentials", SingleLine,
		decodeCredentialsFlag, func(bool) string { return "true" }))
	AccessControlAllowOrigin   = register(New[AllowOrigin]("Access-Control-Allow-Origin", SingleLine, decodeAllowOrigin, encodeAllowOrigin))
	AccessControlMaxAge        = register(New[int64]("Access-Control-Max-Age", SingleLine, decodeDeltaSeconds, encodeInt))
	AccessControlRequestMethod = register(New[string]("Access-Control-Request-Method", SingleLine, decodeMethod, encodeString))
	Origin                     = register(New[string]("Origin", SingleLine, decodeOrigin, encodeString))
)
