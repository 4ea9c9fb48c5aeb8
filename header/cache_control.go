package header

import (
	"strconv"
	"strings"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// CacheDirectives is the value type of Cache-Control. Boolean fields map to
// valueless directives; pointer fields hold delta-seconds arguments.
// MaxStaleAny marks a bare max-stale with no limit.
type CacheDirectives struct {
	Public          bool
	Private         bool
	NoCache         bool
	NoStore         bool
	NoTransform     bool
	MustRevalidate  bool
	ProxyRevalidate bool
	OnlyIfCached    bool
	Immutable       bool

	MaxAge               *int64
	SMaxAge              *int64
	MinFresh             *int64
	MaxStale             *int64
	MaxStaleAny          bool
	StaleWhileRevalidate *int64
	StaleIfError         *int64
}

func (cd CacheDirectives) String() string { return encodeCacheControl(cd) }

func decodeCacheControl(s string) (CacheDirectives, error) {
	var cd CacheDirectives
	seen := make(map[string]bool)
	for _, e := range grammar.SplitListUnique(s) {
		name, arg, hasArg := strings.Cut(e, "=")
		name = util.LCase(util.TrimSP(name))
		if seen[name] {
			return CacheDirectives{}, conflictErrf("Duplicate directive %q", name)
		}
		seen[name] = true
		arg = grammar.Unquote(util.TrimSP(arg))

		if !hasArg {
			switch name {
			case "public":
				cd.Public = true
			case "private":
				cd.Private = true
			case "no-cache":
				cd.NoCache = true
			case "no-store":
				cd.NoStore = true
			case "no-transform":
				cd.NoTransform = true
			case "must-revalidate":
				cd.MustRevalidate = true
			case "proxy-revalidate":
				cd.ProxyRevalidate = true
			case "only-if-cached":
				cd.OnlyIfCached = true
			case "immutable":
				cd.Immutable = true
			case "max-stale":
				cd.MaxStaleAny = true
			default:
				return CacheDirectives{}, grammarErrf("Unknown directive %q", name)
			}
			continue
		}

		n, ok := grammar.ParseNonNegInt(arg)
		if !ok {
			return CacheDirectives{}, grammarErrf("Invalid directive value %q", arg)
		}
		switch name {
		case "max-age":
			cd.MaxAge = &n
		case "s-maxage":
			cd.SMaxAge = &n
		case "min-fresh":
			cd.MinFresh = &n
		case "max-stale":
			cd.MaxStale = &n
		case "stale-while-revalidate":
			cd.StaleWhileRevalidate = &n
		case "stale-if-error":
			cd.StaleIfError = &n
		default:
			return CacheDirectives{}, grammarErrf("Unknown directive %q", name)
		}
	}

	// Cross-directive consistency.
	if cd.Public && cd.Private {
		return CacheDirectives{}, conflictErrf("Directives public and private cannot be combined")
	}
	if cd.MaxAge != nil && cd.StaleWhileRevalidate != nil {
		return CacheDirectives{}, conflictErrf("Directives max-age and stale-while-revalidate cannot be combined")
	}
	return cd, nil
}

func encodeCacheControl(cd CacheDirectives) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	write := func(d string) {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d)
	}
	writeArg := func(d string, n *int64) {
		if n != nil {
			write(d + "=" + strconv.FormatInt(*n, 10))
		}
	}

	if cd.Public {
		write("public")
	}
	if cd.Private {
		write("private")
	}
	if cd.NoCache {
		write("no-cache")
	}
	if cd.NoStore {
		write("no-store")
	}
	if cd.NoTransform {
		write("no-transform")
	}
	if cd.MustRevalidate {
		write("must-revalidate")
	}
	if cd.ProxyRevalidate {
		write("proxy-revalidate")
	}
	if cd.OnlyIfCached {
		write("only-if-cached")
	}
	if cd.Immutable {
		write("immutable")
	}
	writeArg("max-age", cd.MaxAge)
	writeArg("s-maxage", cd.SMaxAge)
	writeArg("min-fresh", cd.MinFresh)
	if cd.MaxStaleAny {
		write("max-stale")
	} else {
		writeArg("max-stale", cd.MaxStale)
	}
	writeArg("stale-while-revalidate", cd.StaleWhileRevalidate)
	writeArg("stale-if-error", cd.StaleIfError)
	return sb.String()
}

var CacheControl = register(New[CacheDirectives]("Cache-Control", CommaList, decodeCacheControl, encodeCacheControl))
