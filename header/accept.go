package header

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// MediaType is a MIME type with its parameters, the value type of the
// Content-Type header.
type MediaType struct {
	Type    string
	Subtype string
	Params  Values
}

func (mt MediaType) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	writeMediaType(sb, mt)
	return sb.String()
}

// IsWildcard reports whether the media type matches any type.
func (mt MediaType) IsWildcard() bool { return mt.Type == "*" && mt.Subtype == "*" }

func (mt MediaType) Equal(other MediaType) bool {
	return mt.Type == other.Type && mt.Subtype == other.Subtype && mt.Params.Equal(other.Params)
}

// MediaRange is one element of the Accept header: a media type pattern with
// a quality weight.
type MediaRange struct {
	MediaType
	Quality float64
}

func (rng MediaRange) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	writeMediaType(sb, rng.MediaType)
	if rng.Quality != 1 {
		sb.WriteString(";q=")
		sb.WriteString(grammar.FormatQuality(rng.Quality))
	}
	return sb.String()
}

func writeMediaType(sb *strings.Builder, mt MediaType) {
	sb.WriteString(mt.Type)
	sb.WriteByte('/')
	sb.WriteString(mt.Subtype)
	for _, k := range mt.Params.SortedKeys() {
		v, _ := mt.Params.Last(k)
		sb.WriteByte(';')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(grammar.QuoteIfNeeded(v))
	}
}

func parseMediaType(s string, allowWildcard bool) (MediaType, error) {
	var mt MediaType
	mime, params, _ := strings.Cut(s, ";")
	t, sub, ok := strings.Cut(util.TrimSP(mime), "/")
	if !ok {
		return mt, grammarErrf("Invalid media type %q", util.TrimSP(mime))
	}
	// MIME type and subtype are case-insensitive, fold to lowercase.
	mt.Type = util.LCase(util.TrimSP(t))
	mt.Subtype = util.LCase(util.TrimSP(sub))
	switch {
	case mt.Type == "*" && mt.Subtype != "*":
		// "*/plain" is never a valid range.
		return mt, grammarErrf("Invalid media type %q", mt.Type+"/"+mt.Subtype)
	case mt.Subtype == "*":
		if !allowWildcard || !grammar.IsToken(mt.Type) {
			return mt, grammarErrf("Invalid media type %q", mt.Type+"/"+mt.Subtype)
		}
	case grammar.IsToken(mt.Type) && grammar.IsToken(mt.Subtype):
	default:
		return mt, grammarErrf("Invalid media type %q", mt.Type+"/"+mt.Subtype)
	}

	for _, kv := range grammar.Params(params, ';') {
		if util.EqFold(kv[0], "q") {
			continue
		}
		if !grammar.IsToken(kv[0]) {
			return mt, grammarErrf("Invalid parameter name %q", kv[0])
		}
		if mt.Params == nil {
			mt.Params = make(Values)
		}
		mt.Params.Set(util.LCase(kv[0]), grammar.Unquote(kv[1]))
	}
	return mt, nil
}

func decodeAccept(s string) ([]MediaRange, error) {
	elems := grammar.SplitList(s)
	if len(elems) == 0 {
		return nil, ErrEmptyValue
	}

	ranges := make([]MediaRange, 0, len(elems))
	seen := make(map[string]bool, len(elems))
	for _, e := range elems {
		mt, err := parseMediaType(e, true)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		rng := MediaRange{MediaType: mt, Quality: 1}
		_, params, _ := strings.Cut(e, ";")
		for _, kv := range grammar.Params(params, ';') {
			if !util.EqFold(kv[0], "q") {
				continue
			}
			q, ok := grammar.ParseQuality(kv[1])
			if !ok {
				return nil, ErrInvalidQuality
			}
			rng.Quality = q
		}
		key := rng.Type + "/" + rng.Subtype
		if seen[key] {
			continue
		}
		seen[key] = true
		ranges = append(ranges, rng)
	}
	return ranges, nil
}

func encodeAccept(ranges []MediaRange) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := range ranges {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(ranges[i].String())
	}
	return sb.String()
}

func decodeContentType(s string) (MediaType, error) {
	return errtrace.Wrap2(parseMediaType(s, false))
}

func encodeContentType(mt MediaType) string { return mt.String() }

var (
	Accept      = register(New[[]MediaRange]("Accept", CommaList, decodeAccept, encodeAccept))
	ContentType = register(New[MediaType]("Content-Type", SingleLine, decodeContentType, encodeContentType))
)
