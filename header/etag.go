package header

import (
	"strings"
	"time"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// EntityTag is an RFC 7232 entity tag: an opaque quoted value with an
// optional weakness flag.
type EntityTag struct {
	Weak   bool
	Opaque string
}

func (t EntityTag) String() string {
	if t.Weak {
		return `W/"` + t.Opaque + `"`
	}
	return `"` + t.Opaque + `"`
}

// Match compares two tags using strong comparison: both must be strong and
// their opaque values must be identical.
func (t EntityTag) Match(other EntityTag) bool {
	return !t.Weak && !other.Weak && t.Opaque == other.Opaque
}

// MatchWeak compares two tags using weak comparison: only the opaque values
// have to be identical.
func (t EntityTag) MatchWeak(other EntityTag) bool {
	return t.Opaque == other.Opaque
}

func parseEntityTag(s string) (EntityTag, bool) {
	var t EntityTag
	if strings.HasPrefix(s, "W/") {
		t.Weak = true
		s = s[2:]
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return t, false
	}
	opaque := s[1 : len(s)-1]
	// etagc excludes DQUOTE; no escaping exists inside an entity tag.
	if strings.ContainsAny(opaque, `"`) {
		return t, false
	}
	t.Opaque = opaque
	return t, true
}

// EntityTagSet is the value type of If-Match and If-None-Match: either a
// list of entity tags or the "*" wildcard.
type EntityTagSet struct {
	Tags     []EntityTag
	Wildcard bool
}

func (ts EntityTagSet) String() string { return encodeETagSet(ts) }

func decodeETagSet(s string) (EntityTagSet, error) {
	elems := grammar.SplitListUnique(s)
	if len(elems) == 0 {
		return EntityTagSet{}, ErrEmptyValue
	}

	var ts EntityTagSet
	for _, e := range elems {
		if e == "*" {
			if len(elems) > 1 {
				return EntityTagSet{}, ErrWildcardConflict
			}
			ts.Wildcard = true
			return ts, nil
		}
		t, ok := parseEntityTag(e)
		if !ok {
			return EntityTagSet{}, ErrInvalidETag
		}
		ts.Tags = append(ts.Tags, t)
	}
	return ts, nil
}

func encodeETagSet(ts EntityTagSet) string {
	if ts.Wildcard {
		return "*"
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i := range ts.Tags {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(ts.Tags[i].String())
	}
	return sb.String()
}

func decodeEntityTag(s string) (EntityTag, error) {
	t, ok := parseEntityTag(s)
	if !ok {
		return EntityTag{}, ErrInvalidETag
	}
	return t, nil
}

func encodeEntityTag(t EntityTag) string { return t.String() }

// IfRangeSpec is the value type of If-Range: either an entity tag or an
// HTTP-date, never both.
type IfRangeSpec struct {
	Tag  *EntityTag
	Time *time.Time
}

func (ir IfRangeSpec) String() string { return encodeIfRange(ir) }

func decodeIfRange(s string) (IfRangeSpec, error) {
	if s[0] == '"' || strings.HasPrefix(s, "W/") {
		t, ok := parseEntityTag(s)
		if !ok {
			return IfRangeSpec{}, ErrInvalidETag
		}
		return IfRangeSpec{Tag: &t}, nil
	}
	d, err := grammar.ParseHTTPDate(s)
	if err != nil {
		return IfRangeSpec{}, grammarErrf("Invalid date %q", s)
	}
	return IfRangeSpec{Time: &d}, nil
}

func encodeIfRange(ir IfRangeSpec) string {
	if ir.Tag != nil {
		return ir.Tag.String()
	}
	if ir.Time != nil {
		return grammar.FormatHTTPDate(*ir.Time)
	}
	return ""
}

var (
	ETag        = register(New[EntityTag]("ETag", SingleLine, decodeEntityTag, encodeEntityTag))
	IfMatch     = register(New[EntityTagSet]("If-Match", CommaList, decodeETagSet, encodeETagSet))
	IfNoneMatch = register(New[EntityTagSet]("If-None-Match", CommaList, decodeETagSet, encodeETagSet))
	IfRange     = register(New[IfRangeSpec]("If-Range", SingleLine, decodeIfRange, encodeIfRange))
)
