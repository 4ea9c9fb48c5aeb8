package header

import (
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// ByteRange is one start-end pair of a Range header.
// A nil Start expresses a suffix range, a nil End an open-ended one.
type ByteRange struct {
	Start *int64
	End   *int64
}

func (r ByteRange) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	writeByteRange(sb, r)
	return sb.String()
}

func writeByteRange(sb *strings.Builder, r ByteRange) {
	if r.Start != nil {
		sb.WriteString(strconv.FormatInt(*r.Start, 10))
	}
	sb.WriteByte('-')
	if r.End != nil {
		sb.WriteString(strconv.FormatInt(*r.End, 10))
	}
}

// RangeSpec is the value type of the Range header.
type RangeSpec struct {
	Unit   string
	Ranges []ByteRange
}

func (rs RangeSpec) String() string { return encodeRange(rs) }

func decodeRange(s string) (RangeSpec, error) {
	unit, rest, ok := strings.Cut(s, "=")
	if !ok {
		return RangeSpec{}, ErrInvalidRange
	}
	rs := RangeSpec{Unit: util.LCase(util.TrimSP(unit))}
	if !grammar.IsToken(rs.Unit) {
		return RangeSpec{}, ErrInvalidRange
	}

	elems := grammar.SplitList(rest)
	if len(elems) == 0 {
		return RangeSpec{}, ErrEmptyRangeBounds
	}
	for _, e := range elems {
		r, err := parseByteRange(e)
		if err != nil {
			return RangeSpec{}, errtrace.Wrap(err)
		}
		rs.Ranges = append(rs.Ranges, r)
	}
	return rs, nil
}

func parseByteRange(e string) (ByteRange, error) {
	start, end, ok := strings.Cut(e, "-")
	if !ok {
		return ByteRange{}, ErrInvalidRange
	}
	start, end = util.TrimSP(start), util.TrimSP(end)
	if start == "" && end == "" {
		return ByteRange{}, ErrEmptyRangeBounds
	}

	var r ByteRange
	if start != "" {
		n, ok := grammar.ParseNonNegInt(start)
		if !ok {
			return ByteRange{}, ErrInvalidRange
		}
		r.Start = &n
	}
	if end != "" {
		n, ok := grammar.ParseNonNegInt(end)
		if !ok {
			return ByteRange{}, ErrInvalidRange
		}
		r.End = &n
	}
	if r.Start != nil && r.End != nil && *r.Start > *r.End {
		return ByteRange{}, ErrInvalidRange
	}
	return r, nil
}

func encodeRange(rs RangeSpec) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	sb.WriteString(rs.Unit)
	sb.WriteByte('=')
	for i := range rs.Ranges {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeByteRange(sb, rs.Ranges[i])
	}
	return sb.String()
}

// ContentRangeSpec is the value type of the Content-Range header.
// Nil Start and End express the "*/size" unsatisfied-range form;
// a nil Size means the complete length is unknown ("start-end/*").
type ContentRangeSpec struct {
	Unit  string
	Start *int64
	End   *int64
	Size  *int64
}

func (cr ContentRangeSpec) String() string { return encodeContentRange(cr) }

func decodeContentRange(s string) (ContentRangeSpec, error) {
	unit, rest, ok := strings.Cut(s, " ")
	if !ok {
		return ContentRangeSpec{}, ErrInvalidRange
	}
	cr := ContentRangeSpec{Unit: util.LCase(unit)}
	if !grammar.IsToken(cr.Unit) {
		return ContentRangeSpec{}, ErrInvalidRange
	}

	rng, size, ok := strings.Cut(util.TrimSP(rest), "/")
	if !ok {
		return ContentRangeSpec{}, ErrInvalidRange
	}

	if rng != "*" {
		start, end, ok := strings.Cut(rng, "-")
		if !ok {
			return ContentRangeSpec{}, ErrInvalidRange
		}
		if start == "" && end == "" {
			return ContentRangeSpec{}, ErrEmptyRangeBounds
		}
		ns, ok := grammar.ParseNonNegInt(start)
		if !ok {
			return ContentRangeSpec{}, ErrInvalidRange
		}
		ne, ok := grammar.ParseNonNegInt(end)
		if !ok {
			return ContentRangeSpec{}, ErrInvalidRange
		}
		if ns > ne {
			return ContentRangeSpec{}, ErrInvalidRange
		}
		cr.Start, cr.End = &ns, &ne
	}

	if size != "*" {
		n, ok := grammar.ParseNonNegInt(size)
		if !ok {
			return ContentRangeSpec{}, ErrInvalidRange
		}
		cr.Size = &n
	}
	return cr, nil
}

func encodeContentRange(cr ContentRangeSpec) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	sb.WriteString(cr.Unit)
	sb.WriteByte(' ')
	if cr.Start == nil && cr.End == nil {
		sb.WriteByte('*')
	} else {
		writeByteRange(sb, ByteRange{Start: cr.Start, End: cr.End})
	}
	sb.WriteByte('/')
	if cr.Size == nil {
		sb.WriteByte('*')
	} else {
		sb.WriteString(strconv.FormatInt(*cr.Size, 10))
	}
	return sb.String()
}

var (
	Range        = register(New[RangeSpec]("Range", SingleLine, decodeRange, encodeRange))
	ContentRange = register(New[ContentRangeSpec]("Content-Range", SingleLine, decodeContentRange, encodeContentRange))
)
