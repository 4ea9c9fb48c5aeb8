package httpheader

import (
	"io"

	"braces.dev/errtrace"
	"github.com/valyala/bytebufferpool"

	"github.com/ghettovoice/httpheader/header"
)

// Table is a case-insensitive multimap from header name to the ordered raw
// values the transport received for it. A Table is populated once from the
// transport and treated as read-only for the lifetime of the [Store] that
// owns it; the encode boundary mutates tables of outgoing responses only.
type Table struct {
	names []header.Name
	m     map[header.Name][]string
}

// NewTable creates an empty header table.
func NewTable() *Table {
	return &Table{m: make(map[header.Name][]string)}
}

// Add appends a raw header line value under name.
func (t *Table) Add(name, value string) *Table {
	cn := header.CanonicName(name)
	if _, ok := t.m[cn]; !ok {
		t.names = append(t.names, cn)
	}
	t.m[cn] = append(t.m[cn], value)
	return t
}

// SetRaw replaces all values under name.
func (t *Table) SetRaw(name string, values []string) *Table {
	cn := header.CanonicName(name)
	if _, ok := t.m[cn]; !ok {
		t.names = append(t.names, cn)
	}
	t.m[cn] = values
	return t
}

// Values returns the raw values stored under name.
func (t *Table) Values(name header.Name) ([]string, bool) {
	v, ok := t.m[name.ToCanonic()]
	return v, ok
}

// Has checks whether the table contains the header.
func (t *Table) Has(name header.Name) bool {
	_, ok := t.m[name.ToCanonic()]
	return ok
}

// Names returns the header names in first-seen order.
func (t *Table) Names() []header.Name {
	names := make([]header.Name, len(t.names))
	copy(names, t.names)
	return names
}

// Len returns the number of distinct header names.
func (t *Table) Len() int { return len(t.names) }

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	t2 := NewTable()
	for _, n := range t.names {
		for _, v := range t.m[n] {
			t2.Add(string(n), v)
		}
	}
	return t2
}

// WriteTo renders the table in wire form, one "Name: value" line per raw
// value, in first-seen order.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	for _, n := range t.names {
		for _, v := range t.m[n] {
			buf.WriteString(string(n)) //nolint:errcheck
			buf.WriteString(": ")      //nolint:errcheck
			buf.WriteString(v)         //nolint:errcheck
			buf.WriteString("\r\n")    //nolint:errcheck
		}
	}
	num, err := w.Write(buf.B)
	return int64(num), errtrace.Wrap(err)
}

func (t *Table) String() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	t.WriteTo(buf) //nolint:errcheck
	return buf.String()
}
