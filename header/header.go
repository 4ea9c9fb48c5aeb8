// Package header implements typed HTTP header values and their codecs.
//
// Each supported header has a [Descriptor] pairing its name with a decode
// and an encode function built from the shared grammar primitives. The
// descriptors form a process-wide registry that the header store consults;
// no decode logic for a header exists outside its descriptor.
package header

//go:generate go tool errtrace -w .

import (
	"maps"
	"net/textproto"
	"slices"

	"github.com/ghettovoice/httpheader/internal/grammar"
	"github.com/ghettovoice/httpheader/internal/util"
)

// Name represents an HTTP header name.
type Name string

// ToCanonic converts the Name to its canonical form.
func (n Name) ToCanonic() Name { return CanonicName(n) }

// IsValid checks whether the Name is syntactically valid.
func (n Name) IsValid() bool { return grammar.IsToken(n) }

// Equal compares this Name with another for equality.
func (n Name) Equal(val any) bool {
	var other Name
	switch v := val.(type) {
	case Name:
		other = v
	case *Name:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return CanonicName(n) == CanonicName(other)
}

var hdrNames = map[string]Name{
	"Etag":             "ETag",
	"Te":               "TE",
	"Www-Authenticate": "WWW-Authenticate",
}

// CanonicName converts name to the canonical form.
// The canonicalization converts the first letter and any letter following a
// hyphen to upper case; the rest are converted to lowercase. For example,
// the canonical name for "accept-encoding" is "Accept-Encoding". Names with
// irregular canonical spelling (ETag, TE, WWW-Authenticate) are mapped to it.
func CanonicName[T ~string](name T) Name {
	name = util.TrimSP(name)
	if n, ok := hdrNames[string(name)]; ok {
		return n
	}

	name = T(textproto.CanonicalMIMEHeaderKey(string(name)))
	if n, ok := hdrNames[string(name)]; ok {
		return n
	}
	return Name(name)
}

// Param is a single named parameter of a header element.
// Headers whose parameter order is significant (Content-Disposition,
// Forwarded and friends) carry ordered Param slices instead of a [Values].
type Param struct {
	Name  string
	Value string
}

// Values maps a string key to a list of string values.
// The keys in the map are case-insensitive.
// It is typically used to store header element parameters.
type Values map[string][]string

// Get returns values associated with the given key.
// If there are no values associated with the key, Get returns the empty slice.
func (vals Values) Get(key string) []string { return vals[util.LCase(key)] }

func (vals Values) First(key string) (string, bool) {
	v := vals[util.LCase(key)]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func (vals Values) Last(key string) (string, bool) {
	v := vals[util.LCase(key)]
	if len(v) == 0 {
		return "", false
	}
	return v[len(v)-1], true
}

// Set sets the key to value. It replaces any existing values.
func (vals Values) Set(key, value string) Values {
	vals[util.LCase(key)] = []string{value}
	return vals
}

func (vals Values) Append(key, value string) Values {
	key = util.LCase(key)
	vals[key] = append(vals[key], value)
	return vals
}

// Del deletes the values associated with the key.
func (vals Values) Del(key string) Values {
	delete(vals, util.LCase(key))
	return vals
}

// Has checks whether a given key is in the list.
func (vals Values) Has(key string) bool {
	_, ok := vals[util.LCase(key)]
	return ok
}

// Clone returns a deep copy of the map.
func (vals Values) Clone() Values {
	if vals == nil {
		return nil
	}
	vals2 := make(Values, len(vals))
	for k, v := range vals {
		vals2[k] = slices.Clone(v)
	}
	return vals2
}

// Equal compares two value maps for equality.
func (vals Values) Equal(other Values) bool {
	return maps.EqualFunc(vals, other, slices.Equal)
}

// SortedKeys returns the keys of the map in alphabet order.
func (vals Values) SortedKeys() []string {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
