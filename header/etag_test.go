package header_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/httpheader/header"
)

func TestETag_Decode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		want    header.EntityTag
		wantErr error
	}{
		{"strong", `"xyzzy"`, header.EntityTag{Opaque: "xyzzy"}, nil},
		{"weak", `W/"xyzzy"`, header.EntityTag{Weak: true, Opaque: "xyzzy"}, nil},
		{"empty opaque", `""`, header.EntityTag{}, nil},
		{"unquoted", "xyzzy", header.EntityTag{}, header.ErrInvalidETag},
		{"lone quote", `"`, header.EntityTag{}, header.ErrInvalidETag},
		{"inner quote", `"xy"zy"`, header.EntityTag{}, header.ErrInvalidETag},
		{"lowercase weak prefix", `w/"xyzzy"`, header.EntityTag{}, header.ErrInvalidETag},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.ETag.Decode([]string{c.raw})
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("Decode(%q) error = %v, want %v", c.raw, err, c.wantErr)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", c.raw, diff)
			}
		})
	}
}

func TestEntityTag_Match(t *testing.T) {
	t.Parallel()

	strong := header.EntityTag{Opaque: "v1"}
	weak := header.EntityTag{Weak: true, Opaque: "v1"}

	if !strong.Match(strong) {
		t.Error("strong comparison must match identical strong tags")
	}
	if strong.Match(weak) || weak.Match(weak) {
		t.Error("strong comparison must fail when either tag is weak")
	}
	if !strong.MatchWeak(weak) || !weak.MatchWeak(weak) {
		t.Error("weak comparison must match identical opaque values")
	}
}

func TestIfMatch_Decode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     []string
		want    header.EntityTagSet
		wantErr error
	}{
		{
			"tag list",
			[]string{`"a", W/"b"`},
			header.EntityTagSet{Tags: []header.EntityTag{{Opaque: "a"}, {Weak: true, Opaque: "b"}}},
			nil,
		},
		{
			"sole wildcard",
			[]string{"*"},
			header.EntityTagSet{Wildcard: true},
			nil,
		},
		{
			"combined lines",
			[]string{`"a"`, `"b"`},
			header.EntityTagSet{Tags: []header.EntityTag{{Opaque: "a"}, {Opaque: "b"}}},
			nil,
		},
		{"wildcard with tags", []string{`*, "a"`}, header.EntityTagSet{}, header.ErrWildcardConflict},
		{"tag then wildcard", []string{`"a", *`}, header.EntityTagSet{}, header.ErrWildcardConflict},
		{"invalid tag", []string{"abc"}, header.EntityTagSet{}, header.ErrInvalidETag},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.IfMatch.Decode(c.raw)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("Decode(%q) error = %v, want %v", c.raw, err, c.wantErr)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", c.raw, diff)
			}
		})
	}
}

func TestIfRange_Decode(t *testing.T) {
	t.Parallel()

	tagVal, err := header.IfRange.Decode([]string{`W/"v1"`})
	if err != nil {
		t.Fatalf("Decode(tag) error: %v", err)
	}
	if tagVal.Tag == nil || tagVal.Time != nil || !tagVal.Tag.Weak || tagVal.Tag.Opaque != "v1" {
		t.Errorf("Decode(tag) = %+v, want weak v1 tag", tagVal)
	}

	dateVal, err := header.IfRange.Decode([]string{"Sat, 29 Oct 1994 19:43:31 GMT"})
	if err != nil {
		t.Fatalf("Decode(date) error: %v", err)
	}
	want := time.Date(1994, time.October, 29, 19, 43, 31, 0, time.UTC)
	if dateVal.Time == nil || dateVal.Tag != nil || !dateVal.Time.Equal(want) {
		t.Errorf("Decode(date) = %+v, want %v", dateVal, want)
	}
}

func TestIfMatch_RoundTrip(t *testing.T) {
	t.Parallel()

	wires := []string{`"a", W/"b"`, "*", `""`}
	for _, wire := range wires {
		v, err := header.IfMatch.Decode([]string{wire})
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", wire, err)
		}
		if diff := cmp.Diff([]string{wire}, header.IfMatch.Encode(v)); diff != "" {
			t.Errorf("Encode mismatch for %q (-want +got):\n%s", wire, diff)
		}
	}
}
