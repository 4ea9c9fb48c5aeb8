package header_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/httpheader/header"
)

func TestCookie_Decode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     []string
		want    []header.CookiePair
		wantErr string
	}{
		{
			"pair list",
			[]string{"sid=abc123; theme=dark"},
			[]header.CookiePair{{Name: "sid", Value: "abc123"}, {Name: "theme", Value: "dark"}},
			"",
		},
		{
			"duplicate name keeps first",
			[]string{"sid=abc; sid=def; theme=dark"},
			[]header.CookiePair{{Name: "sid", Value: "abc"}, {Name: "theme", Value: "dark"}},
			"",
		},
		{
			"combined lines",
			[]string{"sid=abc", "theme=dark"},
			[]header.CookiePair{{Name: "sid", Value: "abc"}, {Name: "theme", Value: "dark"}},
			"",
		},
		{
			"quoted value",
			[]string{`sid="abc123"`},
			[]header.CookiePair{{Name: "sid", Value: `"abc123"`}},
			"",
		},
		{"bare token", []string{"sid"}, nil, "Invalid cookie pair"},
		{"name not a token", []string{"s id=abc"}, nil, "Invalid cookie name"},
		{"value with forbidden bytes", []string{"sid=a,b c"}, nil, "Invalid cookie value"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.Cookie.Decode(c.raw)
			if c.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), c.wantErr) {
					t.Fatalf("Decode(%q) error = %v, want %q", c.raw, err, c.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) error: %v", c.raw, err)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", c.raw, diff)
			}
		})
	}
}

func TestSetCookie_Decode(t *testing.T) {
	t.Parallel()

	expires := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		raw     string
		want    header.CookieSpec
		wantErr string
	}{
		{
			"pair only",
			"sid=abc123",
			header.CookieSpec{Name: "sid", Value: "abc123"},
			"",
		},
		{
			"full attribute set",
			"sid=abc123; Path=/; Domain=Example.COM; Expires=Thu, 01 Jan 2026 00:00:00 GMT; Max-Age=3600; Secure; HttpOnly; SameSite=Lax; Partitioned",
			header.CookieSpec{
				Name: "sid", Value: "abc123",
				Path: "/", Domain: "example.com", Expires: expires, MaxAge: i64(3600),
				Secure: true, HTTPOnly: true, SameSite: "Lax", Partitioned: true,
			},
			"",
		},
		{
			"negative max-age",
			"sid=; Max-Age=-1",
			header.CookieSpec{Name: "sid", MaxAge: i64(-1)},
			"",
		},
		{
			"samesite case folds",
			"sid=abc; SameSite=strict",
			header.CookieSpec{Name: "sid", Value: "abc", SameSite: "Strict"},
			"",
		},
		{"duplicate attribute", "sid=abc; Path=/; Path=/x", header.CookieSpec{}, `Duplicate attribute "path"`},
		{"unknown attribute", "sid=abc; Color=red", header.CookieSpec{}, `Unknown attribute "color"`},
		{"secure with argument", "sid=abc; Secure=yes", header.CookieSpec{}, "Invalid attribute value"},
		{"bad expires", "sid=abc; Expires=tomorrow", header.CookieSpec{}, "Invalid attribute value"},
		{"bad samesite", "sid=abc; SameSite=Sometimes", header.CookieSpec{}, "Invalid attribute value"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.SetCookie.Decode([]string{c.raw})
			if c.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), c.wantErr) {
					t.Fatalf("Decode(%q) error = %v, want %q", c.raw, err, c.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) error: %v", c.raw, err)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", c.raw, diff)
			}
		})
	}
}

func TestSetCookie_RoundTrip(t *testing.T) {
	t.Parallel()

	wires := []string{
		"sid=abc123",
		"sid=abc123; Path=/; Secure; HttpOnly",
		"sid=abc123; Domain=example.com; Max-Age=3600; SameSite=None; Partitioned",
	}
	for _, wire := range wires {
		v, err := header.SetCookie.Decode([]string{wire})
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", wire, err)
		}
		if diff := cmp.Diff([]string{wire}, header.SetCookie.Encode(v)); diff != "" {
			t.Errorf("Encode mismatch for %q (-want +got):\n%s", wire, diff)
		}
	}
}
