package header_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/httpheader/header"
)

func TestContentSecurityPolicy_Decode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		want    []header.PolicyDirective
		wantErr string
	}{
		{
			"directives with sources",
			"default-src 'self'; script-src 'self' https://cdn.example.com; upgrade-insecure-requests",
			[]header.PolicyDirective{
				{Name: "default-src", Values: []string{"'self'"}},
				{Name: "script-src", Values: []string{"'self'", "https://cdn.example.com"}},
				{Name: "upgrade-insecure-requests"},
			},
			"",
		},
		{
			"names fold to lowercase",
			"Default-Src 'none'",
			[]header.PolicyDirective{{Name: "default-src", Values: []string{"'none'"}}},
			"",
		},
		{
			"duplicate directive",
			"default-src 'self'; default-src 'none'",
			nil,
			`Duplicate directive "default-src"`,
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.ContentSecurityPolicy.Decode([]string{c.raw})
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

func TestContentSecurityPolicy_RoundTrip(t *testing.T) {
	t.Parallel()

	wire := "default-src 'self'; script-src 'self' https://cdn.example.com; upgrade-insecure-requests"
	v, err := header.ContentSecurityPolicy.Decode([]string{wire})
	if err != nil {
		t.Fatalf("Decode(%q) error: %v", wire, err)
	}
	if diff := cmp.Diff([]string{wire}, header.ContentSecurityPolicy.Encode(v)); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%s", diff)
	}
}

func TestPermissionsPolicy_Decode(t *testing.T) {
	t.Parallel()

	got, err := header.PermissionsPolicy.Decode([]string{`camera=(), geolocation=(self "https://maps.example.com")`})
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	want := []header.Param{
		{Name: "camera", Value: "()"},
		{Name: "geolocation", Value: `(self "https://maps.example.com")`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := header.PermissionsPolicy.Decode([]string{"camera=(), camera=*"}); err == nil ||
		!strings.Contains(err.Error(), `Duplicate feature "camera"`) {
		t.Errorf("duplicate feature error = %v", err)
	}
}

func TestStrictTransportSecurity_Decode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		want    header.HSTSPolicy
		wantErr string
	}{
		{
			"full policy",
			"max-age=31536000; includeSubDomains; preload",
			header.HSTSPolicy{MaxAge: 31536000, IncludeSubDomains: true, Preload: true},
			"",
		},
		{
			"max-age only",
			"max-age=0",
			header.HSTSPolicy{},
			"",
		},
		{
			"quoted max-age",
			`max-age="600"`,
			header.HSTSPolicy{MaxAge: 600},
			"",
		},
		{"missing max-age", "includeSubDomains", header.HSTSPolicy{}, "Max-age is required and cannot be empty"},
		{"negative max-age", "max-age=-1", header.HSTSPolicy{}, "Invalid directive value"},
		{"unknown directive", "max-age=60; lockdown", header.HSTSPolicy{}, `Unknown directive "lockdown"`},
		{"duplicate directive", "max-age=60; max-age=120", header.HSTSPolicy{}, `Duplicate directive "max-age"`},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.StrictTransportSecurity.Decode([]string{c.raw})
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

func TestStrictTransportSecurity_RoundTrip(t *testing.T) {
	t.Parallel()

	wires := []string{"max-age=31536000; includeSubDomains; preload", "max-age=0"}
	for _, wire := range wires {
		v, err := header.StrictTransportSecurity.Decode([]string{wire})
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", wire, err)
		}
		if diff := cmp.Diff([]string{wire}, header.StrictTransportSecurity.Encode(v)); diff != "" {
			t.Errorf("Encode mismatch for %q (-want +got):\n%s", wire, diff)
		}
	}
}
