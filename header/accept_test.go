package header_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/httpheader/header"
)

func TestAccept_Decode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     []string
		want    []header.MediaRange
		wantErr string
	}{
		{
			"weighted ranges",
			[]string{"text/html, application/json;q=0.9, */*;q=0.1"},
			[]header.MediaRange{
				{MediaType: header.MediaType{Type: "text", Subtype: "html"}, Quality: 1},
				{MediaType: header.MediaType{Type: "application", Subtype: "json"}, Quality: 0.9},
				{MediaType: header.MediaType{Type: "*", Subtype: "*"}, Quality: 0.1},
			},
			"",
		},
		{
			"subtype wildcard",
			[]string{"text/*"},
			[]header.MediaRange{{MediaType: header.MediaType{Type: "text", Subtype: "*"}, Quality: 1}},
			"",
		},
		{
			"media parameters kept, q excluded",
			[]string{"text/html;level=1;q=0.8"},
			[]header.MediaRange{{
				MediaType: header.MediaType{Type: "text", Subtype: "html", Params: header.Values{"level": {"1"}}},
				Quality:   0.8,
			}},
			"",
		},
		{
			"type folds to lowercase",
			[]string{"Text/HTML"},
			[]header.MediaRange{{MediaType: header.MediaType{Type: "text", Subtype: "html"}, Quality: 1}},
			"",
		},
		{
			"duplicate type dropped",
			[]string{"text/html, text/html;q=0.5"},
			[]header.MediaRange{{MediaType: header.MediaType{Type: "text", Subtype: "html"}, Quality: 1}},
			"",
		},
		{"wildcard type with concrete subtype", []string{"*/plain"}, nil, "Invalid media type"},
		{"missing slash", []string{"text"}, nil, "Invalid media type"},
		{"bad quality", []string{"text/html;q=abc"}, nil, "Invalid quality value"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.Accept.Decode(c.raw)
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

func TestContentType_Decode(t *testing.T) {
	t.Parallel()

	got, err := header.ContentType.Decode([]string{`text/html; charset="utf-8"`})
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	want := header.MediaType{Type: "text", Subtype: "html", Params: header.Values{"charset": {"utf-8"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// Content-Type names a concrete type; ranges are not allowed.
	if _, err := header.ContentType.Decode([]string{"text/*"}); err == nil {
		t.Error("wildcard subtype must be rejected")
	}
	if _, err := header.ContentType.Decode([]string{"*/*"}); err == nil {
		t.Error("full wildcard must be rejected")
	}
}

func TestContentType_RoundTrip(t *testing.T) {
	t.Parallel()

	wires := []string{
		"text/html",
		"application/json;charset=utf-8",
		`multipart/form-data;boundary="simple boundary"`,
	}
	for _, wire := range wires {
		v, err := header.ContentType.Decode([]string{wire})
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", wire, err)
		}
		if diff := cmp.Diff([]string{wire}, header.ContentType.Encode(v)); diff != "" {
			t.Errorf("Encode mismatch for %q (-want +got):\n%s", wire, diff)
		}
	}
}

func TestAccept_RoundTrip(t *testing.T) {
	t.Parallel()

	wire := "text/html, application/json;q=0.9, */*;q=0.1"
	v, err := header.Accept.Decode([]string{wire})
	if err != nil {
		t.Fatalf("Decode(%q) error: %v", wire, err)
	}
	if diff := cmp.Diff([]string{wire}, header.Accept.Encode(v)); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%s", diff)
	}
}

func TestMediaType_Equal(t *testing.T) {
	t.Parallel()

	a := header.MediaType{Type: "text", Subtype: "html", Params: header.Values{"level": {"1"}}}
	b := header.MediaType{Type: "text", Subtype: "html", Params: header.Values{"level": {"1"}}}
	c := header.MediaType{Type: "text", Subtype: "html"}

	if !a.Equal(b) {
		t.Error("identical media types must be equal")
	}
	if a.Equal(c) {
		t.Error("parameter sets differ, types must not be equal")
	}
}
