package grammar_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/httpheader/internal/grammar"
)

func TestIsToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"gzip", true},
		{"x-custom!#$", true},
		{"no/slash", false},
		{"no spaces", false},
		{"no\"quote", false},
		{"croissant\x7f", false},
	}

	for _, c := range cases {
		c := c
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()

			if got := grammar.IsToken(c.in); got != c.want {
				t.Errorf("IsToken(%q) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestSplitListUnique(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "gzip", []string{"gzip"}},
		{"trim", "  gzip ,   deflate ", []string{"gzip", "deflate"}},
		{"drop empties", "gzip,,, deflate,", []string{"gzip", "deflate"}},
		{"dedup keeps first", "gzip, gzip, deflate, br", []string{"gzip", "deflate", "br"}},
		{"dedup is case-sensitive", "GZip, gzip", []string{"GZip", "gzip"}},
		{"comma inside quotes", `a, "x,y", b`, []string{"a", `"x,y"`, "b"}},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(c.want, grammar.SplitListUnique(c.in)); diff != "" {
				t.Errorf("SplitListUnique(%q) mismatch (-want +got):\n%s", c.in, diff)
			}
		})
	}
}

func TestParams(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		sep  byte
		want [][2]string
	}{
		{"empty", "", ';', nil},
		{"single pair", "for=client", ';', [][2]string{{"for", "client"}}},
		{
			"multiple pairs",
			"for=client;by=proxy;proto=https",
			';',
			[][2]string{{"for", "client"}, {"by", "proxy"}, {"proto", "https"}},
		},
		{"missing eq skipped", "for=client;host;proto=https", ';', [][2]string{{"for", "client"}, {"proto", "https"}}},
		{"empty key skipped", "=client;proto=https", ';', [][2]string{{"proto", "https"}}},
		{"quoted value kept quoted", `for="[2001:db8::1]:8080"`, ';', [][2]string{{"for", `"[2001:db8::1]:8080"`}}},
		{"sep inside quotes", `for="a;b";proto=https`, ';', [][2]string{{"for", `"a;b"`}, {"proto", "https"}}},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(c.want, grammar.Params(c.in, c.sep)); diff != "" {
				t.Errorf("Params(%q, %q) mismatch (-want +got):\n%s", c.in, c.sep, diff)
			}
		})
	}
}

func TestParseQuality(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"1", 1, true},
		{"0", 0, true},
		{"0.5", 0.5, true},
		{"0.333", 0.333, true},
		{"1.0", 1, true},
		{"1.000", 1, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-0.1", 0, false},
		{"1.001", 0, false},
		{"2", 0, false},
		{"0.3333", 0, false},
		{"0.", 0, false},
		{".5", 0, false},
	}

	for _, c := range cases {
		c := c
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()

			got, ok := grammar.ParseQuality(c.in)
			if ok != c.wantOK || got != c.want {
				t.Errorf("ParseQuality(%q) = (%v, %v), want (%v, %v)", c.in, got, ok, c.want, c.wantOK)
			}
		})
	}
}

func TestQuoteUnquote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		value  string
		quoted string
	}{
		{"token stays bare", "gzip", "gzip"},
		{"space quoted", "hello world", `"hello world"`},
		{"colon quoted", "a:b", `"a:b"`},
		{"brackets quoted", "[2001:db8::1]", `"[2001:db8::1]"`},
		{"inner quote escaped", `say "hi"`, `"say \"hi\""`},
		{"empty quoted", "", `""`},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := grammar.QuoteIfNeeded(c.value); got != c.quoted {
				t.Errorf("QuoteIfNeeded(%q) = %q, want %q", c.value, got, c.quoted)
			}
			if got := grammar.Unquote(c.quoted); got != c.value {
				t.Errorf("Unquote(%q) = %q, want %q", c.quoted, got, c.value)
			}
		})
	}
}

func TestParseHTTPDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"imf-fixdate", "Sun, 06 Nov 1994 08:49:37 GMT", false},
		{"rfc 850", "Sunday, 06-Nov-94 08:49:37 GMT", false},
		{"asctime", "Sun Nov  6 08:49:37 1994", false},
		{"garbage", "yesterday", true},
		{"empty", "", true},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := grammar.ParseHTTPDate(c.in)
			if (err != nil) != c.wantErr {
				t.Fatalf("ParseHTTPDate(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
			}
			if err != nil {
				return
			}
			if want := "Sun, 06 Nov 1994 08:49:37 GMT"; grammar.FormatHTTPDate(got) != want {
				t.Errorf("FormatHTTPDate(ParseHTTPDate(%q)) = %q, want %q", c.in, grammar.FormatHTTPDate(got), want)
			}
		})
	}
}
