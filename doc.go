// Package httpheader turns raw, possibly repeated, case-insensitive HTTP
// header text into strongly-typed, validated values, and back into wire
// text.
//
// Raw header lines arrive from the transport as a [Table]. A [Store] built
// over the table exposes typed accessors through the descriptor registry of
// the header subpackage:
//
//	tbl := httpheader.NewTable().
//		Add("Accept-Encoding", "gzip, deflate;q=0.5")
//	st, _ := httpheader.NewStore(tbl, httpheader.Strict)
//	enc, ok, err := httpheader.Get(st, header.AcceptEncoding)
//
// Each header is decoded lazily on first access and exactly once per
// request; the outcome is memoized. [Strict] stores surface a failed
// decode of an accessed header as a [BadRequestError]; [Lenient] stores
// return the value as absent and retain the failure in [Store.Failures].
package httpheader
