// Package codec recognises encoding declarations and validates encoding names.
//
// Match applies the declaration pattern to a single line and returns the raw
// name it captures. A Registry decides whether a captured name denotes a known
// text encoding, using the IANA and WHATWG indexes from golang.org/x/text plus a
// table of common interpreter-specific aliases. Lookups are case-insensitive and
// memoised in an LRU cache, so validating the same name across thousands of
// files costs one resolution.
package codec
