package codec

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/vvka-141/pep263/pkg/pep263"
)

// DefaultCacheSize is the number of distinct names a Registry remembers.
const DefaultCacheSize = 256

// Codec is a resolved encoding name.
type Codec struct {
	// Name is the name as it was looked up.
	Name string

	// Canonical is the IANA name of the implementation, e.g. "UTF-8" for
	// "utf_8", or the Python codec name (e.g. "big5hkscs") when there is none.
	Canonical string

	// Encoding is the x/text implementation. It is nil for codecs x/text does
	// not implement (e.g. big5hkscs, idna, the bytes-to-bytes codecs).
	Encoding encoding.Encoding
}

type lookupResult struct {
	codec Codec
	ok    bool
}

// Registry resolves encoding names. It is safe for concurrent use by multiple
// goroutines.
type Registry struct {
	cache *lru.Cache[string, lookupResult]
}

// NewRegistry creates a Registry that caches up to size lookups.
func NewRegistry(size int) (*Registry, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, lookupResult](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create codec cache: %w", err)
	}
	return &Registry{cache: cache}, nil
}

// Default is the process-wide registry used when no other is injected.
var Default = mustNewRegistry()

func mustNewRegistry() *Registry {
	r, err := NewRegistry(DefaultCacheSize)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup resolves name. The boolean is false when name is not a known encoding.
func (r *Registry) Lookup(name string) (Codec, bool) {
	if res, ok := r.cache.Get(name); ok {
		return res.codec, res.ok
	}
	c, ok := resolve(name)
	r.cache.Add(name, lookupResult{codec: c, ok: ok})
	return c, ok
}

// Validate resolves name, returning *pep263.InvalidEncodingError when it is unknown.
func (r *Registry) Validate(name string) (Codec, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return Codec{}, &pep263.InvalidEncodingError{Name: name}
	}
	return c, nil
}

// Validate resolves name against the Default registry.
func Validate(name string) (Codec, error) {
	return Default.Validate(name)
}

// resolve looks name up the way Python's codecs.lookup does: normalize it,
// map it through the alias table, then try the result and the normalized name
// as codec module names. The x/text encoding is attached afterwards, so a name
// without an x/text equivalent is still valid.
func resolve(name string) (Codec, bool) {
	norm := normalizeName(name)
	if norm == "" {
		return Codec{}, false
	}

	modules := []string{norm}
	alias, ok := pythonAliases[norm]
	if !ok {
		alias, ok = pythonAliases[strings.ReplaceAll(norm, ".", "_")]
	}
	if ok {
		modules = []string{alias, norm}
	}

	for _, module := range modules {
		if strings.Contains(module, ".") {
			continue
		}
		pc, ok := pythonCodecs[module]
		if !ok {
			continue
		}
		enc := implementation(pc.label)
		canonical := pc.name
		if enc != nil {
			canonical = canonicalName(enc, pc.name)
		}
		return Codec{Name: name, Canonical: canonical, Encoding: enc}, true
	}
	return Codec{}, false
}

// normalizeName lowercases name and collapses every run of characters other
// than letters, digits and '.' into a single underscore, dropping leading and
// trailing runs.
func normalizeName(name string) string {
	var b strings.Builder
	punct := false
	for _, r := range strings.ToLower(name) {
		if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.') {
			if punct && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			punct = false
			continue
		}
		punct = true
	}
	return b.String()
}

// implementation returns the x/text encoding registered under label, or nil.
// IANA is consulted first since WHATWG folds several labels (ascii,
// iso-8859-1, iso-8859-9) into Windows code pages.
func implementation(label string) encoding.Encoding {
	if label == "" {
		return nil
	}
	if enc, err := ianaindex.IANA.Encoding(label); err == nil {
		return enc
	}
	if enc, err := htmlindex.Get(label); err == nil {
		return enc
	}
	return nil
}

func canonicalName(enc encoding.Encoding, fallback string) string {
	if n, err := ianaindex.IANA.Name(enc); err == nil && n != "" {
		return n
	}
	if n, err := htmlindex.Name(enc); err == nil && n != "" {
		return n
	}
	return fallback
}
