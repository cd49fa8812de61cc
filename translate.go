package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/poly1603/ldesign-i18n/pkg/cache"
	"github.com/poly1603/ldesign-i18n/pkg/interp"
	"github.com/poly1603/ldesign-i18n/pkg/plural"
)

// Params holds interpolation parameters for a translation request.
type Params = interp.Params

// TranslateOption configures a single translation request.
type TranslateOption func(*translateOptions)

type translateOptions struct {
	locale string
	params Params
	count  *int
	def    string
	hasDef bool
}

// InLocale overrides the translator's current locale for this request.
func InLocale(locale string) TranslateOption {
	return func(o *translateOptions) {
		o.locale = locale
	}
}

// WithParams supplies values for {{path}} placeholders in the message.
func WithParams(params Params) TranslateOption {
	return func(o *translateOptions) {
		o.params = params
	}
}

// WithCount supplies the plural count. It selects the plural form and is
// available inside templates as {{count}}.
func WithCount(n int) TranslateOption {
	return func(o *translateOptions) {
		o.count = &n
	}
}

// WithDefault sets the string returned when the key resolves in no locale of
// the fallback chain. Without it, the raw key is returned.
func WithDefault(def string) TranslateOption {
	return func(o *translateOptions) {
		o.def = def
		o.hasDef = true
	}
}

// Translate resolves a message key to its rendered string. It walks the
// locale fallback chain (exact locale, language subtag, fallback locale),
// selects a plural form when a count is given or the message carries plural
// forms, interpolates placeholders, and caches the rendered result.
//
// Missing translations are a normal condition, not a fault: Translate never
// panics and never returns an error. An unresolvable key yields the default
// value if one was given, otherwise the key itself.
func (t *Translator) Translate(key string, opts ...TranslateOption) string {
	var o translateOptions
	for _, opt := range opts {
		opt(&o)
	}

	loc := t.Locale()
	if o.locale != "" {
		loc = Normalize(o.locale)
	}

	ctx := context.Background()
	ck := t.cacheKey(loc, key, &o)

	// Concurrent misses for the same request render once. Only successful
	// resolutions are cached; a missing key rendered from its default stays
	// a miss so late-loaded messages take effect.
	text, _ := cache.GetOrSet(ctx, t.cache, &t.sf, ck, t.ttl,
		func(context.Context) (string, bool, error) {
			text, resolved := t.resolve(loc, key, &o)
			return text, resolved, nil
		})
	return text
}

// T is shorthand for Translate.
func (t *Translator) T(key string, opts ...TranslateOption) string {
	return t.Translate(key, opts...)
}

// Has reports whether a key resolves in any locale of the fallback chain,
// without rendering it.
func (t *Translator) Has(key string, opts ...TranslateOption) bool {
	var o translateOptions
	for _, opt := range opts {
		opt(&o)
	}

	loc := t.Locale()
	if o.locale != "" {
		loc = Normalize(o.locale)
	}

	for _, cand := range fallbackChain(loc, t.fallback) {
		tree, ok := t.messages[cand]
		if !ok {
			continue
		}
		if _, ok := lookupMessage(tree, key); ok {
			return true
		}
	}
	return false
}

// resolve walks the fallback chain and renders the first leaf found.
func (t *Translator) resolve(loc, key string, o *translateOptions) (string, bool) {
	for _, cand := range fallbackChain(loc, t.fallback) {
		tree, ok := t.messages[cand]
		if !ok {
			continue
		}
		leaf, ok := lookupMessage(tree, key)
		if !ok {
			continue
		}
		// Plural rules follow the locale that supplied the message, so a
		// fallback hit is pluralized in its own grammar.
		return t.render(cand, leaf, o), true
	}

	if t.missing != nil {
		t.missing(loc, key)
	}
	if o.hasDef {
		return o.def, false
	}
	return key, false
}

func (t *Translator) render(loc string, leaf any, o *translateOptions) string {
	n := 1
	if o.count != nil {
		n = *o.count
	}

	if forms, ok := leaf.(plural.Forms); ok {
		return t.plural.FormatForms(forms, n, loc, o.params)
	}

	msg := leaf.(string)
	if o.count != nil || t.plural.HasForms(msg) {
		return t.plural.Format(msg, n, loc, o.params)
	}
	return interp.Interpolate(msg, o.params)
}

// cacheKey encodes the locale, key, count and a stable hash of the params.
// The default value is deliberately absent: unresolved requests are never
// cached, so it cannot influence a cached entry.
func (t *Translator) cacheKey(loc, key string, o *translateOptions) string {
	var b strings.Builder
	b.Grow(len(loc) + len(key) + 16)
	b.WriteString(loc)
	b.WriteString(keySep)
	b.WriteString(key)
	b.WriteString(keySep)
	if o.count != nil {
		b.WriteString(strconv.Itoa(*o.count))
	}
	b.WriteString(keySep)
	b.WriteString(hashParams(o.params))
	return b.String()
}

// hashParams produces a stable digest of the params map. encoding/json
// serializes map keys in sorted order, so identical maps hash identically.
func hashParams(params Params) string {
	if len(params) == 0 {
		return "0"
	}

	data, err := json.Marshal(params)
	if err != nil {
		// Maps print sorted by key, so this is stable too.
		data = fmt.Appendf(nil, "%v", params)
	}

	h := fnv.New64a()
	_, _ = h.Write(data)
	return strconv.FormatUint(h.Sum64(), 36)
}
