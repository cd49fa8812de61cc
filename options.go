package i18n

import (
	"maps"
	"time"

	"github.com/poly1603/ldesign-i18n/pkg/plural"
)

// Option configures a Translator during construction.
type Option func(*options) error

type options struct {
	locale        string
	fallback      string
	separator     string
	cacheSize     int
	ttl           time.Duration
	sweepInterval time.Duration
	messages      map[string]MessageTree
	rules         map[string]plural.Rule
	missing       func(locale, key string)
}

func defaultOptions() *options {
	return &options{
		locale:        DefaultLocale,
		fallback:      DefaultLocale,
		separator:     plural.DefaultSeparator,
		cacheSize:     1024,
		ttl:           0, // rendered entries never expire by default
		sweepInterval: time.Minute,
		messages:      make(map[string]MessageTree),
		rules:         make(map[string]plural.Rule),
	}
}

// WithMessages loads the message tree for a locale. Calling it again for the
// same locale merges at the top level, with later trees overriding earlier
// keys. The tree is owned by the caller and must not be mutated afterwards.
func WithMessages(locale string, tree MessageTree) Option {
	return func(o *options) error {
		if locale == "" {
			return ErrEmptyLocale
		}
		if len(tree) == 0 {
			return nil
		}

		norm := Normalize(locale)
		if existing, ok := o.messages[norm]; ok {
			merged := make(MessageTree, len(existing)+len(tree))
			maps.Copy(merged, existing)
			maps.Copy(merged, tree)
			o.messages[norm] = merged
			return nil
		}
		o.messages[norm] = tree
		return nil
	}
}

// WithLocale sets the initial locale. Default: "en".
func WithLocale(locale string) Option {
	return func(o *options) error {
		if locale == "" {
			return ErrEmptyLocale
		}
		o.locale = locale
		return nil
	}
}

// WithFallbackLocale sets the last link of every fallback chain.
// Default: "en".
func WithFallbackLocale(locale string) Option {
	return func(o *options) error {
		if locale == "" {
			return ErrEmptyLocale
		}
		o.fallback = locale
		return nil
	}
}

// WithCacheSize bounds the rendered-translation cache. A size of zero or
// less disables caching entirely: every lookup re-resolves.
// Default: 1024.
func WithCacheSize(n int) Option {
	return func(o *options) error {
		o.cacheSize = n
		return nil
	}
}

// WithTTL sets the lifetime of cached rendered translations. Zero means
// entries never expire (they are still bounded by the cache size).
// Default: 0.
func WithTTL(d time.Duration) Option {
	return func(o *options) error {
		o.ttl = d
		return nil
	}
}

// WithSweepInterval sets how often the render cache proactively drops
// expired entries. Zero or negative disables the sweep.
// Default: 1 minute.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) error {
		o.sweepInterval = d
		return nil
	}
}

// WithPluralSeparator overrides the character splitting plural forms inside
// a message string. Default: "|".
func WithPluralSeparator(sep string) Option {
	return func(o *options) error {
		if sep != "" {
			o.separator = sep
		}
		return nil
	}
}

// WithPluralRule registers a custom plural rule for a locale, overriding the
// language-family rule chosen automatically for loaded locales.
func WithPluralRule(locale string, rule plural.Rule) Option {
	return func(o *options) error {
		if locale == "" {
			return ErrEmptyLocale
		}
		if rule == nil {
			return ErrNilRule
		}
		o.rules[Normalize(locale)] = rule
		return nil
	}
}

// WithMissingKeyHandler sets a handler invoked when a key cannot be resolved
// in any locale of the fallback chain. Useful for spotting untranslated keys
// during development or monitoring translation gaps.
func WithMissingKeyHandler(fn func(locale, key string)) Option {
	return func(o *options) error {
		o.missing = fn
		return nil
	}
}
