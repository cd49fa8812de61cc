package i18n

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/poly1603/ldesign-i18n/pkg/cache"
	"github.com/poly1603/ldesign-i18n/pkg/plural"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

// keySep separates cache-key components. Translation keys never contain it,
// which keeps per-locale invalidation a plain prefix match.
const keySep = "\x1f"

// Translator resolves symbolic message keys to rendered strings, applying
// locale fallback, plural-form selection and placeholder interpolation, and
// caches rendered output so repeated lookups stay cheap.
//
// Message trees are fixed at construction and never mutated, so resolution
// is safe for concurrent use. Call Close before discarding an instance to
// stop the cache's background sweep.
type Translator struct {
	messages map[string]MessageTree
	plural   *plural.Engine
	cache    *cache.LRU[string]
	sf       singleflight.Group
	ttl      time.Duration
	fallback string
	missing  func(locale, key string)

	mu      sync.RWMutex // guards locale and subscribers
	locale  string
	subs    map[int]func(oldLocale, newLocale string)
	nextSub int
}

// New creates a Translator from the given options.
func New(opts ...Option) (*Translator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	engine := plural.NewEngine(plural.WithSeparator(o.separator))
	// Loaded locales get their language family's rule; explicit
	// registrations override it below.
	for locale := range o.messages {
		_ = engine.AddRule(locale, plural.RuleForLanguage(BaseOf(locale)))
	}
	for locale, rule := range o.rules {
		if err := engine.AddRule(locale, rule); err != nil {
			return nil, err
		}
	}

	return &Translator{
		messages: o.messages,
		plural:   engine,
		cache: cache.NewLRU[string](o.cacheSize,
			cache.WithDefaultTTL(o.ttl),
			cache.WithSweepInterval(o.sweepInterval),
		),
		ttl:      o.ttl,
		locale:   Normalize(o.locale),
		fallback: Normalize(o.fallback),
		missing:  o.missing,
		subs:     make(map[int]func(string, string)),
	}, nil
}

// Locale returns the current locale.
func (t *Translator) Locale() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.locale
}

// SetLocale switches the current locale and invalidates only the cache
// entries rendered for the previous locale; entries for other locales stay
// valid. Registered locale-change subscribers are notified afterwards.
func (t *Translator) SetLocale(locale string) {
	norm := Normalize(locale)
	if norm == "" {
		return
	}

	t.mu.Lock()
	old := t.locale
	if old == norm {
		t.mu.Unlock()
		return
	}
	t.locale = norm
	subs := make([]func(string, string), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.mu.Unlock()

	t.cache.DeleteFunc(context.Background(), func(key string) bool {
		return strings.HasPrefix(key, old+keySep)
	})

	for _, fn := range subs {
		fn(old, norm)
	}
}

// OnLocaleChange registers a subscriber notified after every locale switch,
// and returns its unsubscribe function. View bindings use this to trigger
// re-renders.
func (t *Translator) OnLocaleChange(fn func(oldLocale, newLocale string)) func() {
	t.mu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

// Locales returns the loaded locales, fallback locale first and the rest
// sorted alphabetically.
func (t *Translator) Locales() []string {
	locales := make([]string, 0, len(t.messages))
	for locale := range t.messages {
		if locale != t.fallback {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales)

	if _, ok := t.messages[t.fallback]; ok {
		locales = append([]string{t.fallback}, locales...)
	}
	return locales
}

// FallbackLocale returns the configured fallback locale.
func (t *Translator) FallbackLocale() string {
	return t.fallback
}

// Plural exposes the pluralization engine, for adapters that format plural
// strings outside the key-based resolution path.
func (t *Translator) Plural() *plural.Engine {
	return t.plural
}

// Close stops the render cache's background sweep. Idempotent.
func (t *Translator) Close() error {
	return t.cache.Close()
}
