package plural

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/poly1603/ldesign-i18n/pkg/interp"
)

// DefaultSeparator delimits plural forms inside a single message string.
const DefaultSeparator = "|"

const defaultCategoryCacheSize = 256

// ErrNilRule is returned when a nil rule is registered.
var ErrNilRule = errors.New("plural: rule cannot be nil")

// Forms maps a plural category name, or a literal numeric string such as "0",
// to a template. Literal numeric keys take precedence over category keys when
// the count matches exactly.
type Forms map[string]string

// Engine selects and formats plural forms. It holds per-locale rules, a
// default rule for unregistered locales, and a bounded cache of computed
// (count, locale) categories. One Engine instance is shared by all consumers;
// there is no package-level state.
type Engine struct {
	mu        sync.RWMutex
	rules     map[string]Rule
	fallback  Rule
	separator string
	cache     map[categoryKey]Category
	cacheKeys []categoryKey // insertion order, oldest first
	cacheCap  int
}

type categoryKey struct {
	locale string
	n      int
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithSeparator overrides the form separator (default "|").
func WithSeparator(sep string) Option {
	return func(e *Engine) {
		if sep != "" {
			e.separator = sep
		}
	}
}

// WithDefaultRule overrides the rule applied to unregistered locales.
func WithDefaultRule(rule Rule) Option {
	return func(e *Engine) {
		if rule != nil {
			e.fallback = rule
		}
	}
}

// WithCategoryCacheSize bounds the (count, locale) category cache.
// Values below 1 disable the cache.
func WithCategoryCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheCap = n
	}
}

// NewEngine creates a pluralization engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules:     make(map[string]Rule),
		fallback:  DefaultRule,
		separator: DefaultSeparator,
		cache:     make(map[categoryKey]Category),
		cacheCap:  defaultCategoryCacheSize,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Separator returns the configured form separator.
func (e *Engine) Separator() string {
	return e.separator
}

// AddRule registers or overrides the rule for a locale.
func (e *Engine) AddRule(locale string, rule Rule) error {
	if rule == nil {
		return ErrNilRule
	}

	e.mu.Lock()
	e.rules[normalizeLocale(locale)] = rule
	e.mu.Unlock()

	return nil
}

// RuleFor returns the rule registered for a locale, trying the exact tag
// first and then its language-only subtag. Unregistered locales get the
// engine's default rule.
func (e *Engine) RuleFor(locale string) Rule {
	norm := normalizeLocale(locale)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if rule, ok := e.rules[norm]; ok {
		return rule
	}
	if base := baseLanguage(norm); base != norm {
		if rule, ok := e.rules[base]; ok {
			return rule
		}
	}
	return e.fallback
}

// CategoryFor resolves the plural category for a count in a locale.
// Results are memoized in a bounded cache; when the cache is full the
// oldest entry is evicted before inserting.
func (e *Engine) CategoryFor(n int, locale string) Category {
	if e.cacheCap < 1 {
		return e.RuleFor(locale)(n)
	}

	key := categoryKey{locale: normalizeLocale(locale), n: n}

	e.mu.RLock()
	cat, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return cat
	}

	cat = e.RuleFor(locale)(n)

	e.mu.Lock()
	if _, exists := e.cache[key]; !exists {
		if len(e.cache) >= e.cacheCap && len(e.cacheKeys) > 0 {
			oldest := e.cacheKeys[0]
			e.cacheKeys = e.cacheKeys[1:]
			delete(e.cache, oldest)
		}
		e.cache[key] = cat
		e.cacheKeys = append(e.cacheKeys, key)
	}
	e.mu.Unlock()

	return cat
}

// ParseForms splits a delimited plural-forms message into its form table.
// Each segment has the shape "key:template"; only the first colon delimits,
// so templates may themselves contain colons. Malformed segments (no colon,
// empty key) are skipped.
//
// Example:
//
//	ParseForms("one:item|other:items")
//	// Forms{"one": "item", "other": "items"}
func (e *Engine) ParseForms(message string) Forms {
	forms := make(Forms)

	for seg := range strings.SplitSeq(message, e.separator) {
		seg = strings.TrimSpace(seg)
		idx := strings.Index(seg, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(seg[:idx])
		if key == "" {
			continue
		}
		forms[key] = strings.TrimSpace(seg[idx+1:])
	}

	return forms
}

// HasForms reports whether a raw message string encodes a plural-forms
// table: at least two separator-delimited segments, each carrying a key
// before a colon. Ordinary messages containing a colon ("Time: {{t}}") are
// not considered plural-bearing.
func (e *Engine) HasForms(message string) bool {
	if !strings.Contains(message, e.separator) {
		return false
	}

	segs := strings.Split(message, e.separator)
	if len(segs) < 2 {
		return false
	}
	for _, seg := range segs {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if idx := strings.Index(seg, ":"); idx <= 0 {
			return false
		}
	}
	return true
}

// ExtractForms parses a plural-bearing message into its form table, or
// returns nil when the message is a plain string.
func (e *Engine) ExtractForms(message string) Forms {
	if !e.HasForms(message) {
		return nil
	}
	return e.ParseForms(message)
}

// SelectForms picks the template for a count from a form table.
// Selection order: exact literal-numeric key, the category from the locale's
// rule, "other", then the first available form (lowest key, for determinism).
// Empty templates count as absent. Returns "" only for an empty table.
func (e *Engine) SelectForms(forms Forms, n int, locale string) string {
	if len(forms) == 0 {
		return ""
	}

	// Literal numeric keys win over category keys.
	if tmpl, ok := forms[strconv.Itoa(n)]; ok && tmpl != "" {
		return tmpl
	}

	if tmpl, ok := forms[string(e.CategoryFor(n, locale))]; ok && tmpl != "" {
		return tmpl
	}

	if tmpl, ok := forms[string(Other)]; ok && tmpl != "" {
		return tmpl
	}

	keys := make([]string, 0, len(forms))
	for k := range forms {
		if forms[k] != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return forms[keys[0]]
}

// Select resolves a message that may or may not carry plural forms.
// Plain strings pass through unchanged; plural-bearing strings are parsed
// and the matching form selected. A malformed or incomplete form table
// degrades to the original input rather than failing.
func (e *Engine) Select(message string, n int, locale string) string {
	forms := e.ExtractForms(message)
	if forms == nil {
		return message
	}
	if selected := e.SelectForms(forms, n, locale); selected != "" {
		return selected
	}
	return message
}

// Format selects the plural form for a count and interpolates it with the
// given params plus an implicit "count" parameter. The count always wins
// over a caller-supplied "count" param.
func (e *Engine) Format(message string, n int, locale string, params interp.Params) string {
	return interpolateCount(e.Select(message, n, locale), n, params)
}

// FormatForms is Format for an already-parsed form table, as produced by
// message trees that store plural forms as a mapping rather than a
// delimited string. An empty table renders to "".
func (e *Engine) FormatForms(forms Forms, n int, locale string, params interp.Params) string {
	return interpolateCount(e.SelectForms(forms, n, locale), n, params)
}

// Validate reports whether a form table covers every category the locale's
// rule can produce. Intended for tooling and tests, not the hot path.
func (e *Engine) Validate(forms Forms, locale string) bool {
	for _, cat := range e.SupportedCategories(locale) {
		if _, ok := forms[string(cat)]; !ok {
			return false
		}
	}
	return true
}

// SupportedCategories enumerates the categories a locale's rule actually
// produces, by probing it with representative counts.
func (e *Engine) SupportedCategories(locale string) []Category {
	rule := e.RuleFor(locale)

	probes := []int{0, 1, 2, 3, 4, 5, 10, 11, 12, 13, 14, 20, 21, 22, 100, 101, 1000, 1000000}
	seen := make(map[Category]bool, 6)
	for _, n := range probes {
		seen[rule(n)] = true
	}

	order := []Category{Zero, One, Two, Few, Many, Other}
	result := make([]Category, 0, len(seen))
	for _, cat := range order {
		if seen[cat] {
			result = append(result, cat)
		}
	}
	return result
}

func interpolateCount(message string, n int, params interp.Params) string {
	merged := make(interp.Params, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged["count"] = n
	return interp.Interpolate(message, merged)
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(locale))
}

func baseLanguage(locale string) string {
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		return locale[:i]
	}
	return locale
}
