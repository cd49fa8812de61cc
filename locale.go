package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Normalize canonicalizes a locale tag: "EN_us" becomes "en-US", "ZH-cn"
// becomes "zh-CN". Comparison throughout the package happens on normalized
// tags, making locale matching case-insensitive. Unparseable tags are
// lowercased as-is rather than rejected.
func Normalize(tag string) string {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return ""
	}

	t, err := language.Parse(tag)
	if err != nil || t == language.Und {
		return strings.ToLower(tag)
	}
	return t.String()
}

// BaseOf returns the language-only subtag of a locale ("zh-CN" → "zh").
// Tags without a region come back unchanged.
func BaseOf(tag string) string {
	t, err := language.Parse(strings.ReplaceAll(tag, "_", "-"))
	if err != nil {
		if i := strings.IndexAny(tag, "-"); i > 0 {
			return strings.ToLower(tag[:i])
		}
		return strings.ToLower(tag)
	}

	base, _ := t.Base()
	return base.String()
}

// fallbackChain builds the deterministic lookup order for a locale:
// exact tag, language-only subtag, configured fallback locale. Duplicates
// and empty entries are dropped; all entries are normalized.
func fallbackChain(locale, fallback string) []string {
	chain := make([]string, 0, 3)
	seen := make(map[string]struct{}, 3)

	push := func(tag string) {
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		chain = append(chain, tag)
	}

	norm := Normalize(locale)
	push(norm)
	push(BaseOf(norm))
	push(Normalize(fallback))

	return chain
}
