// Package i18n resolves symbolic message keys to human-readable strings,
// with locale fallback, CLDR-style pluralization, placeholder interpolation
// and a bounded cache of rendered output.
//
// # Basic usage
//
//	tr, err := i18n.New(
//		i18n.WithLocale("en"),
//		i18n.WithMessages("en", i18n.MessageTree{
//			"greeting": "Hello, {{name}}!",
//			"inbox":    "0:no messages|one:one message|other:{{count}} messages",
//		}),
//		i18n.WithMessages("de", i18n.MessageTree{
//			"greeting": "Hallo, {{name}}!",
//		}),
//	)
//	defer tr.Close()
//
//	tr.T("greeting", i18n.WithParams(i18n.Params{"name": "Ada"}))
//	// "Hello, Ada!"
//
//	tr.T("inbox", i18n.WithCount(7))
//	// "7 messages"
//
// # Fallback
//
// Resolution tries the requested locale, its language-only subtag, then the
// configured fallback locale, deterministically. A key missing everywhere
// returns the default value (WithDefault) or the raw key; resolution never
// returns an error, because a text layer under UI rendering must not fail a
// render pass over a missing translation.
//
// # Pluralization
//
// A message may carry several plural forms in one string, separated by "|",
// each "category:template". Literal numeric keys such as "0" win over
// category keys when the count matches exactly. Plural categories come from
// per-locale CLDR family rules; loaded locales are bound to their family
// rule automatically and WithPluralRule overrides per locale.
//
// # Caching
//
// Rendered strings are cached in an LRU keyed by locale, key, count and a
// stable hash of the params. SetLocale invalidates only the previous
// locale's entries. The cache variants themselves live in pkg/cache.
//
// Message loading, view bindings and locale negotiation are deliberately
// outside this package; it operates on already-loaded in-memory trees.
package i18n
