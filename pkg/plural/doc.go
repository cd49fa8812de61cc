// Package plural selects and formats grammatical plural forms following
// Unicode CLDR category rules.
//
// A message may carry several forms in one delimited string:
//
//	"0:no items|one:one item|other:{{count}} items"
//
// Each segment maps a category name or literal count to a template. The
// engine resolves the category for a (count, locale) pair through per-locale
// rules, picks the matching form (literal counts win over categories), and
// interpolates it with an implicit {{count}} parameter.
//
// Selection never fails: incomplete or malformed form tables degrade through
// "other", then the first available form, then the original input string.
package plural
