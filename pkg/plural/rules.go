package plural

import "strings"

// Category is a grammatical plural class as defined by Unicode CLDR.
type Category string

// CLDR plural categories. Not all languages use all of them; "other" is a
// valid fallback for every language.
const (
	Zero  Category = "zero"
	One   Category = "one"
	Two   Category = "two"
	Few   Category = "few"
	Many  Category = "many"
	Other Category = "other"
)

// Rule determines the plural category for a count. Rules are pure functions
// and must return one of the six CLDR categories.
type Rule func(n int) Category

// DefaultRule is the two-way split applied to locales without a registered
// rule: "one" for exactly one item, "other" for everything else. Languages
// needing the full CLDR category set register a family rule explicitly.
var DefaultRule Rule = func(n int) Category {
	if n == 1 || n == -1 {
		return One
	}
	return Other
}

// EnglishRule covers English and the many languages with the same one/other
// split (German, Dutch, Scandinavian languages, Italian, Turkish, Greek, ...).
var EnglishRule Rule = func(n int) Category {
	if n == 1 || n == -1 {
		return One
	}
	return Other
}

// RomanceRule covers French and Portuguese, where 0 and 1 are both singular
// and very large counts take "many".
var RomanceRule Rule = func(n int) Category {
	if n == 0 || n == 1 || n == -1 {
		return One
	}
	if abs(n) >= 1000000 {
		return Many
	}
	return Other
}

// SpanishRule covers Spanish: one (1), many (1,000,000+), other.
var SpanishRule Rule = func(n int) Category {
	if n == 1 || n == -1 {
		return One
	}
	if abs(n) >= 1000000 {
		return Many
	}
	return Other
}

// SlavicRule covers Russian, Ukrainian, Serbian, Croatian and similar
// languages with one/few/many splits driven by the last digits.
var SlavicRule Rule = func(n int) Category {
	a := abs(n)
	mod10 := a % 10
	mod100 := a % 100

	if mod10 == 1 && mod100 != 11 {
		return One
	}
	if mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14) {
		return Few
	}
	return Many
}

// CzechRule covers Czech and Slovak: one (1), few (2-4), other.
var CzechRule Rule = func(n int) Category {
	a := abs(n)
	if a == 1 {
		return One
	}
	if a >= 2 && a <= 4 {
		return Few
	}
	return Other
}

// AsianRule covers languages without grammatical number (Japanese, Chinese,
// Korean, Thai, Vietnamese, Indonesian): every count is "other".
var AsianRule Rule = func(_ int) Category {
	return Other
}

// ArabicRule implements the full six-category Arabic rule set.
var ArabicRule Rule = func(n int) Category {
	if n == 0 {
		return Zero
	}
	if n == 1 || n == -1 {
		return One
	}
	if n == 2 || n == -2 {
		return Two
	}

	mod100 := abs(n) % 100
	if mod100 >= 3 && mod100 <= 10 {
		return Few
	}
	if mod100 >= 11 && mod100 <= 99 {
		return Many
	}
	return Other
}

// RuleForLanguage returns the family rule for a two-letter ISO 639-1
// language code, falling back to DefaultRule for unknown languages.
// Region subtags are ignored ("en-US" resolves the same as "en").
func RuleForLanguage(lang string) Rule {
	if len(lang) >= 2 {
		lang = strings.ToLower(lang[:2])
	}

	switch lang {
	case "en", "it", "tr", "el", "fi", "hu",
		"de", "nl", "sv", "no", "nb", "nn", "da", "is":
		return EnglishRule
	case "fr", "pt":
		return RomanceRule
	case "es", "ca":
		return SpanishRule
	case "ru", "uk", "sr", "hr", "bs", "be":
		return SlavicRule
	case "cs", "sk":
		return CzechRule
	case "ja", "zh", "ko", "th", "vi", "id", "ms":
		return AsianRule
	case "ar":
		return ArabicRule
	default:
		return DefaultRule
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
