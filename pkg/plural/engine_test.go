package plural_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poly1603/ldesign-i18n/pkg/interp"
	"github.com/poly1603/ldesign-i18n/pkg/plural"
)

func TestParseForms(t *testing.T) {
	t.Parallel()

	e := plural.NewEngine()

	t.Run("splits key:template segments", func(t *testing.T) {
		t.Parallel()
		forms := e.ParseForms("one:item|other:items")
		require.Equal(t, plural.Forms{"one": "item", "other": "items"}, forms)
	})

	t.Run("first colon delimits, templates may contain colons", func(t *testing.T) {
		t.Parallel()
		forms := e.ParseForms("one:ratio 1:1|other:ratio {{count}}:1")
		require.Equal(t, "ratio 1:1", forms["one"])
		require.Equal(t, "ratio {{count}}:1", forms["other"])
	})

	t.Run("skips malformed segments", func(t *testing.T) {
		t.Parallel()
		forms := e.ParseForms("no colon here|other:items|:empty key")
		require.Equal(t, plural.Forms{"other": "items"}, forms)
	})

	t.Run("honors a custom separator", func(t *testing.T) {
		t.Parallel()
		custom := plural.NewEngine(plural.WithSeparator(";"))
		forms := custom.ParseForms("one:item;other:items")
		require.Len(t, forms, 2)
	})
}

func TestHasForms(t *testing.T) {
	t.Parallel()

	e := plural.NewEngine()

	assert.True(t, e.HasForms("one:item|other:items"))
	assert.True(t, e.HasForms("0:none|one:one|other:{{count}}"))
	assert.False(t, e.HasForms("plain message"))
	assert.False(t, e.HasForms("Time: {{t}}"))
	assert.False(t, e.HasForms("a|b"), "segments without keys are not forms")
}

func TestSelect(t *testing.T) {
	t.Parallel()

	e := plural.NewEngine()

	t.Run("selects by category", func(t *testing.T) {
		t.Parallel()
		msg := "one:item|other:items"
		require.Equal(t, "item", e.Select(msg, 1, "en"))
		require.Equal(t, "items", e.Select(msg, 5, "en"))
	})

	t.Run("literal numeric key wins over category", func(t *testing.T) {
		t.Parallel()
		// 1 maps to category "one", but the literal "1" takes precedence.
		msg := "1:exactly one|one:single|other:many"
		require.Equal(t, "exactly one", e.Select(msg, 1, "en"))
		require.Equal(t, "many", e.Select(msg, 2, "en"))
	})

	t.Run("falls back to other for uncovered categories", func(t *testing.T) {
		t.Parallel()
		msg := "one:item|other:items"
		require.Equal(t, "items", e.Select(msg, 0, "en"))
	})

	t.Run("falls back to first form when other is absent", func(t *testing.T) {
		t.Parallel()
		msg := "few:kilka|many:wiele"
		require.Equal(t, "kilka", e.Select(msg, 1, "en"))
	})

	t.Run("plain string passes through unchanged", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "just text", e.Select("just text", 3, "en"))
	})
}

func TestFormat(t *testing.T) {
	t.Parallel()

	e := plural.NewEngine()

	t.Run("selects and interpolates count", func(t *testing.T) {
		t.Parallel()
		msg := "0:no items|one:one item|other:{{count}} items"
		require.Equal(t, "no items", e.Format(msg, 0, "en", nil))
		require.Equal(t, "one item", e.Format(msg, 1, "en", nil))
		require.Equal(t, "7 items", e.Format(msg, 7, "en", nil))
	})

	t.Run("merges params, count wins", func(t *testing.T) {
		t.Parallel()
		msg := "other:{{name}} has {{count}} items"
		got := e.Format(msg, 3, "en", interp.Params{"name": "Ada", "count": 99})
		require.Equal(t, "Ada has 3 items", got)
	})

	t.Run("never empty for well-formed forms", func(t *testing.T) {
		t.Parallel()
		msg := "one:item|other:items"
		for n := 0; n <= 25; n++ {
			require.NotEmpty(t, e.Format(msg, n, "en", nil))
		}
	})

	t.Run("formats pre-parsed form tables", func(t *testing.T) {
		t.Parallel()
		forms := plural.Forms{"one": "one file", "other": "{{count}} files"}
		require.Equal(t, "one file", e.FormatForms(forms, 1, "en", nil))
		require.Equal(t, "4 files", e.FormatForms(forms, 4, "en", nil))
	})
}

func TestRules(t *testing.T) {
	t.Parallel()

	t.Run("default rule is a one/other split", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, plural.One, plural.DefaultRule(1))
		require.Equal(t, plural.One, plural.DefaultRule(-1))
		require.Equal(t, plural.Other, plural.DefaultRule(0))
		require.Equal(t, plural.Other, plural.DefaultRule(2))
	})

	t.Run("slavic rule follows last digits", func(t *testing.T) {
		t.Parallel()
		cases := map[int]plural.Category{
			1:   plural.One,
			21:  plural.One,
			2:   plural.Few,
			4:   plural.Few,
			22:  plural.Few,
			5:   plural.Many,
			11:  plural.Many,
			12:  plural.Many,
			14:  plural.Many,
			100: plural.Many,
		}
		for n, want := range cases {
			assert.Equal(t, want, plural.SlavicRule(n), "n=%d", n)
		}
	})

	t.Run("arabic rule uses all six categories", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, plural.Zero, plural.ArabicRule(0))
		require.Equal(t, plural.One, plural.ArabicRule(1))
		require.Equal(t, plural.Two, plural.ArabicRule(2))
		require.Equal(t, plural.Few, plural.ArabicRule(3))
		require.Equal(t, plural.Many, plural.ArabicRule(11))
		require.Equal(t, plural.Other, plural.ArabicRule(100))
	})

	t.Run("asian rule is always other", func(t *testing.T) {
		t.Parallel()
		for _, n := range []int{0, 1, 2, 100} {
			require.Equal(t, plural.Other, plural.AsianRule(n))
		}
	})

	t.Run("RuleForLanguage ignores region and case", func(t *testing.T) {
		t.Parallel()
		for _, lang := range []string{"ru", "RU", "ru-RU"} {
			rule := plural.RuleForLanguage(lang)
			require.Equal(t, plural.Few, rule(2), "lang %q", lang)
		}
	})
}

func TestEngineRules(t *testing.T) {
	t.Parallel()

	t.Run("AddRule rejects nil", func(t *testing.T) {
		t.Parallel()
		e := plural.NewEngine()
		require.ErrorIs(t, e.AddRule("en", nil), plural.ErrNilRule)
	})

	t.Run("RuleFor falls back to base language then default", func(t *testing.T) {
		t.Parallel()
		e := plural.NewEngine()
		require.NoError(t, e.AddRule("pt", plural.RomanceRule))

		require.Equal(t, plural.One, e.RuleFor("pt-BR")(0), "base-language rule applies")
		require.Equal(t, plural.Other, e.RuleFor("xx")(0), "default rule applies")
	})

	t.Run("locale match is case-insensitive", func(t *testing.T) {
		t.Parallel()
		e := plural.NewEngine()
		require.NoError(t, e.AddRule("AR", plural.ArabicRule))
		require.Equal(t, plural.Zero, e.CategoryFor(0, "ar"))
	})
}

func TestCategoryCache(t *testing.T) {
	t.Parallel()

	t.Run("bounded cache stays correct across evictions", func(t *testing.T) {
		t.Parallel()
		e := plural.NewEngine(plural.WithCategoryCacheSize(4))

		// More distinct (count, locale) pairs than the cache holds.
		for range 3 {
			for n := 0; n < 10; n++ {
				require.Equal(t, plural.DefaultRule(n), e.CategoryFor(n, "xx"))
			}
		}
	})

	t.Run("disabled cache still resolves", func(t *testing.T) {
		t.Parallel()
		e := plural.NewEngine(plural.WithCategoryCacheSize(0))
		require.Equal(t, plural.One, e.CategoryFor(1, "en"))
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	e := plural.NewEngine()
	require.NoError(t, e.AddRule("en", plural.EnglishRule))
	require.NoError(t, e.AddRule("ru", plural.SlavicRule))

	t.Run("complete tables validate", func(t *testing.T) {
		t.Parallel()
		assert.True(t, e.Validate(plural.Forms{"one": "a", "other": "b"}, "en"))
		assert.True(t, e.Validate(plural.Forms{"one": "a", "few": "b", "many": "c"}, "ru"))
	})

	t.Run("missing categories fail validation", func(t *testing.T) {
		t.Parallel()
		assert.False(t, e.Validate(plural.Forms{"one": "a"}, "en"))
		assert.False(t, e.Validate(plural.Forms{"one": "a", "other": "b"}, "ru"))
	})

	t.Run("SupportedCategories enumerates the rule's output", func(t *testing.T) {
		t.Parallel()
		require.Equal(t,
			[]plural.Category{plural.One, plural.Other},
			e.SupportedCategories("en"),
		)
		require.Equal(t,
			[]plural.Category{plural.One, plural.Few, plural.Many},
			e.SupportedCategories("ru"),
		)
	})
}
