package i18n_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	i18n "github.com/poly1603/ldesign-i18n"
	"github.com/poly1603/ldesign-i18n/pkg/plural"
)

func newTranslator(t *testing.T, opts ...i18n.Option) *i18n.Translator {
	t.Helper()

	base := []i18n.Option{
		i18n.WithLocale("en"),
		i18n.WithFallbackLocale("en"),
		i18n.WithMessages("en", i18n.MessageTree{
			"greeting": "Hello, {{name}}!",
			"plain":    "Just text",
			"inbox":    "0:no messages|one:one message|other:{{count}} messages",
			"nav": i18n.MessageTree{
				"home": "Home",
				"back": "Back",
			},
			"files": map[string]string{
				"one":   "one file",
				"other": "{{count}} files",
			},
		}),
		i18n.WithMessages("de", i18n.MessageTree{
			"greeting": "Hallo, {{name}}!",
			"nav": i18n.MessageTree{
				"home": "Start",
			},
		}),
		i18n.WithMessages("de-AT", i18n.MessageTree{
			"greeting": "Servus, {{name}}!",
		}),
	}

	tr, err := i18n.New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates instance with defaults", func(t *testing.T) {
		t.Parallel()
		tr, err := i18n.New()
		require.NoError(t, err)
		defer tr.Close()
		require.Equal(t, "en", tr.Locale())
		require.Equal(t, "en", tr.FallbackLocale())
	})

	t.Run("rejects empty locales", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithLocale(""))
		require.ErrorIs(t, err, i18n.ErrEmptyLocale)

		_, err = i18n.New(i18n.WithMessages("", i18n.MessageTree{"k": "v"}))
		require.ErrorIs(t, err, i18n.ErrEmptyLocale)
	})

	t.Run("rejects nil plural rule", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithPluralRule("en", nil))
		require.ErrorIs(t, err, i18n.ErrNilRule)
	})

	t.Run("merges repeated trees for one locale", func(t *testing.T) {
		t.Parallel()
		tr, err := i18n.New(
			i18n.WithMessages("en", i18n.MessageTree{"a": "first"}),
			i18n.WithMessages("en", i18n.MessageTree{"b": "second"}),
		)
		require.NoError(t, err)
		defer tr.Close()

		require.Equal(t, "first", tr.T("a"))
		require.Equal(t, "second", tr.T("b"))
	})
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	t.Run("interpolates params", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		got := tr.Translate("greeting", i18n.WithParams(i18n.Params{"name": "Ada"}))
		require.Equal(t, "Hello, Ada!", got)
	})

	t.Run("resolves nested keys by dotted path", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		require.Equal(t, "Home", tr.T("nav.home"))
		require.Equal(t, "Back", tr.T("nav.back"))
	})

	t.Run("missing key returns the key itself", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		require.Equal(t, "nope.nothing", tr.T("nope.nothing"))
	})

	t.Run("missing key returns default when given", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		got := tr.T("nope.nothing", i18n.WithDefault("fallback text"))
		require.Equal(t, "fallback text", got)
	})

	t.Run("missing key handler fires", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		tr := newTranslator(t, i18n.WithMissingKeyHandler(func(locale, key string) {
			calls.Add(1)
		}))

		tr.T("definitely.missing")
		require.Equal(t, int64(1), calls.Load())
	})

	t.Run("landing on a subtree is a miss", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		require.Equal(t, "nav", tr.T("nav"), "a subtree is not a resolvable leaf")
	})

	t.Run("never panics on odd input", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		require.NotPanics(t, func() {
			tr.T("")
			tr.T("...")
			tr.T("greeting", i18n.InLocale("zz-ZZ"))
		})
	})
}

func TestTranslate_Concurrent(t *testing.T) {
	t.Parallel()

	tr := newTranslator(t)

	const callers = 32
	results := make([]string, callers)
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = tr.T("inbox", i18n.WithCount(7))
		}()
	}
	close(start)
	wg.Wait()

	for _, got := range results {
		require.Equal(t, "7 messages", got, "every concurrent caller observes the same rendering")
	}
}

func TestTranslate_Fallback(t *testing.T) {
	t.Parallel()

	t.Run("exact locale wins", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		got := tr.T("greeting", i18n.InLocale("de-AT"), i18n.WithParams(i18n.Params{"name": "Max"}))
		require.Equal(t, "Servus, Max!", got)
	})

	t.Run("falls back to language subtag", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		// de-AT has no nav tree; plain de does.
		require.Equal(t, "Start", tr.T("nav.home", i18n.InLocale("de-AT")))
	})

	t.Run("falls back to the fallback locale", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		// Neither de-AT nor de has "plain"; en does.
		require.Equal(t, "Just text", tr.T("plain", i18n.InLocale("de-AT")))
	})

	t.Run("locale matching is case-insensitive", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		got := tr.T("greeting", i18n.InLocale("DE_at"), i18n.WithParams(i18n.Params{"name": "Max"}))
		require.Equal(t, "Servus, Max!", got)
	})
}

func TestTranslate_Plural(t *testing.T) {
	t.Parallel()

	t.Run("selects forms from a delimited string", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		require.Equal(t, "no messages", tr.T("inbox", i18n.WithCount(0)))
		require.Equal(t, "one message", tr.T("inbox", i18n.WithCount(1)))
		require.Equal(t, "7 messages", tr.T("inbox", i18n.WithCount(7)))
	})

	t.Run("selects forms from a mapping leaf", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		require.Equal(t, "one file", tr.T("files", i18n.WithCount(1)))
		require.Equal(t, "12 files", tr.T("files", i18n.WithCount(12)))
	})

	t.Run("a forms leaf without count renders the singular form", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		require.Equal(t, "one file", tr.T("files"))
	})

	t.Run("custom plural rule applies", func(t *testing.T) {
		t.Parallel()
		tr, err := i18n.New(
			i18n.WithMessages("xx", i18n.MessageTree{
				"items": "few:a few|other:lots",
			}),
			i18n.WithPluralRule("xx", func(n int) plural.Category {
				if n < 10 {
					return plural.Few
				}
				return plural.Other
			}),
			i18n.WithLocale("xx"),
			i18n.WithFallbackLocale("xx"),
		)
		require.NoError(t, err)
		defer tr.Close()

		require.Equal(t, "a few", tr.T("items", i18n.WithCount(3)))
		require.Equal(t, "lots", tr.T("items", i18n.WithCount(30)))
	})

	t.Run("custom separator applies", func(t *testing.T) {
		t.Parallel()
		tr, err := i18n.New(
			i18n.WithMessages("en", i18n.MessageTree{
				"items": "one:item;other:items",
			}),
			i18n.WithPluralSeparator(";"),
		)
		require.NoError(t, err)
		defer tr.Close()

		require.Equal(t, "items", tr.T("items", i18n.WithCount(4)))
	})
}

func TestSetLocale(t *testing.T) {
	t.Parallel()

	t.Run("switches the effective locale", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)

		require.Equal(t, "Hello, {{name}}!", tr.T("greeting"))
		tr.SetLocale("de")
		require.Equal(t, "Hallo, {{name}}!", tr.T("greeting"))
	})

	t.Run("notifies subscribers and honors unsubscribe", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)

		var notified atomic.Int64
		unsub := tr.OnLocaleChange(func(oldLocale, newLocale string) {
			assert.Equal(t, "en", oldLocale)
			assert.Equal(t, "de", newLocale)
			notified.Add(1)
		})

		tr.SetLocale("de")
		require.Equal(t, int64(1), notified.Load())

		unsub()
		tr.SetLocale("en")
		require.Equal(t, int64(1), notified.Load(), "unsubscribed handler must not fire")
	})

	t.Run("same locale is a no-op", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)

		var notified atomic.Int64
		tr.OnLocaleChange(func(_, _ string) { notified.Add(1) })

		tr.SetLocale("en")
		require.Equal(t, int64(0), notified.Load())
	})

	t.Run("normalizes the new locale", func(t *testing.T) {
		t.Parallel()
		tr := newTranslator(t)
		tr.SetLocale("DE")
		require.Equal(t, "de", tr.Locale())
	})
}

func TestHas(t *testing.T) {
	t.Parallel()

	tr := newTranslator(t)

	assert.True(t, tr.Has("greeting"))
	assert.True(t, tr.Has("nav.home"))
	assert.True(t, tr.Has("plain", i18n.InLocale("de")), "resolvable through fallback")
	assert.False(t, tr.Has("nav"), "subtrees are not leaves")
	assert.False(t, tr.Has("missing.key"))
}

func TestLocales(t *testing.T) {
	t.Parallel()

	tr := newTranslator(t)
	require.Equal(t, []string{"en", "de", "de-AT"}, tr.Locales(), "fallback first, rest sorted")
}
