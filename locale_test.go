package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	i18n "github.com/poly1603/ldesign-i18n"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"en":      "en",
		"EN":      "en",
		"zh-cn":   "zh-CN",
		"ZH_CN":   "zh-CN",
		"de-AT":   "de-AT",
		" en-US ": "en-US",
		"":        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, i18n.Normalize(in), "Normalize(%q)", in)
	}
}

func TestBaseOf(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"en":    "en",
		"en-US": "en",
		"zh-CN": "zh",
		"de_AT": "de",
	}
	for in, want := range cases {
		assert.Equal(t, want, i18n.BaseOf(in), "BaseOf(%q)", in)
	}
}
