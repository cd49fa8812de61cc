package i18n

import (
	"strings"

	"github.com/poly1603/ldesign-i18n/pkg/plural"
)

// MessageTree is a nested mapping from key segments to messages. A value is
// either a leaf (a string, or a plural-forms mapping from category/literal
// keys to templates) or a nested subtree. Trees are supplied by the message
// loading collaborator and are only ever read by the resolution path.
type MessageTree map[string]any

// lookupMessage walks a dotted key through a tree and returns the leaf it
// lands on. Landing on a subtree, or running out of tree mid-path, is a
// miss.
func lookupMessage(tree MessageTree, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	var node any = map[string]any(tree)
	for seg := range strings.SplitSeq(key, ".") {
		if seg == "" {
			return nil, false
		}

		switch m := node.(type) {
		case map[string]any:
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			node = v
		case MessageTree:
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			node = v
		case map[string]string:
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			node = v
		default:
			return nil, false
		}
	}

	switch leaf := node.(type) {
	case string:
		return leaf, true
	default:
		if forms, ok := formsFromLeaf(node); ok {
			return forms, true
		}
		return nil, false
	}
}

// formsFromLeaf interprets a mapping leaf as a plural-forms table. A mapping
// qualifies when every key is a CLDR category name or a literal number and
// every value is a string; anything else is a subtree, not a leaf.
func formsFromLeaf(node any) (plural.Forms, bool) {
	switch m := node.(type) {
	case map[string]string:
		forms := make(plural.Forms, len(m))
		for k, v := range m {
			if !isFormKey(k) {
				return nil, false
			}
			forms[k] = v
		}
		return forms, len(forms) > 0
	case MessageTree:
		return formsFromMap(map[string]any(m))
	case map[string]any:
		return formsFromMap(m)
	default:
		return nil, false
	}
}

func formsFromMap(src map[string]any) (plural.Forms, bool) {
	forms := make(plural.Forms, len(src))
	for k, v := range src {
		s, ok := v.(string)
		if !ok || !isFormKey(k) {
			return nil, false
		}
		forms[k] = s
	}
	return forms, len(forms) > 0
}

func isFormKey(k string) bool {
	switch plural.Category(k) {
	case plural.Zero, plural.One, plural.Two, plural.Few, plural.Many, plural.Other:
		return true
	}

	if k == "" {
		return false
	}
	for _, r := range k {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
