package validator

import (
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/net/html/atom"
)

// Django and jinja tags that need a matching end tag, kept sorted.
var djangoBlockTags = []string{
	"autoescape",
	"block",
	"blocktrans",
	"blocktranslate",
	"call",
	"comment",
	"filter",
	"for",
	"if",
	"ifchanged",
	"ifequal",
	"ifnotequal",
	"macro",
	"raw",
	"spaceless",
	"trans",
	"verbatim",
	"with",
}

// IsDjangoBlockTag reports whether the django tag name opens a block that is
// closed by end<name>. Inline tags like include or csrf_token don't.
func IsDjangoBlockTag(name string) bool {
	_, found := slices.BinarySearch(djangoBlockTags, name)
	return found
}

// OpaqueRule describes an element whose content is not checked.
type OpaqueRule struct {
	// CheckSplit rejects an element whose opening line and closing line
	// both carry content, like "<code>x =\n5</code>".
	CheckSplit bool
}

// DefaultOpaqueTags returns a fresh copy of the default opaque elements.
func DefaultOpaqueTags() map[atom.Atom]OpaqueRule {
	return map[atom.Atom]OpaqueRule{
		atom.Code:     {CheckSplit: true},
		atom.Pre:      {},
		atom.Script:   {},
		atom.Style:    {},
		atom.Textarea: {},
	}
}

func lookupOpaque(rules map[atom.Atom]OpaqueRule, name string) (OpaqueRule, bool) {
	a := atom.Lookup([]byte(strings.ToLower(name)))
	if a == 0 {
		return OpaqueRule{}, false
	}

	rule, ok := rules[a]
	return rule, ok
}
