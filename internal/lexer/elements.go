package lexer

import (
	"strings"

	"golang.org/x/net/html/atom"
)

var voidElements = map[atom.Atom]struct{}{
	atom.Area:   {},
	atom.Base:   {},
	atom.Br:     {},
	atom.Col:    {},
	atom.Embed:  {},
	atom.Hr:     {},
	atom.Img:    {},
	atom.Input:  {},
	atom.Link:   {},
	atom.Meta:   {},
	atom.Param:  {},
	atom.Source: {},
	atom.Track:  {},
	atom.Wbr:    {},
}

// IsVoidElement reports whether name is an HTML element that never has an
// end tag, like br or img.
func IsVoidElement(name string) bool {
	a := atom.Lookup([]byte(strings.ToLower(name)))
	if a == 0 {
		return false
	}

	_, ok := voidElements[a]
	return ok
}
