package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// TagInfo is a short description of an HTML tag used in diagnostics.
type TagInfo struct {
	Tag     string
	ID      string
	Classes []string
}

// Text renders the tag like a CSS selector, e.g. p.foo.bar#baz.
func (t TagInfo) Text() string {
	var b strings.Builder

	b.WriteString(t.Tag)

	for _, c := range t.Classes {
		b.WriteByte('.')
		b.WriteString(c)
	}

	if t.ID != "" {
		b.WriteByte('#')
		b.WriteString(t.ID)
	}

	return b.String()
}

// GetTagInfo extracts the name, id and classes of an HTML token. It panics
// if tk was not produced by the HTML grammar.
func GetTagInfo(tk *Token) TagInfo {
	if !tk.Kind.IsHTML() {
		panic(fmt.Sprintf("GetTagInfo called on %s token", tk.Kind))
	}

	info := TagInfo{Tag: tk.Tag}
	if tk.Kind == KindHTMLEnd {
		return info
	}

	for _, attr := range parseAttributes(tk.Contents) {
		switch strings.ToLower(attr.name) {
		case "class":
			info.Classes = append(info.Classes, strings.Fields(attr.value)...)

		case "id":
			if info.ID == "" {
				info.ID = strings.TrimSpace(attr.value)
			}
		}
	}

	return info
}

type attribute struct {
	name, value string
}

// parseAttributes reads the attributes of a raw start tag such as
// `<a href="x" hidden>`. Unquoted values end at whitespace.
func parseAttributes(raw string) (attrs []attribute) {
	s := strings.TrimPrefix(raw, "<")
	s = strings.TrimSuffix(s, ">")
	s = strings.TrimSuffix(s, "/")

	// Skip the tag name
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return nil
	}
	s = s[i:]

	for {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			return attrs
		}

		end := strings.IndexFunc(s, func(r rune) bool {
			return r == '=' || unicode.IsSpace(r)
		})
		if end < 0 {
			return append(attrs, attribute{name: s})
		}

		attr := attribute{name: s[:end]}
		s = strings.TrimLeftFunc(s[end:], unicode.IsSpace)

		if !strings.HasPrefix(s, "=") {
			attrs = append(attrs, attr)
			continue
		}
		s = strings.TrimLeftFunc(s[1:], unicode.IsSpace)

		var value string
		if s != "" && (s[0] == '"' || s[0] == '\'') {
			quote := s[0]
			closing := strings.IndexByte(s[1:], quote)
			if closing < 0 {
				value, s = s[1:], ""
			} else {
				value, s = s[1:closing+1], s[closing+2:]
			}
		} else {
			end := strings.IndexFunc(s, unicode.IsSpace)
			if end < 0 {
				end = len(s)
			}
			value, s = s[:end], s[end:]
		}

		attr.value = html.UnescapeString(value)
		attrs = append(attrs, attr)
	}
}
