package lexer

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindHTMLStart Kind = iota
	KindHTMLEnd
	KindHTMLSingleton
	KindHTMLSpecial

	KindHandlebarsStart
	KindHandlebarsEnd

	KindDjangoStart
	KindDjangoEnd
)

func (k Kind) String() string {
	switch k {
	case KindHTMLStart:
		return "html_start"
	case KindHTMLEnd:
		return "html_end"
	case KindHTMLSingleton:
		return "html_singleton"
	case KindHTMLSpecial:
		return "html_special"

	case KindHandlebarsStart:
		return "handlebars_start"
	case KindHandlebarsEnd:
		return "handlebars_end"

	case KindDjangoStart:
		return "django_start"
	case KindDjangoEnd:
		return "django_end"
	}

	return "<unknown>"
}

// Family groups kinds by the grammar that produced them.
type Family int

const (
	FamilyHTML Family = iota
	FamilyHandlebars
	FamilyDjango
)

func (f Family) String() string {
	switch f {
	case FamilyHTML:
		return "html"
	case FamilyHandlebars:
		return "handlebars"
	case FamilyDjango:
		return "django"
	}

	return "<unknown>"
}

func (k Kind) Family() Family {
	switch k {
	case KindHandlebarsStart, KindHandlebarsEnd:
		return FamilyHandlebars
	case KindDjangoStart, KindDjangoEnd:
		return FamilyDjango
	}

	return FamilyHTML
}

func (k Kind) IsHTML() bool {
	return k.Family() == FamilyHTML
}

func (k Kind) IsStart() bool {
	return k == KindHTMLStart || k == KindHandlebarsStart || k == KindDjangoStart
}

func (k Kind) IsEnd() bool {
	return k == KindHTMLEnd || k == KindHandlebarsEnd || k == KindDjangoEnd
}

type Token struct {
	Kind Kind

	// Tag is the bare tag or keyword name, empty for KindHTMLSpecial.
	Tag string

	// Contents is the literal source span of the whole tag.
	Contents string

	Start Location
}

// EndLine returns the line holding the last character of the token.
func (t *Token) EndLine() int {
	return t.Start.Line + strings.Count(t.Contents, "\n")
}

// EndOffset returns the byte offset just past the token.
func (t *Token) EndOffset() int {
	return t.Start.Offset + len(t.Contents)
}

func (t *Token) String() string {
	return fmt.Sprintf("%s %q at %s", t.Kind, t.Contents, &t.Start)
}

type Location struct {
	File string

	// 1-based, columns count runes
	Line, Column int

	// 0-based byte offset
	Offset int
}

func (l *Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("line %d, col %d", l.Line, l.Column)
	}

	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}
