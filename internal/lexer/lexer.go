package lexer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrTagMissingAngle   = errors.New("Tag missing >")
	ErrTagMissingBraces  = errors.New("Tag missing }}")
	ErrTagMissingPercent = errors.New("Tag missing %}")
	ErrTagNameMissing    = errors.New("Tag name missing")
)

type LexerError struct {
	Inner    error
	Location Location
}

func (e *LexerError) Unwrap() error {
	return e.Inner
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("%s at %s", e.Inner, &e.Location)
}

func (e *LexerError) At() Location {
	return e.Location
}

type stateFunc func() stateFunc

type state struct {
	byteIndex int
	line, col int
}

// Lexer splits template source into tag tokens. Text between tags produces
// no tokens.
type Lexer struct {
	filename string
	file     []byte

	state
	strStart state

	tokens []Token

	err *LexerError
}

func New(file []byte, fileName string) *Lexer {
	start := state{line: 1, col: 1}

	return &Lexer{
		filename: fileName,
		file:     file,
		state:    start,
		strStart: start,
	}
}

// Tokenize lexes an in-memory template.
func Tokenize(text string) ([]Token, error) {
	return New([]byte(text), "").Collect()
}

// Collect runs the lexer to the end of the input. The first malformed tag
// aborts lexing and is returned as a *LexerError.
func (l *Lexer) Collect() ([]Token, error) {
	var state stateFunc = l.lexText

	for state != nil {
		state = state()

		if l.err != nil {
			return nil, l.err
		}
	}

	return l.tokens, nil
}

func (l *Lexer) take() (r rune, eof bool) {
	if l.byteIndex >= len(l.file) {
		return 0, true
	}

	r, size := utf8.DecodeRune(l.file[l.byteIndex:])
	l.byteIndex += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r, false
}

func (l *Lexer) takeMany(n int) (eof bool) {
	for i := 0; i < n; i++ {
		_, eof = l.take()
		if eof {
			return true
		}
	}

	return false
}

func (l *Lexer) takeString(s string) (eof bool) {
	return l.takeMany(utf8.RuneCountInString(s))
}

func (l *Lexer) lookingAt(s string) bool {
	return bytes.HasPrefix(l.file[l.byteIndex:], []byte(s))
}

// takeUntil consumes input up to and including delim. It gives up at the
// end of the input or, if nested is not empty, when another opener shows up
// first.
func (l *Lexer) takeUntil(delim, nested string) (found bool) {
	for {
		if l.lookingAt(delim) {
			l.takeString(delim)
			return true
		}
		if nested != "" && l.lookingAt(nested) {
			return false
		}

		if _, eof := l.take(); eof {
			return false
		}
	}
}

// takeHTMLTagBody consumes up to and including the closing '>'. Quoted
// attribute values may contain both '<' and '>'.
func (l *Lexer) takeHTMLTagBody() (found bool) {
	var quote, last rune

	for {
		r, eof := l.take()
		if eof {
			return false
		}

		if quote != 0 {
			if r == quote {
				quote = 0
				last = r
			}
			continue
		}

		switch {
		case r == '>':
			return true
		case r == '<':
			return false
		case (r == '"' || r == '\'') && last == '=':
			quote = r
		}

		if !unicode.IsSpace(r) {
			last = r
		}
	}
}

func (l *Lexer) current() string {
	return string(l.file[l.strStart.byteIndex:l.byteIndex])
}

func (l *Lexer) location() Location {
	return Location{
		File:   l.filename,
		Line:   l.strStart.line,
		Column: l.strStart.col,
		Offset: l.strStart.byteIndex,
	}
}

func (l *Lexer) emit(kind Kind, tag string) {
	l.tokens = append(l.tokens, Token{
		Kind:     kind,
		Tag:      tag,
		Contents: l.current(),
		Start:    l.location(),
	})

	l.discard()
}

func (l *Lexer) discard() {
	l.strStart = l.state
}

func (l *Lexer) lexError(err error) stateFunc {
	l.err = &LexerError{
		Inner:    err,
		Location: l.location(),
	}
	return nil
}

func (l *Lexer) lexText() stateFunc {
	for {
		l.discard()

		switch {
		case l.lookingAt("<!--"):
			return l.lexHTMLComment
		case l.lookingAt("<"):
			return l.lexHTMLTag
		case l.lookingAt("{{"):
			return l.lexHandlebars
		case l.lookingAt("{%"):
			return l.lexDjango
		case l.lookingAt("{#"):
			return l.lexDjangoComment
		}

		if _, eof := l.take(); eof {
			return nil
		}
	}
}

func (l *Lexer) lexHTMLComment() stateFunc {
	l.takeString("<!--")

	if !l.takeUntil("-->", "") {
		return l.lexError(ErrTagMissingAngle)
	}

	l.emit(KindHTMLSpecial, "")
	return l.lexText
}

func (l *Lexer) lexHTMLTag() stateFunc {
	l.take()

	if !l.takeHTMLTagBody() {
		return l.lexError(ErrTagMissingAngle)
	}

	s := l.current()
	inner := s[1 : len(s)-1]

	switch {
	case strings.HasPrefix(inner, "!"), strings.HasPrefix(inner, "?"):
		l.emit(KindHTMLSpecial, "")

	case strings.HasPrefix(inner, "/"):
		name := firstField(inner[1:])
		if name == "" {
			return l.lexError(ErrTagNameMissing)
		}

		l.emit(KindHTMLEnd, name)

	default:
		name, _, _ := strings.Cut(firstField(inner), "/")
		if name == "" {
			return l.lexError(ErrTagNameMissing)
		}

		if strings.HasSuffix(inner, "/") || IsVoidElement(name) {
			l.emit(KindHTMLSingleton, name)
		} else {
			l.emit(KindHTMLStart, name)
		}
	}

	return l.lexText
}

func (l *Lexer) lexHandlebars() stateFunc {
	opener, closer, nested := "{{", "}}", "{{"

	switch {
	case l.lookingAt("{{!--"):
		opener, closer, nested = "{{!--", "--}}", ""
	case l.lookingAt("{{{"):
		opener, closer = "{{{", "}}}"
	}

	l.takeString(opener)

	if !l.takeUntil(closer, nested) {
		return l.lexError(ErrTagMissingBraces)
	}

	if opener != "{{" {
		l.discard()
		return l.lexText
	}

	s := l.current()
	inner := strings.Trim(s[2:len(s)-2], "~")

	var kind Kind

	switch {
	case strings.HasPrefix(inner, "#"):
		kind = KindHandlebarsStart
	case strings.HasPrefix(inner, "/"):
		kind = KindHandlebarsEnd
	default:
		// Interpolation, comment or else.
		l.discard()
		return l.lexText
	}

	// Partial blocks ({{#> name}}) and inline partials ({{#*inline}}) close
	// with their bare name.
	name := firstField(strings.TrimLeft(inner[1:], ">*"))
	if name == "" {
		return l.lexError(ErrTagNameMissing)
	}

	l.emit(kind, name)
	return l.lexText
}

func (l *Lexer) lexDjango() stateFunc {
	l.takeString("{%")

	if !l.takeUntil("%}", "{%") {
		return l.lexError(ErrTagMissingPercent)
	}

	s := l.current()
	keyword := firstField(strings.Trim(s[2:len(s)-2], "-+"))
	if keyword == "" {
		return l.lexError(ErrTagNameMissing)
	}

	if name, ok := strings.CutPrefix(keyword, "end"); ok {
		l.emit(KindDjangoEnd, name)
	} else {
		l.emit(KindDjangoStart, keyword)
	}

	return l.lexText
}

// lexDjangoComment skips {# ... #}. An unterminated one is plain text.
func (l *Lexer) lexDjangoComment() stateFunc {
	saved := l.state
	l.takeString("{#")

	if !l.takeUntil("#}", "") {
		l.state = saved
		l.take()
	}

	return l.lexText
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}
