package validator

import (
	"errors"
	"strings"

	"github.com/pipe01/tmplint/internal/lexer"
	"golang.org/x/net/html/atom"
)

type Options struct {
	// CheckIndentation requires an end tag on a different line than its
	// start tag to be in the same column.
	CheckIndentation bool

	// OpaqueTags are elements whose content is skipped. Nil means
	// DefaultOpaqueTags.
	OpaqueTags map[atom.Atom]OpaqueRule
}

var defaultOpaqueTags = DefaultOpaqueTags()

// Validate checks that every tag in text is closed, properly nested and,
// optionally, properly indented. The filename only labels errors. The
// returned error, if any, is a *ValidationError.
func Validate(filename, text string, checkIndentation bool) error {
	return ValidateWithOptions(filename, text, Options{
		CheckIndentation: checkIndentation,
	})
}

func ValidateWithOptions(filename, text string, opts Options) error {
	tks, err := lexer.New([]byte(text), filename).Collect()
	if err != nil {
		var lexErr *lexer.LexerError
		if errors.As(err, &lexErr) {
			return &ValidationError{
				Inner:    lexErr.Inner,
				Location: lexErr.Location,
			}
		}

		return err
	}

	if opts.OpaqueTags == nil {
		opts.OpaqueTags = defaultOpaqueTags
	}

	v := validator{
		text: text,
		opts: opts,
	}

	return v.run(tks)
}

type entry struct {
	token  *lexer.Token
	column int

	opaque bool
	rule   OpaqueRule
}

type validator struct {
	text string
	opts Options

	stack []entry
}

func (v *validator) run(tks []lexer.Token) error {
	for i := range tks {
		tk := &tks[i]

		// Only the matching end tag leaves an opaque element
		if n := len(v.stack); n > 0 && v.stack[n-1].opaque {
			if tk.Kind == lexer.KindHTMLEnd && tagsMatch(v.stack[n-1].token, tk) {
				if err := v.closeTag(tk); err != nil {
					return err
				}
			}
			continue
		}

		switch tk.Kind {
		case lexer.KindHTMLStart, lexer.KindHandlebarsStart:
			v.push(tk)

		case lexer.KindDjangoStart:
			if IsDjangoBlockTag(tk.Tag) {
				v.push(tk)
			}

		case lexer.KindHTMLEnd, lexer.KindHandlebarsEnd, lexer.KindDjangoEnd:
			if err := v.closeTag(tk); err != nil {
				return err
			}

		case lexer.KindHTMLSingleton, lexer.KindHTMLSpecial:
		}
	}

	if n := len(v.stack); n > 0 {
		open := v.stack[n-1].token

		return &ValidationError{
			Inner:    ErrMissingEndTag,
			Location: open.Start,
			Start:    open,
		}
	}

	return nil
}

func (v *validator) push(tk *lexer.Token) {
	e := entry{
		token:  tk,
		column: tk.Start.Column,
	}

	if tk.Kind == lexer.KindHTMLStart {
		e.rule, e.opaque = lookupOpaque(v.opts.OpaqueTags, tk.Tag)
	}

	v.stack = append(v.stack, e)
}

func (v *validator) closeTag(end *lexer.Token) error {
	n := len(v.stack)
	if n == 0 {
		return &ValidationError{
			Inner:    ErrNoStartTag,
			Location: end.Start,
			End:      end,
		}
	}

	e := v.stack[n-1]
	v.stack = v.stack[:n-1]

	start := e.token
	fail := func(err error) error {
		return &ValidationError{
			Inner:    err,
			Location: end.Start,
			Start:    start,
			End:      end,
		}
	}

	if !tagsMatch(start, end) {
		return fail(ErrMismatchedTag)
	}

	if e.opaque {
		if e.rule.CheckSplit && v.isSplit(start, end) {
			return fail(ErrCodeSplit)
		}
		return nil
	}

	// Lines are counted from the last line of the start tag, so attribute
	// lists spanning several lines are fine.
	if v.opts.CheckIndentation && end.Start.Line != start.EndLine() && end.Start.Column != e.column {
		return fail(ErrBadIndentation)
	}

	return nil
}

// isSplit reports whether an element spans several lines while both its
// first and last line carry content.
func (v *validator) isSplit(start, end *lexer.Token) bool {
	if end.Start.Line == start.EndLine() {
		return false
	}

	after := v.text[start.EndOffset():end.Start.Offset]
	if i := strings.IndexByte(after, '\n'); i >= 0 {
		after = after[:i]
	}

	before := v.text[start.EndOffset():end.Start.Offset]
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}

	return strings.TrimSpace(after) != "" && strings.TrimSpace(before) != ""
}

func tagsMatch(start, end *lexer.Token) bool {
	if start.Kind.Family() != end.Kind.Family() {
		return false
	}

	if start.Kind.IsHTML() {
		return strings.EqualFold(start.Tag, end.Tag)
	}

	return start.Tag == end.Tag
}
