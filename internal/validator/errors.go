package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pipe01/tmplint/internal/lexer"
)

var (
	ErrNoStartTag     = errors.New("No start tag")
	ErrMismatchedTag  = errors.New("Mismatched tag.")
	ErrBadIndentation = errors.New("Bad indentation.")
	ErrMissingEndTag  = errors.New("Missing end tag")
	ErrCodeSplit      = errors.New("Code tag is split across two lines.")
)

// ValidationError is the first structural defect found in a template.
// Inner is one of the Err* values of this package or of the lexer package.
type ValidationError struct {
	Inner    error
	Location lexer.Location

	// Start is the opening token involved in the error, if any.
	Start *lexer.Token
	// End is the closing token involved in the error, if any.
	End *lexer.Token
}

func (e *ValidationError) Unwrap() error {
	return e.Inner
}

func (e *ValidationError) At() lexer.Location {
	return e.Location
}

func (e *ValidationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s at %s", e.Inner, &e.Location)

	if e.Start != nil {
		fmt.Fprintf(&b, " (start %s at %s", describe(e.Start), &e.Start.Start)
		if e.End != nil {
			fmt.Fprintf(&b, ", end %s", describe(e.End))
		}
		b.WriteByte(')')
	}

	return b.String()
}

func describe(tk *lexer.Token) string {
	if tk.Kind.IsHTML() {
		return lexer.GetTagInfo(tk).Text()
	}

	return fmt.Sprintf("%s %q", tk.Kind.Family(), tk.Tag)
}
