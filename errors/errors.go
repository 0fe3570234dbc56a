package errors

import (
	goerrors "errors"

	"github.com/pipe01/tmplint/internal/lexer"
)

// SituatedErr is an error that points at a place in a template.
type SituatedErr interface {
	error
	Unwrap() error
	At() lexer.Location
}

// Situate finds the first SituatedErr in err's chain.
func Situate(err error) (SituatedErr, bool) {
	var poserr SituatedErr
	if goerrors.As(err, &poserr) {
		return poserr, true
	}

	return nil, false
}

// Message returns the bare diagnostic of err without its position.
func Message(err error) string {
	if poserr, ok := Situate(err); ok && poserr.Unwrap() != nil {
		return poserr.Unwrap().Error()
	}

	return err.Error()
}
