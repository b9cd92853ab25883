package core

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ItemError, for use with errors.Is.
var (
	ErrOutOfBounds     = errors.New("out of bounds")
	ErrEmptyCell       = errors.New("empty cell")
	ErrKindMismatch    = errors.New("kind mismatch")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error codes carried by ItemError.
const (
	CodeOutOfBounds     = "OUT_OF_BOUNDS"
	CodeEmptyCell       = "EMPTY_CELL"
	CodeKindMismatch    = "KIND_MISMATCH"
	CodeInvalidArgument = "INVALID_ARGUMENT"
)

// ItemError is the typed failure of an item effect. The board is never
// modified when one is returned. Reason is written for the player.
type ItemError struct {
	Code   string
	Reason string
}

func (e *ItemError) Error() string {
	return e.Reason
}

// Unwrap maps the code to its sentinel error.
func (e *ItemError) Unwrap() error {
	switch e.Code {
	case CodeOutOfBounds:
		return ErrOutOfBounds
	case CodeEmptyCell:
		return ErrEmptyCell
	case CodeKindMismatch:
		return ErrKindMismatch
	case CodeInvalidArgument:
		return ErrInvalidArgument
	default:
		return nil
	}
}

func outOfBounds(p Pos) *ItemError {
	return &ItemError{Code: CodeOutOfBounds, Reason: fmt.Sprintf("position %v is outside the board", p)}
}

func emptyCell(p Pos) *ItemError {
	return &ItemError{Code: CodeEmptyCell, Reason: fmt.Sprintf("there is no block at %v", p)}
}

func kindMismatch(format string, args ...any) *ItemError {
	return &ItemError{Code: CodeKindMismatch, Reason: fmt.Sprintf(format, args...)}
}

func invalidArgument(format string, args ...any) *ItemError {
	return &ItemError{Code: CodeInvalidArgument, Reason: fmt.Sprintf(format, args...)}
}
