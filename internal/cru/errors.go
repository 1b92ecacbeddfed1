package cru

import (
	"errors"
	"fmt"
)

// Error codes carried by Diagnostic entries.
const (
	CodeUnknownSymbol = iota + 1
	CodeUnexpectedSymbol
	CodeEndOfInput
	CodeInvalidCapacity
)

var (
	ErrUnknownSymbol    = errors.New("unknown symbol")
	ErrUnexpectedSymbol = errors.New("unexpected symbol")
	ErrEndOfInput       = errors.New("unexpected end of input")
	ErrInvalidCapacity  = errors.New("invalid capacity")
)

// UnknownSymbolError is returned when text outside the symbol table is
// looked up as a marker.
type UnknownSymbolError struct {
	Text string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("symbol %q unknown", e.Text)
}

func (e *UnknownSymbolError) Unwrap() error { return ErrUnknownSymbol }

// UnexpectedSymbolError means a required marker was not found at its position.
type UnexpectedSymbolError struct {
	Expected Symbol
	Found    string
}

func (e *UnexpectedSymbolError) Error() string {
	return fmt.Sprintf("symbol %s doesn't match (found %q)", e.Expected, e.Found)
}

func (e *UnexpectedSymbolError) Unwrap() error { return ErrUnexpectedSymbol }

// EndOfInputError means the token stream ran out while a token was required.
type EndOfInputError struct {
	Want string
}

func (e *EndOfInputError) Error() string {
	return fmt.Sprintf("unexpected end of input, expecting %s", e.Want)
}

func (e *EndOfInputError) Unwrap() error { return ErrEndOfInput }

// CapacityError means the P= value is not a non-negative integer.
type CapacityError struct {
	Value string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity %q is not a non-negative integer", e.Value)
}

func (e *CapacityError) Unwrap() error { return ErrInvalidCapacity }

// ErrorCode classifies err into one of the Code* constants, or 0.
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrUnknownSymbol):
		return CodeUnknownSymbol
	case errors.Is(err, ErrUnexpectedSymbol):
		return CodeUnexpectedSymbol
	case errors.Is(err, ErrEndOfInput):
		return CodeEndOfInput
	case errors.Is(err, ErrInvalidCapacity):
		return CodeInvalidCapacity
	}
	return 0
}
