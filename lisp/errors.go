//
// Copyright 2011-2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package lisp

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind distinguishes the sub-kinds of LispError named in §7. It
// plays the role that swatcl/errors.go's numeric Errno constants played
// for the Tcl interpreter, minus the syscall.Errno borrowing: these
// codes are never real OS errors, so giving them their own type avoids
// the reader mistaking one for the other.
type ErrorKind int

const (
	_ ErrorKind = iota
	KindReadError
	KindParseError
	KindWrongArgCount
	KindWrongArgType
	KindUnboundSymbol
	KindUninitializedBinding
	KindNotCallable
	KindIndexOutOfRange
	KindMalformedList
	KindDuplicateMacro
	KindUnterminatedString
	KindInternal
)

var errorKindNames = map[ErrorKind]string{
	KindReadError:            "ReadError",
	KindParseError:           "ParseError",
	KindWrongArgCount:        "WrongArgCount",
	KindWrongArgType:         "WrongArgType",
	KindUnboundSymbol:        "UnboundSymbol",
	KindUninitializedBinding: "UninitializedBinding",
	KindNotCallable:          "NotCallable",
	KindIndexOutOfRange:      "IndexOutOfRange",
	KindMalformedList:        "MalformedList",
	KindDuplicateMacro:       "DuplicateMacro",
	KindUnterminatedString:   "UnterminatedString",
	KindInternal:             "Internal",
}

// String returns the sub-kind name used in error messages (e.g.
// "UnboundSymbol").
func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "LispError"
}

// Error is the one hierarchical error kind from §7: every failure that
// can occur while reading, parsing, or evaluating carries a Kind and a
// short human-readable Message. Every Error also carries a
// github.com/pkg/errors-wrapped cause, which attaches a stack trace
// recoverable via fmt.Sprintf("%+v", err).
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, including its stack trace, to
// errors.Is/errors.As and to github.com/pkg/errors-aware formatting
// (fmt.Sprintf("%+v", err)).
func (e *Error) Unwrap() error { return e.cause }

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, cause: errors.New(msg)}
}

func newErrorf(kind ErrorKind, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: kind, Message: msg, cause: errors.New(msg)}
}

// wrapError attaches kind and a clarifying message to a lower-level
// cause (e.g. an error surfacing out of a host-provided primitive),
// preserving the cause via github.com/pkg/errors so callers that care
// can still inspect it with errors.Unwrap.
func wrapError(kind ErrorKind, cause error, msg string) *Error {
	return &Error{Kind: kind, Message: msg, cause: errors.Wrap(cause, msg)}
}

// QuitSignal is the control signal from §7 used by host front ends
// (e.g. cmd/lispc) to request termination. The core never raises it; a
// host primitive panics with it, and Engine.ProcessOneForm recovers that
// panic and returns the QuitSignal to its caller instead of reporting it
// as a LispError.
type QuitSignal struct {
	Code int
}

func (q *QuitSignal) Error() string {
	return fmt.Sprintf("quit (code %d)", q.Code)
}
