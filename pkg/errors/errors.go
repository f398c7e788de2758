package errors

import (
	"errors"
	"fmt"
)

var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Error  = errors.New
	Errorf = fmt.Errorf
)

// Collapse joins errs into one error, nil entries are skipped.
func Collapse(errs []error) error {
	return errors.Join(errs...)
}

// Wrap prefixes err with context, keeping it matchable with Is and As.
// A nil err stays nil, so results of fallible calls can be wrapped as is.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return &wrapped{context: context, cause: err}
}

func Wrapf(err error, contextFormat string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(contextFormat, args...))
}

// WrapFail reads as "can't <action>: <cause>".
func WrapFail(err error, action string) error {
	return Wrap(err, "can't "+action)
}

func WrapFailf(err error, actionFormat string, args ...any) error {
	if err == nil {
		return nil
	}
	return WrapFail(err, fmt.Sprintf(actionFormat, args...))
}

type wrapped struct {
	context string
	cause   error
}

func (w *wrapped) Error() string {
	return w.context + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() error {
	return w.cause
}
