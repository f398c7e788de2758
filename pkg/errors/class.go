package errors

import (
	"fmt"
	"strings"
)

// Class tells callers how an error must be handled. Retry decisions
// are made on the class only, never on the message text.
type Class int

const (
	ClassUnknown Class = iota

	// ClassSerialization is raised by the engine's SSI conflict detector
	// and by linearization checks. The only retryable class.
	ClassSerialization

	// ClassCapacity means a backend slot can't accept more conflict
	// records. Writers see it wrapped into ClassSerialization.
	ClassCapacity

	// ClassUsage is a procedure called in the wrong transaction state.
	ClassUsage

	// ClassParameter is a missing or malformed argument.
	ClassParameter

	// ClassMaxAttempts is raised by the retry executor when all attempts
	// ended with serialization failures.
	ClassMaxAttempts

	// ClassTimeout is raised by the retry executor when its time budget
	// is exhausted before a new attempt starts.
	ClassTimeout
)

func (c Class) String() string {
	switch c {
	case ClassSerialization:
		return "serialization_failure"
	case ClassCapacity:
		return "capacity_exceeded"
	case ClassUsage:
		return "usage_error"
	case ClassParameter:
		return "parameter_error"
	case ClassMaxAttempts:
		return "max_attempts_exceeded"
	case ClassTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

type classified struct {
	class  Class
	msg    string
	detail string
	hint   string
	cause  error
}

func (e *classified) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause.Error()
	}

	var b strings.Builder
	b.WriteString(e.msg)
	if e.detail != "" {
		b.WriteString(": ")
		b.WriteString(e.detail)
	}
	if e.hint != "" {
		b.WriteString(" (")
		b.WriteString(e.hint)
		b.WriteString(")")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *classified) Unwrap() error {
	return e.cause
}

func New(class Class, msg string) error {
	return &classified{class: class, msg: msg}
}

func Newf(class Class, msgFormat string, args ...any) error {
	return &classified{class: class, msg: fmt.Sprintf(msgFormat, args...)}
}

// Detailed builds a classified error in the "message, detail, hint"
// shape database engines report.
func Detailed(class Class, msg, detail, hint string) error {
	return &classified{class: class, msg: msg, detail: detail, hint: hint}
}

// Classify marks err with class keeping its text intact.
func Classify(err error, class Class) error {
	if err == nil {
		return nil
	}
	return &classified{class: class, cause: err}
}

// Because wraps cause into a new classified error.
func Because(cause error, class Class, msg, detail, hint string) error {
	return &classified{class: class, msg: msg, detail: detail, hint: hint, cause: cause}
}

// ClassOf returns the class of the outermost classified error in the chain.
func ClassOf(err error) Class {
	var c *classified
	if As(err, &c) {
		return c.class
	}
	return ClassUnknown
}

func IsRetryable(err error) bool {
	return ClassOf(err) == ClassSerialization
}

func Detail(err error) string {
	var c *classified
	if As(err, &c) {
		return c.detail
	}
	return ""
}

func Hint(err error) string {
	var c *classified
	if As(err, &c) {
		return c.hint
	}
	return ""
}
