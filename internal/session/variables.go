package session

import (
	"reflect"

	"github.com/nikmy/txnguard/pkg/errors"
)

// variables live until the end of the transaction that set them.
type variables struct {
	estimated int
	values    map[string]any
}

func (v *variables) set(name string, value any) {
	if v.values == nil {
		v.values = make(map[string]any, v.estimated)
	}
	v.values[name] = value
}

// get returns def for unknown names. A non-nil def must have the type of
// the stored value.
func (v *variables) get(name string, def any) (any, error) {
	value, found := v.values[name]
	if !found {
		return def, nil
	}
	if value == nil || def == nil {
		return value, nil
	}

	got, want := reflect.TypeOf(value), reflect.TypeOf(def)
	if got != want {
		return nil, errors.Detailed(
			errors.ClassParameter,
			"type mismatch",
			"expected "+got.String()+", got "+want.String(),
			"",
		)
	}
	return value, nil
}

func (v *variables) reset() {
	v.values = nil
}

func checkName(name string) error {
	if name == "" {
		return errors.New(errors.ClassParameter, "variable name must not be empty")
	}
	return nil
}
