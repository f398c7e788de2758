package postgres

import (
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"

	"github.com/nikmy/txnguard/pkg/errors"
)

const codeSerializationFailure = "40001"

// classify marks engine errors with their class. Messages are kept as
// the engine reported them.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case codeSerializationFailure:
		return errors.Classify(err, errors.ClassSerialization)
	default:
		return err
	}
}

// convertParams checks that every parameter can be sent to the server.
func convertParams(params []any) ([]any, error) {
	args := make([]any, 0, len(params))
	for i, p := range params {
		v, err := driver.DefaultParameterConverter.ConvertValue(p)
		if err != nil {
			return nil, errors.Because(
				err,
				errors.ClassParameter,
				fmt.Sprintf("unsupported value of parameter $%d", i+1),
				fmt.Sprintf("got %T", p),
				"",
			)
		}
		args = append(args, v)
	}
	return args, nil
}
