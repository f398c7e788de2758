package mongo

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/txn"
)

const codeWriteConflict = 112

var writeCommands = map[string]bool{
	"insert":        true,
	"update":        true,
	"delete":        true,
	"findandmodify": true,
}

var readCommands = map[string]bool{
	"find":      true,
	"aggregate": true,
	"count":     true,
	"distinct":  true,
}

func parseCommand(stmt txn.Statement) (bson.D, error) {
	if len(stmt.Params) > 0 {
		return nil, errors.New(errors.ClassParameter, "mongo commands don't take parameters")
	}

	var cmd bson.D
	err := bson.UnmarshalExtJSON([]byte(stmt.Text), false, &cmd)
	if err != nil {
		return nil, errors.Because(err, errors.ClassParameter, "statement is not a command document", "", "")
	}
	if len(cmd) == 0 {
		return nil, errors.New(errors.ClassParameter, "command document is empty")
	}
	return cmd, nil
}

// commandAccess reads the target collection from the command's first
// field. Unknown commands touch nothing.
func commandAccess(db string, cmd bson.D) txn.Access {
	name := strings.ToLower(cmd[0].Key)
	coll, ok := cmd[0].Value.(string)
	if !ok {
		return txn.Access{}
	}

	rel := txn.Relation{ID: relationID(db, coll), Name: coll}
	switch {
	case writeCommands[name]:
		return txn.Access{Write: true, Relations: []txn.Relation{rel}}
	case readCommands[name]:
		return txn.Access{Relations: []txn.Relation{rel}}
	default:
		return txn.Access{}
	}
}

func relationID(db, coll string) txn.RelID {
	return txn.RelID(xxhash.Sum64String(db + "." + coll))
}

func classify(err error) error {
	if err == nil {
		return nil
	}

	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorCode(codeWriteConflict) || se.HasErrorLabel("TransientTransactionError")) {
		return errors.Classify(err, errors.ClassSerialization)
	}
	return err
}
