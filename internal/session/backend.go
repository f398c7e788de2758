package session

import (
	"context"

	"github.com/nikmy/txnguard/internal/linearize"
	"github.com/nikmy/txnguard/pkg/txn"
)

// Backend is one host connection.
type Backend interface {
	txn.Conn

	// PID identifies the connection in the host, e.g. a postgres
	// backend pid. Lock holders are reported with the same ids.
	PID() int

	// Classify reports the relations stmt is about to touch inside tx.
	Classify(ctx context.Context, tx txn.Txn, stmt txn.Statement) (txn.Access, error)

	Oracle() linearize.Oracle
}

// Dialer opens a new backend connection.
type Dialer func(ctx context.Context) (Backend, error)
