package session

import "github.com/nikmy/txnguard/pkg/txn"

//go:generate mockgen -source=interfaces_test.go -destination=mocks_test.go -package=session

type backendImpl interface {
	Backend
}

type cachingBackend interface {
	Backend
	txn.StatementCache
}

type txnImpl interface {
	txn.Txn
}
