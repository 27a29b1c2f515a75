package services

import (
	"errors"
	"fmt"
)

// Structural faults. These abort the running operation; ledger outcomes such
// as an inactive wallet or insufficient funds are never errors — they come
// back as FAILED transactions instead.
var (
	ErrNotFound             = errors.New("not found")
	ErrNotOwned             = errors.New("not owned by user")
	ErrLimitExceeded        = errors.New("wallet limit exceeded")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrUsernameTaken        = errors.New("username already exists")
)

type DomainError struct {
	kind error
	msg  string
}

func (e *DomainError) Error() string { return e.msg }

func (e *DomainError) Unwrap() error { return e.kind }

func domainErrorf(kind error, format string, args ...interface{}) error {
	return &DomainError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
