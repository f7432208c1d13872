package domain

import "context"

// TransactionManager runs fn inside a database transaction. Repositories
// called with the ctx passed to fn join that transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
