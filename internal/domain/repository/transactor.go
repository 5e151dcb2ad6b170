package repository

import "context"

// Transactor runs fn inside a single database transaction.
// Repository calls made with the ctx passed to fn join that transaction;
// returning an error from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
