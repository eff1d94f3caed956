package repository

import "context"

// Transactor runs a function inside one storage transaction. Every
// repository call made with the context passed to fn joins that
// transaction; if fn returns an error the whole unit of work rolls back,
// leaving no partial stock or customer mutation behind.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
