package txn

import "context"

// Transactor runs fn inside a single store transaction. The transaction is
// carried by the context handed to fn; repositories called with that context
// join it. A nested call joins the outer transaction. fn returning an error,
// or ctx being cancelled, rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
