package postgresql

import (
	"context"

	"github.com/orgpulse/attendance-backend-go/internal/pkg/database"
)

type txRunner struct {
	db *database.DB
}

// NewTxRunner adapts the pool to database.TxRunner for the services.
func NewTxRunner(db *database.DB) database.TxRunner {
	return &txRunner{db: db}
}

func (r *txRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.db, fn)
}
