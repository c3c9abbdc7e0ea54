package repository

import (
	"context"
	"fmt"

	"cinema-reservation/pkg/database"

	"go.uber.org/zap"
)

// TxManager runs a function against transaction-scoped repositories. Any
// error returned by fn rolls the whole transaction back, which is what keeps
// multi-step seat claims and order creation atomic.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(r *Repository) error) error
}

type pgxTxManager struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTxManager(db database.PgxIface, log *zap.Logger) TxManager {
	return &pgxTxManager{
		db:  db,
		log: log.With(zap.String("repository", "tx")),
	}
}

func (m *pgxTxManager) RunInTx(ctx context.Context, fn func(r *Repository) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		m.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	txRepo := NewRepository(tx, m.log)

	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			m.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		m.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
