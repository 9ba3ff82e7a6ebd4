package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/grana-sh/grana/internal/apierrors"
	internalctx "github.com/grana-sh/grana/internal/context"
	"github.com/grana-sh/grana/internal/types"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const transactionOutputExpr = "id, created_at, user_account_id, type, description, amount"

func CreateTransaction(ctx context.Context, transaction *types.Transaction) error {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		`INSERT INTO Transaction (user_account_id, type, description, amount)
		VALUES (@user_account_id, @type, @description, @amount)
		RETURNING `+transactionOutputExpr,
		pgx.NamedArgs{
			"user_account_id": transaction.UserAccountID,
			"type":            transaction.Type,
			"description":     transaction.Description,
			"amount":          transaction.Amount,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to insert Transaction: %w", err)
	}
	result, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[types.Transaction])
	if err != nil {
		if pgErr := new(pgconn.PgError); errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			err = fmt.Errorf("%w: %w", apierrors.ErrConflict, err)
		}
		return err
	}
	*transaction = result
	return nil
}

// GetTransactions returns all transactions owned by the given account,
// newest first.
func GetTransactions(ctx context.Context, userAccountID uuid.UUID) ([]types.Transaction, error) {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		`SELECT `+transactionOutputExpr+`
		FROM Transaction
		WHERE user_account_id = @user_account_id
		ORDER BY created_at DESC`,
		pgx.NamedArgs{"user_account_id": userAccountID},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query Transaction: %w", err)
	}
	result, err := pgx.CollectRows(rows, pgx.RowToStructByName[types.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to collect Transaction: %w", err)
	}
	return result, nil
}

// DeleteTransaction deletes the transaction only if it is owned by the given
// account. Deleting a non-existent or foreign-owned id is a silent no-op.
func DeleteTransaction(ctx context.Context, id, userAccountID uuid.UUID) error {
	db := internalctx.GetDb(ctx)
	_, err := db.Exec(ctx,
		`DELETE FROM Transaction WHERE id = @id AND user_account_id = @user_account_id`,
		pgx.NamedArgs{
			"id":              id,
			"user_account_id": userAccountID,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to delete Transaction: %w", err)
	}
	return nil
}
