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

const userAccountOutputExpr = "id, created_at, email, password_hash, channel_address"

func CreateUserAccount(ctx context.Context, userAccount *types.UserAccount) error {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		`INSERT INTO UserAccount (email, password_hash)
		VALUES (@email, @password_hash)
		RETURNING `+userAccountOutputExpr,
		pgx.NamedArgs{
			"email":         userAccount.Email,
			"password_hash": userAccount.PasswordHash,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to insert UserAccount: %w", err)
	}
	result, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[types.UserAccount])
	if err != nil {
		if pgErr := new(pgconn.PgError); errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			err = fmt.Errorf("%w: %w", apierrors.ErrConflict, err)
		}
		return err
	}
	*userAccount = result
	return nil
}

func GetUserAccountByID(ctx context.Context, id uuid.UUID) (*types.UserAccount, error) {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		`SELECT `+userAccountOutputExpr+` FROM UserAccount WHERE id = @id`,
		pgx.NamedArgs{"id": id},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query UserAccount: %w", err)
	}
	result, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[types.UserAccount])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apierrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get UserAccount: %w", err)
	}
	return &result, nil
}

func GetUserAccountByEmail(ctx context.Context, email string) (*types.UserAccount, error) {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		`SELECT `+userAccountOutputExpr+` FROM UserAccount WHERE email = @email`,
		pgx.NamedArgs{"email": email},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query UserAccount: %w", err)
	}
	result, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[types.UserAccount])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apierrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get UserAccount: %w", err)
	}
	return &result, nil
}

// GetUserAccountByChannelAddress looks up the account currently holding the
// given WhatsApp channel address. Returns ErrNotFound if no account holds it.
func GetUserAccountByChannelAddress(ctx context.Context, channelAddress string) (*types.UserAccount, error) {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		`SELECT `+userAccountOutputExpr+` FROM UserAccount WHERE channel_address = @channel_address`,
		pgx.NamedArgs{"channel_address": channelAddress},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query UserAccount: %w", err)
	}
	result, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[types.UserAccount])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apierrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get UserAccount: %w", err)
	}
	return &result, nil
}

func UpdateUserAccountChannelAddress(ctx context.Context, id uuid.UUID, channelAddress *string) error {
	db := internalctx.GetDb(ctx)
	cmd, err := db.Exec(ctx,
		`UPDATE UserAccount SET channel_address = @channel_address WHERE id = @id`,
		pgx.NamedArgs{
			"id":              id,
			"channel_address": channelAddress,
		},
	)
	if err != nil {
		if pgErr := new(pgconn.PgError); errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %w", apierrors.ErrPhoneAlreadyLinked, err)
		}
		return fmt.Errorf("failed to update UserAccount: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apierrors.ErrNotFound
	}
	return nil
}
