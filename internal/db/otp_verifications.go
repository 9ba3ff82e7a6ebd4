package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grana-sh/grana/internal/apierrors"
	internalctx "github.com/grana-sh/grana/internal/context"
	"github.com/grana-sh/grana/internal/env"
	"github.com/grana-sh/grana/internal/types"
	"github.com/jackc/pgx/v5"
)

const otpVerificationOutputExpr = "id, created_at, user_account_id, phone_number, code, expires_at, verified, attempts"

func CreateOtpVerification(ctx context.Context, verification *types.OtpVerification) error {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		`INSERT INTO OtpVerification (user_account_id, phone_number, code, expires_at)
		VALUES (@user_account_id, @phone_number, @code, @expires_at)
		RETURNING `+otpVerificationOutputExpr,
		pgx.NamedArgs{
			"user_account_id": verification.UserAccountID,
			"phone_number":    verification.PhoneNumber,
			"code":            verification.Code,
			"expires_at":      verification.ExpiresAt,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to insert OtpVerification: %w", err)
	}
	result, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[types.OtpVerification])
	if err != nil {
		return fmt.Errorf("failed to get inserted OtpVerification: %w", err)
	}
	*verification = result
	return nil
}

// GetLatestPendingOtpVerification selects the most recently created unverified
// row for the given account and phone. Returns ErrNotFound if none exists.
func GetLatestPendingOtpVerification(
	ctx context.Context,
	userAccountID uuid.UUID,
	phoneNumber string,
) (*types.OtpVerification, error) {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		`SELECT `+otpVerificationOutputExpr+`
		FROM OtpVerification
		WHERE user_account_id = @user_account_id
			AND phone_number = @phone_number
			AND verified = false
		ORDER BY created_at DESC
		LIMIT 1`,
		pgx.NamedArgs{
			"user_account_id": userAccountID,
			"phone_number":    phoneNumber,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query OtpVerification: %w", err)
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[types.OtpVerification])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apierrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to collect OtpVerification: %w", err)
	}
	return &result, nil
}

// CountOtpVerificationsSince counts code requests of the account created after
// the given instant, regardless of phone number. This backs the trailing
// wall-clock rate limit window.
func CountOtpVerificationsSince(ctx context.Context, userAccountID uuid.UUID, since time.Time) (int, error) {
	db := internalctx.GetDb(ctx)
	var count int
	err := db.QueryRow(ctx,
		`SELECT count(*) FROM OtpVerification
		WHERE user_account_id = @user_account_id AND created_at >= @since`,
		pgx.NamedArgs{
			"user_account_id": userAccountID,
			"since":           since,
		},
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count OtpVerification: %w", err)
	}
	return count, nil
}

// IncrementOtpVerificationAttempts persists the attempt before the code
// comparison happens, so an aborted verify still counts.
func IncrementOtpVerificationAttempts(ctx context.Context, id uuid.UUID) error {
	db := internalctx.GetDb(ctx)
	cmd, err := db.Exec(ctx,
		`UPDATE OtpVerification SET attempts = attempts + 1 WHERE id = @id`,
		pgx.NamedArgs{"id": id},
	)
	if err != nil {
		return fmt.Errorf("failed to update OtpVerification: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apierrors.ErrNotFound
	}
	return nil
}

func MarkOtpVerificationVerified(ctx context.Context, id uuid.UUID) error {
	db := internalctx.GetDb(ctx)
	cmd, err := db.Exec(ctx,
		`UPDATE OtpVerification SET verified = true WHERE id = @id AND verified = false`,
		pgx.NamedArgs{"id": id},
	)
	if err != nil {
		return fmt.Errorf("failed to update OtpVerification: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apierrors.ErrNotFound
	}
	return nil
}

// CleanupOtpVerifications deletes expired unverified rows older than
// [env.OtpVerificationMaxAge]. Verified rows are kept as the audit trail of
// when a link was established.
func CleanupOtpVerifications(ctx context.Context) (int64, error) {
	db := internalctx.GetDb(ctx)
	cmd, err := db.Exec(ctx,
		`DELETE FROM OtpVerification
		WHERE verified = false
			AND expires_at < current_timestamp
			AND current_timestamp - created_at > @maxAge`,
		pgx.NamedArgs{"maxAge": env.OtpVerificationMaxAge()},
	)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
