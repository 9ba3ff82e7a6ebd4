package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/grana-sh/grana/internal/types"
)

// LinkingStore adapts the db package to the linking.Store contract. All state
// lives in the context-provided pool, so the zero value is ready to use.
type LinkingStore struct{}

func (LinkingStore) GetAccountByID(ctx context.Context, id uuid.UUID) (*types.UserAccount, error) {
	return GetUserAccountByID(ctx, id)
}

func (LinkingStore) GetAccountByChannelAddress(
	ctx context.Context,
	channelAddress string,
) (*types.UserAccount, error) {
	return GetUserAccountByChannelAddress(ctx, channelAddress)
}

func (LinkingStore) CountRequestsSince(
	ctx context.Context,
	userAccountID uuid.UUID,
	since time.Time,
) (int, error) {
	return CountOtpVerificationsSince(ctx, userAccountID, since)
}

func (LinkingStore) CreateVerification(ctx context.Context, verification *types.OtpVerification) error {
	return CreateOtpVerification(ctx, verification)
}

func (LinkingStore) GetLatestPendingVerification(
	ctx context.Context,
	userAccountID uuid.UUID,
	phoneNumber string,
) (*types.OtpVerification, error) {
	return GetLatestPendingOtpVerification(ctx, userAccountID, phoneNumber)
}

func (LinkingStore) IncrementAttempts(ctx context.Context, verificationID uuid.UUID) error {
	return IncrementOtpVerificationAttempts(ctx, verificationID)
}

func (LinkingStore) FinalizeLink(
	ctx context.Context,
	verificationID, userAccountID uuid.UUID,
	channelAddress string,
) error {
	return RunTx(ctx, func(ctx context.Context) error {
		if err := MarkOtpVerificationVerified(ctx, verificationID); err != nil {
			return err
		}
		return UpdateUserAccountChannelAddress(ctx, userAccountID, &channelAddress)
	})
}

func (LinkingStore) SetChannelAddress(
	ctx context.Context,
	userAccountID uuid.UUID,
	channelAddress *string,
) error {
	return UpdateUserAccountChannelAddress(ctx, userAccountID, channelAddress)
}
