// Package linking implements the WhatsApp channel linking workflow: a user
// requests a one-time code for their phone number, the code is delivered via
// WhatsApp, and a successful verification writes the channel address onto the
// user account.
package linking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grana-sh/grana/internal/apierrors"
	"github.com/grana-sh/grana/internal/phone"
	"github.com/grana-sh/grana/internal/security"
	"github.com/grana-sh/grana/internal/types"
	"github.com/grana-sh/grana/internal/whatsapp"
)

const (
	// CodeValidFor is how long a requested code can be verified.
	CodeValidFor = 5 * time.Minute
	// rateLimitWindow is a trailing wall-clock window, not a fixed bucket.
	rateLimitWindow      = time.Hour
	maxRequestsPerWindow = 5
	maxVerifyAttempts    = 3
)

// Store is the persistence contract of the workflow. The production
// implementation is db.LinkingStore.
type Store interface {
	GetAccountByID(ctx context.Context, id uuid.UUID) (*types.UserAccount, error)
	// GetAccountByChannelAddress returns apierrors.ErrNotFound when no account
	// holds the address.
	GetAccountByChannelAddress(ctx context.Context, channelAddress string) (*types.UserAccount, error)
	CountRequestsSince(ctx context.Context, userAccountID uuid.UUID, since time.Time) (int, error)
	CreateVerification(ctx context.Context, verification *types.OtpVerification) error
	// GetLatestPendingVerification returns the most recently created unverified
	// row for the account and phone, or apierrors.ErrNotFound.
	GetLatestPendingVerification(
		ctx context.Context,
		userAccountID uuid.UUID,
		phoneNumber string,
	) (*types.OtpVerification, error)
	IncrementAttempts(ctx context.Context, verificationID uuid.UUID) error
	// FinalizeLink marks the verification row verified and writes the channel
	// address onto the account, atomically where the store supports it.
	FinalizeLink(ctx context.Context, verificationID, userAccountID uuid.UUID, channelAddress string) error
	SetChannelAddress(ctx context.Context, userAccountID uuid.UUID, channelAddress *string) error
}

type Status struct {
	Linked bool
	// Phone is the human-readable digit portion of the linked channel address.
	Phone string
}

type Service struct {
	store     Store
	messenger whatsapp.Messenger
	now       func() time.Time
}

func NewService(store Store, messenger whatsapp.Messenger) *Service {
	return &Service{
		store:     store,
		messenger: messenger,
		now:       time.Now,
	}
}

// RequestCode generates and persists a fresh 6-digit code for the phone and
// sends it via WhatsApp. The persisted row is deliberately not rolled back
// when delivery fails: the user may still verify against it, or it simply
// expires unused.
func (s *Service) RequestCode(ctx context.Context, userAccountID uuid.UUID, rawPhone string) error {
	if !phone.IsValid(rawPhone) {
		return apierrors.ErrInvalidPhone
	}
	normalized := phone.Normalize(rawPhone)
	channelAddress := phone.ChannelAddress(normalized)

	// one channel address may be linked to at most one account at a time
	if existing, err := s.store.GetAccountByChannelAddress(ctx, channelAddress); err != nil {
		if !errors.Is(err, apierrors.ErrNotFound) {
			return err
		}
	} else if existing.ID != userAccountID {
		return apierrors.ErrPhoneAlreadyLinked
	}

	count, err := s.store.CountRequestsSince(ctx, userAccountID, s.now().Add(-rateLimitWindow))
	if err != nil {
		return err
	}
	if count >= maxRequestsPerWindow {
		return apierrors.ErrRateLimited
	}

	code, err := security.GenerateOTPCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	verification := types.OtpVerification{
		UserAccountID: userAccountID,
		PhoneNumber:   normalized,
		Code:          code,
		ExpiresAt:     s.now().Add(CodeValidFor),
	}
	if err := s.store.CreateVerification(ctx, &verification); err != nil {
		return err
	}

	if err := s.messenger.SendText(ctx, channelAddress, whatsapp.FormatOTPMessage(code)); err != nil {
		if errors.Is(err, apierrors.ErrDeliveryFailed) || errors.Is(err, apierrors.ErrMessengerNotConfigured) {
			return err
		}
		return fmt.Errorf("%w: %w", apierrors.ErrDeliveryFailed, err)
	}
	return nil
}

// VerifyCode checks the submitted code against the most recent pending
// verification row. The attempt is persisted before the comparison, so an
// aborted call still counts against the cap.
func (s *Service) VerifyCode(ctx context.Context, userAccountID uuid.UUID, rawPhone, submittedCode string) error {
	normalized := phone.Normalize(rawPhone)

	verification, err := s.store.GetLatestPendingVerification(ctx, userAccountID, normalized)
	if err != nil {
		if errors.Is(err, apierrors.ErrNotFound) {
			return apierrors.ErrNoPendingCode
		}
		return err
	}

	if s.now().After(verification.ExpiresAt) {
		return apierrors.ErrCodeExpired
	}

	if err := s.store.IncrementAttempts(ctx, verification.ID); err != nil {
		return err
	}
	if verification.Attempts >= maxVerifyAttempts {
		return apierrors.ErrTooManyAttempts
	}

	if strings.TrimSpace(submittedCode) != verification.Code {
		return apierrors.ErrIncorrectCode
	}

	return s.store.FinalizeLink(ctx, verification.ID, userAccountID, phone.ChannelAddress(normalized))
}

// LinkStatus reports whether the account currently has a linked channel
// address, and its human-readable phone portion.
func (s *Service) LinkStatus(ctx context.Context, userAccountID uuid.UUID) (Status, error) {
	account, err := s.store.GetAccountByID(ctx, userAccountID)
	if err != nil {
		return Status{}, err
	}
	if !account.HasLinkedChannel() {
		return Status{}, nil
	}
	return Status{
		Linked: true,
		Phone:  phone.FromChannelAddress(*account.ChannelAddress),
	}, nil
}

// Unlink clears the account's channel address unconditionally. Historical
// verification rows are kept.
func (s *Service) Unlink(ctx context.Context, userAccountID uuid.UUID) error {
	return s.store.SetChannelAddress(ctx, userAccountID, nil)
}

// WithNow overrides the clock. Only for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}
