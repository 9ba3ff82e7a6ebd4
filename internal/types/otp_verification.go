package types

import (
	"time"

	"github.com/google/uuid"
)

// OtpVerification is one code-request row. Rows are append-only history: the
// workflow only ever mutates attempts and verified, and never deletes.
type OtpVerification struct {
	ID            uuid.UUID `db:"id"`
	CreatedAt     time.Time `db:"created_at"`
	UserAccountID uuid.UUID `db:"user_account_id"`
	PhoneNumber   string    `db:"phone_number"`
	Code          string    `db:"code"`
	ExpiresAt     time.Time `db:"expires_at"`
	Verified      bool      `db:"verified"`
	Attempts      int       `db:"attempts"`
}
