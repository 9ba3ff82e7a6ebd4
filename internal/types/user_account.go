package types

import (
	"time"

	"github.com/google/uuid"
)

type UserAccount struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	Email        *string   `db:"email" json:"email,omitempty"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	// ChannelAddress is the WhatsApp identity linked to this account, in the
	// canonical form "<digits>@s.whatsapp.net". At most one account may hold a
	// given address at a time (unique constraint).
	ChannelAddress *string `db:"channel_address" json:"-"`
}

func (u *UserAccount) HasLinkedChannel() bool {
	return u.ChannelAddress != nil && *u.ChannelAddress != ""
}
