package types

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func ParseTransactionType(value string) (TransactionType, error) {
	switch TransactionType(value) {
	case TransactionTypeIncome, TransactionTypeExpense:
		return TransactionType(value), nil
	default:
		return "", errors.New("invalid transaction type")
	}
}

type Transaction struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UserAccountID uuid.UUID       `db:"user_account_id" json:"-"`
	Type          TransactionType `db:"type" json:"type"`
	Description   string          `db:"description" json:"description"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
}
