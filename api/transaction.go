package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/grana-sh/grana/internal/types"
	"github.com/grana-sh/grana/internal/validation"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	// Amount is a decimal string with two fractional digits, e.g. "1500.00".
	Amount string `json:"amount"`
}

type CreateTransactionRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func (r *CreateTransactionRequest) Validate() error {
	if _, err := types.ParseTransactionType(r.Type); err != nil {
		return validation.NewValidationFailedError("type must be \"income\" or \"expense\"")
	}
	if r.Description == "" {
		return validation.NewValidationFailedError("description is empty")
	}
	if _, err := r.ParsedAmount(); err != nil {
		return err
	}
	return nil
}

// ParsedAmount parses the amount and enforces the money contract: a positive
// decimal with at most two fractional digits.
func (r *CreateTransactionRequest) ParsedAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Zero, validation.NewValidationFailedError("amount is not a valid number")
	}
	if !amount.IsPositive() {
		return decimal.Zero, validation.NewValidationFailedError("amount must be positive")
	}
	if amount.Exponent() < -2 {
		return decimal.Zero, validation.NewValidationFailedError("amount must have at most two decimal places")
	}
	return amount, nil
}

type TransactionSummary struct {
	TotalIncome  string `json:"totalIncome"`
	TotalExpense string `json:"totalExpense"`
	Balance      string `json:"balance"`
}

type TransactionChartBucket struct {
	Date    string `json:"date"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}
