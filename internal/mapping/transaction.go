package mapping

import (
	"time"

	"github.com/grana-sh/grana/api"
	"github.com/grana-sh/grana/internal/ledger"
	"github.com/grana-sh/grana/internal/types"
)

func TransactionToAPI(transaction types.Transaction) api.Transaction {
	return api.Transaction{
		ID:          transaction.ID,
		CreatedAt:   transaction.CreatedAt,
		Type:        string(transaction.Type),
		Description: transaction.Description,
		Amount:      transaction.Amount.StringFixed(2),
	}
}

func SummaryToAPI(summary ledger.Summary) api.TransactionSummary {
	return api.TransactionSummary{
		TotalIncome:  summary.TotalIncome.StringFixed(2),
		TotalExpense: summary.TotalExpense.StringFixed(2),
		Balance:      summary.Balance.StringFixed(2),
	}
}

func DailyBucketToAPI(bucket ledger.DailyBucket) api.TransactionChartBucket {
	return api.TransactionChartBucket{
		Date:    bucket.Date.Format(time.DateOnly),
		Income:  bucket.Income.StringFixed(2),
		Expense: bucket.Expense.StringFixed(2),
		Balance: bucket.Balance.StringFixed(2),
	}
}
