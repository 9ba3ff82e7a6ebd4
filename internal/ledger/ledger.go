// Package ledger computes the derived aggregates of a user's transaction
// list. Nothing here is persisted; totals and chart series are recomputed
// from the rows on every read.
package ledger

import (
	"sort"
	"time"

	"github.com/grana-sh/grana/internal/types"
	"github.com/shopspring/decimal"
)

type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
}

// Summarize computes totalIncome, totalExpense and balance over the given
// transactions, in any order.
func Summarize(transactions []types.Transaction) Summary {
	summary := Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, transaction := range transactions {
		switch transaction.Type {
		case types.TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(transaction.Amount)
		case types.TransactionTypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(transaction.Amount)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}

type DailyBucket struct {
	Date    time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	// Balance is the running balance up to and including this day.
	Balance decimal.Decimal
}

// DailySeries buckets transactions by calendar day (UTC) and returns the
// buckets oldest first, with a running balance. Days without transactions are
// not materialized.
func DailySeries(transactions []types.Transaction) []DailyBucket {
	byDay := make(map[time.Time]*DailyBucket)
	for _, transaction := range transactions {
		day := transaction.CreatedAt.UTC().Truncate(24 * time.Hour)
		bucket, ok := byDay[day]
		if !ok {
			bucket = &DailyBucket{
				Date:    day,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			}
			byDay[day] = bucket
		}
		switch transaction.Type {
		case types.TransactionTypeIncome:
			bucket.Income = bucket.Income.Add(transaction.Amount)
		case types.TransactionTypeExpense:
			bucket.Expense = bucket.Expense.Add(transaction.Amount)
		}
	}

	buckets := make([]DailyBucket, 0, len(byDay))
	for _, bucket := range byDay {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})

	balance := decimal.Zero
	for i := range buckets {
		balance = balance.Add(buckets[i].Income).Sub(buckets[i].Expense)
		buckets[i].Balance = balance
	}
	return buckets
}
