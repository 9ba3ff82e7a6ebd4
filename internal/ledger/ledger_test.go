package ledger_test

import (
	"testing"
	"time"

	"github.com/grana-sh/grana/internal/ledger"
	"github.com/grana-sh/grana/internal/types"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func transaction(t types.TransactionType, amount string, createdAt time.Time) types.Transaction {
	return types.Transaction{
		Type:      t,
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: createdAt,
	}
}

func TestSummarize(t *testing.T) {
	g := NewWithT(t)
	now := time.Now()

	summary := ledger.Summarize([]types.Transaction{
		transaction(types.TransactionTypeIncome, "1500.00", now),
		transaction(types.TransactionTypeIncome, "250.50", now),
		transaction(types.TransactionTypeExpense, "99.90", now),
	})

	g.Expect(summary.TotalIncome.Equal(decimal.RequireFromString("1750.50"))).To(BeTrue())
	g.Expect(summary.TotalExpense.Equal(decimal.RequireFromString("99.90"))).To(BeTrue())
	g.Expect(summary.Balance.Equal(decimal.RequireFromString("1650.60"))).To(BeTrue())
}

func TestSummarize_SingleIncome(t *testing.T) {
	g := NewWithT(t)

	summary := ledger.Summarize([]types.Transaction{
		transaction(types.TransactionTypeIncome, "1500.00", time.Now()),
	})

	g.Expect(summary.TotalIncome.Equal(decimal.RequireFromString("1500.00"))).To(BeTrue())
	g.Expect(summary.TotalExpense.IsZero()).To(BeTrue())
	g.Expect(summary.Balance.Equal(decimal.RequireFromString("1500.00"))).To(BeTrue())
}

func TestSummarize_Empty(t *testing.T) {
	g := NewWithT(t)

	summary := ledger.Summarize(nil)
	g.Expect(summary.TotalIncome.IsZero()).To(BeTrue())
	g.Expect(summary.TotalExpense.IsZero()).To(BeTrue())
	g.Expect(summary.Balance.IsZero()).To(BeTrue())
}

func TestSummarize_NegativeBalance(t *testing.T) {
	g := NewWithT(t)

	summary := ledger.Summarize([]types.Transaction{
		transaction(types.TransactionTypeIncome, "100.00", time.Now()),
		transaction(types.TransactionTypeExpense, "250.00", time.Now()),
	})
	g.Expect(summary.Balance.Equal(decimal.RequireFromString("-150.00"))).To(BeTrue())
}

func TestDailySeries(t *testing.T) {
	g := NewWithT(t)

	day1 := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2025, 5, 3, 18, 0, 0, 0, time.UTC)

	// newest-first input, like db.GetTransactions returns
	buckets := ledger.DailySeries([]types.Transaction{
		transaction(types.TransactionTypeExpense, "40.00", day2),
		transaction(types.TransactionTypeIncome, "1000.00", day1),
		transaction(types.TransactionTypeExpense, "200.00", day1.Add(5*time.Hour)),
	})

	g.Expect(buckets).To(HaveLen(2))

	g.Expect(buckets[0].Date).To(Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)))
	g.Expect(buckets[0].Income.Equal(decimal.RequireFromString("1000.00"))).To(BeTrue())
	g.Expect(buckets[0].Expense.Equal(decimal.RequireFromString("200.00"))).To(BeTrue())
	g.Expect(buckets[0].Balance.Equal(decimal.RequireFromString("800.00"))).To(BeTrue())

	g.Expect(buckets[1].Date).To(Equal(time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)))
	g.Expect(buckets[1].Expense.Equal(decimal.RequireFromString("40.00"))).To(BeTrue())
	g.Expect(buckets[1].Balance.Equal(decimal.RequireFromString("760.00"))).To(BeTrue())
}

func TestDailySeries_Empty(t *testing.T) {
	g := NewWithT(t)
	g.Expect(ledger.DailySeries(nil)).To(BeEmpty())
}
