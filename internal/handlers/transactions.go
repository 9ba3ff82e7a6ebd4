package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/grana-sh/grana/api"
	"github.com/grana-sh/grana/internal/auth"
	"github.com/grana-sh/grana/internal/db"
	"github.com/grana-sh/grana/internal/ledger"
	"github.com/grana-sh/grana/internal/mapping"
	"github.com/grana-sh/grana/internal/types"
)

func TransactionsRouter(r chi.Router) {
	r.Get("/", getTransactionsHandler())
	r.Post("/", createTransactionHandler())
	r.Get("/summary", getTransactionSummaryHandler())
	r.Get("/chart", getTransactionChartHandler())
	r.Delete("/{transactionId}", deleteTransactionHandler())
}

func getTransactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userAccount := auth.Require(ctx)
		transactions, err := db.GetTransactions(ctx, userAccount.ID)
		if err != nil {
			internalServerError(w, r, "failed to get transactions", err)
			return
		}
		RespondJSON(w, mapping.List(transactions, mapping.TransactionToAPI))
	}
}

func createTransactionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userAccount := auth.Require(ctx)
		request, err := JsonBody[api.CreateTransactionRequest](w, r)
		if err != nil {
			return
		}

		// Validate has already accepted both
		transactionType, _ := types.ParseTransactionType(request.Type)
		amount, _ := request.ParsedAmount()

		transaction := types.Transaction{
			UserAccountID: userAccount.ID,
			Type:          transactionType,
			Description:   request.Description,
			Amount:        amount,
		}
		if err := db.CreateTransaction(ctx, &transaction); err != nil {
			internalServerError(w, r, "failed to create transaction", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		RespondJSON(w, mapping.TransactionToAPI(transaction))
	}
}

func getTransactionSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userAccount := auth.Require(ctx)
		transactions, err := db.GetTransactions(ctx, userAccount.ID)
		if err != nil {
			internalServerError(w, r, "failed to get transactions", err)
			return
		}
		RespondJSON(w, mapping.SummaryToAPI(ledger.Summarize(transactions)))
	}
}

func getTransactionChartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userAccount := auth.Require(ctx)
		transactions, err := db.GetTransactions(ctx, userAccount.ID)
		if err != nil {
			internalServerError(w, r, "failed to get transactions", err)
			return
		}
		RespondJSON(w, mapping.List(ledger.DailySeries(transactions), mapping.DailyBucketToAPI))
	}
}

func deleteTransactionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userAccount := auth.Require(ctx)
		transactionID, err := uuid.Parse(chi.URLParam(r, "transactionId"))
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		if err := db.DeleteTransaction(ctx, transactionID, userAccount.ID); err != nil {
			internalServerError(w, r, "failed to delete transaction", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
