package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grana-sh/grana/api"
	"github.com/grana-sh/grana/internal/apierrors"
	"github.com/grana-sh/grana/internal/db"
	"github.com/grana-sh/grana/internal/env"
	"github.com/grana-sh/grana/internal/mapping"
	"github.com/grana-sh/grana/internal/phone"
	"github.com/grana-sh/grana/internal/types"
)

func HooksRouter(r chi.Router) {
	r.Use(hookAPIKeyMiddleware)
	r.Post("/whatsapp", whatsAppHookHandler())
}

// hookAPIKeyMiddleware guards the automation relay endpoints with a shared
// key. With no key configured the endpoints are disabled entirely.
func hookAPIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		configured := env.WebhookAPIKey()
		if configured == nil {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		provided := r.Header.Get("X-Api-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(*configured)) != 1 {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// whatsAppHookHandler records a ledger entry posted by the automation relay
// on behalf of a linked WhatsApp user. The sender is resolved by channel
// address, so only linked accounts can be written to.
func whatsAppHookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		request, err := JsonBody[api.WhatsAppHookRequest](w, r)
		if err != nil {
			return
		}

		channelAddress := request.Number
		if phone.FromChannelAddress(channelAddress) == channelAddress {
			channelAddress = phone.ChannelAddress(phone.Normalize(channelAddress))
		}
		userAccount, err := db.GetUserAccountByChannelAddress(ctx, channelAddress)
		if err != nil {
			if errors.Is(err, apierrors.ErrNotFound) {
				http.Error(w, "no account is linked to this phone number", http.StatusNotFound)
			} else {
				internalServerError(w, r, "failed to resolve sender", err)
			}
			return
		}

		transactionType, _ := types.ParseTransactionType(request.Type)
		create := api.CreateTransactionRequest{Type: request.Type, Description: request.Description, Amount: request.Amount}
		amount, _ := create.ParsedAmount()

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
