package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grana-sh/grana/api"
	"github.com/grana-sh/grana/internal/apierrors"
	"github.com/grana-sh/grana/internal/auth"
	internalctx "github.com/grana-sh/grana/internal/context"
	"github.com/grana-sh/grana/internal/linking"
	"go.uber.org/zap"
)

func WhatsAppRouter(service *linking.Service) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/link", whatsAppLinkHandler(service))
		r.Post("/verify", whatsAppVerifyHandler(service))
		r.Get("/status", whatsAppStatusHandler(service))
		r.Delete("/link", whatsAppUnlinkHandler(service))
	}
}

func whatsAppLinkHandler(service *linking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userAccount := auth.Require(ctx)
		request, err := JsonBody[api.WhatsAppLinkRequest](w, r)
		if err != nil {
			return
		}
		if err := service.RequestCode(ctx, userAccount.ID, request.Phone); err != nil {
			respondLinkingError(w, r, err)
			return
		}
		RespondJSON(w, api.WhatsAppLinkResponse{Message: "verification code sent"})
	}
}

func whatsAppVerifyHandler(service *linking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userAccount := auth.Require(ctx)
		request, err := JsonBody[api.WhatsAppVerifyRequest](w, r)
		if err != nil {
			return
		}
		if err := service.VerifyCode(ctx, userAccount.ID, request.Phone, request.Code); err != nil {
			respondLinkingError(w, r, err)
			return
		}
		RespondJSON(w, api.WhatsAppLinkResponse{Message: "phone number linked"})
	}
}

func whatsAppStatusHandler(service *linking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userAccount := auth.Require(ctx)
		status, err := service.LinkStatus(ctx, userAccount.ID)
		if err != nil {
			internalServerError(w, r, "failed to get link status", err)
			return
		}
		RespondJSON(w, api.WhatsAppStatusResponse{Linked: status.Linked, Phone: status.Phone})
	}
}

func whatsAppUnlinkHandler(service *linking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userAccount := auth.Require(ctx)
		if err := service.Unlink(ctx, userAccount.ID); err != nil {
			internalServerError(w, r, "failed to unlink phone number", err)
			return
		}
		RespondJSON(w, api.WhatsAppLinkResponse{Message: "phone number unlinked"})
	}
}

// respondLinkingError translates the workflow's sentinel errors into status
// codes and user-facing messages.
func respondLinkingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apierrors.ErrInvalidPhone):
		http.Error(w, "invalid phone number", http.StatusBadRequest)
	case errors.Is(err, apierrors.ErrPhoneAlreadyLinked):
		http.Error(w, "this phone number is already linked to another account", http.StatusConflict)
	case errors.Is(err, apierrors.ErrRateLimited):
		http.Error(w, "too many code requests, try again later", http.StatusTooManyRequests)
	case errors.Is(err, apierrors.ErrNoPendingCode):
		http.Error(w, "no pending verification code, request a new one", http.StatusBadRequest)
	case errors.Is(err, apierrors.ErrCodeExpired):
		http.Error(w, "verification code expired, request a new one", http.StatusBadRequest)
	case errors.Is(err, apierrors.ErrTooManyAttempts):
		http.Error(w, "too many failed attempts, request a new code", http.StatusBadRequest)
	case errors.Is(err, apierrors.ErrIncorrectCode):
		http.Error(w, "incorrect verification code", http.StatusBadRequest)
	case errors.Is(err, apierrors.ErrMessengerNotConfigured):
		internalctx.GetLogger(r.Context()).Warn("messenger is not configured")
		http.Error(w, "message delivery is unavailable", http.StatusServiceUnavailable)
	case errors.Is(err, apierrors.ErrDeliveryFailed):
		internalctx.GetLogger(r.Context()).Warn("code delivery failed", zap.Error(err))
		captureException(r, err)
		http.Error(w, "could not deliver the verification code", http.StatusBadGateway)
	default:
		internalServerError(w, r, "linking workflow failed", err)
	}
}
