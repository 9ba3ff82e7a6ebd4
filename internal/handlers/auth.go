package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grana-sh/grana/api"
	"github.com/grana-sh/grana/internal/apierrors"
	"github.com/grana-sh/grana/internal/auth"
	"github.com/grana-sh/grana/internal/db"
	"github.com/grana-sh/grana/internal/env"
	"github.com/grana-sh/grana/internal/security"
	"github.com/grana-sh/grana/internal/types"
	"github.com/grana-sh/grana/internal/util"
)

func AuthRouter(r chi.Router) {
	r.Post("/register", authRegisterHandler())
	r.Post("/login", authLoginHandler())
}

func authRegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if env.Registration() == env.RegistrationDisabled {
			http.Error(w, "registration is disabled", http.StatusForbidden)
			return
		}

		request, err := JsonBody[api.AuthRegistrationRequest](w, r)
		if err != nil {
			return
		}

		userAccount := types.UserAccount{Email: util.PtrTo(request.Email)}
		if err := security.HashPassword(&userAccount, request.Password); err != nil {
			internalServerError(w, r, "failed to hash password", err)
			return
		}

		if err := db.CreateUserAccount(ctx, &userAccount); err != nil {
			if errors.Is(err, apierrors.ErrConflict) {
				http.Error(w, "an account with this email already exists", http.StatusBadRequest)
			} else {
				internalServerError(w, r, "failed to create user", err)
			}
			return
		}

		token, err := auth.CreateUserToken(userAccount)
		if err != nil {
			internalServerError(w, r, "failed to create token", err)
			return
		}
		RespondJSON(w, api.AuthLoginResponse{Token: token})
	}
}

func authLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		request, err := JsonBody[api.AuthLoginRequest](w, r)
		if err != nil {
			return
		}

		userAccount, err := db.GetUserAccountByEmail(ctx, request.Email)
		if err != nil {
			if errors.Is(err, apierrors.ErrNotFound) {
				http.Error(w, "invalid email or password", http.StatusUnauthorized)
			} else {
				internalServerError(w, r, "failed to get user", err)
			}
			return
		}

		if err := security.VerifyPassword(*userAccount, request.Password); err != nil {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}

		token, err := auth.CreateUserToken(*userAccount)
		if err != nil {
			internalServerError(w, r, "failed to create token", err)
			return
		}
		RespondJSON(w, api.AuthLoginResponse{Token: token})
	}
}
