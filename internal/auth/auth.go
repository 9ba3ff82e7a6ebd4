package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/grana-sh/grana/internal/apierrors"
	internalctx "github.com/grana-sh/grana/internal/context"
	"github.com/grana-sh/grana/internal/db"
	"github.com/grana-sh/grana/internal/env"
	"github.com/grana-sh/grana/internal/types"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.uber.org/zap"
)

var tokenAuth *jwtauth.JWTAuth

// Init must be called after env.Initialize.
func Init() {
	tokenAuth = jwtauth.New("HS256", env.JWTSecret(), nil)
}

func TokenAuth() *jwtauth.JWTAuth {
	return tokenAuth
}

// CreateUserToken issues a session JWT for the given account.
func CreateUserToken(userAccount types.UserAccount) (string, error) {
	claims := map[string]any{
		"sub": userAccount.ID.String(),
	}
	if userAccount.Email != nil {
		claims["email"] = *userAccount.Email
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, env.SessionTokenValidDuration())
	_, tokenString, err := tokenAuth.Encode(claims)
	return tokenString, err
}

// Verifier extracts and validates the session token from the request.
func Verifier(next http.Handler) http.Handler {
	return jwtauth.Verifier(tokenAuth)(next)
}

// UserAccountCtxMiddleware resolves the token subject to a UserAccount row
// and makes it available on the request context. Requests without a valid
// token or with an unknown subject are rejected with 401.
func UserAccountCtxMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token, _, err := jwtauth.FromContext(ctx)
		if err != nil || token == nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		userID, err := subjectUUID(token)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		userAccount, err := db.GetUserAccountByID(ctx, userID)
		if err != nil {
			if errors.Is(err, apierrors.ErrNotFound) {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			} else {
				internalctx.GetLogger(ctx).Error("failed to get user for session", zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
			return
		}
		next.ServeHTTP(w, r.WithContext(internalctx.WithUserAccount(ctx, userAccount)))
	})
}

func subjectUUID(token jwt.Token) (uuid.UUID, error) {
	return uuid.Parse(token.Subject())
}

// Require returns the authenticated account or panics; only call it below
// UserAccountCtxMiddleware.
func Require(ctx context.Context) *types.UserAccount {
	return internalctx.GetUserAccount(ctx)
}
