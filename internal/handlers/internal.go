package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	internalctx "github.com/grana-sh/grana/internal/context"
	"github.com/grana-sh/grana/internal/validation"
	"go.uber.org/zap"
)

type validatable interface {
	Validate() error
}

// JsonBody decodes the request body into T and validates it where T
// implements Validate. On failure the response has already been written and
// the caller must return.
func JsonBody[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var result T
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return result, err
	}
	if v, ok := any(&result).(validatable); ok {
		if err := v.Validate(); err != nil {
			if errors.Is(err, validation.ErrValidationFailed) {
				http.Error(w, err.Error(), http.StatusBadRequest)
			} else {
				http.Error(w, "invalid request body", http.StatusBadRequest)
			}
			return result, err
		}
	}
	return result, nil
}

func RespondJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already out at this point, logging is all that's left
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func internalServerError(w http.ResponseWriter, r *http.Request, message string, err error) {
	log := internalctx.GetLogger(r.Context())
	log.Error(message, zap.Error(err))
	captureException(r, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func captureException(r *http.Request, err error) {
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.CaptureException(err)
	}
}
