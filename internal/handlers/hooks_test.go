package handlers

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grana-sh/grana/internal/env"
	. "github.com/onsi/gomega"
)

func initTestEnv(t *testing.T, webhookAPIKey string) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/grana")
	t.Setenv("JWT_SECRET", base64.StdEncoding.EncodeToString([]byte("test-secret")))
	if webhookAPIKey != "" {
		t.Setenv("WEBHOOK_API_KEY", webhookAPIKey)
	}
	env.Initialize()
}

func TestHookAPIKeyMiddleware(t *testing.T) {
	initTestEnv(t, "relay-key")

	handler := hookAPIKeyMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("accepts the configured key", func(t *testing.T) {
		g := NewWithT(t)
		request := httptest.NewRequest(http.MethodPost, "/whatsapp", nil)
		request.Header.Set("X-Api-Key", "relay-key")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		g.Expect(recorder.Code).To(Equal(http.StatusNoContent))
	})

	t.Run("rejects a wrong key", func(t *testing.T) {
		g := NewWithT(t)
		request := httptest.NewRequest(http.MethodPost, "/whatsapp", nil)
		request.Header.Set("X-Api-Key", "wrong")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		g.Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
	})

	t.Run("rejects a missing key", func(t *testing.T) {
		g := NewWithT(t)
		request := httptest.NewRequest(http.MethodPost, "/whatsapp", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		g.Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
	})
}

func TestHookAPIKeyMiddleware_Unconfigured(t *testing.T) {
	g := NewWithT(t)
	initTestEnv(t, "")

	handler := hookAPIKeyMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	request := httptest.NewRequest(http.MethodPost, "/whatsapp", nil)
	request.Header.Set("X-Api-Key", "anything")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	g.Expect(recorder.Code).To(Equal(http.StatusNotFound))
}
