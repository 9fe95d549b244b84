package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sandyspace/catalog-manager/ai"
	"github.com/sandyspace/catalog-manager/messages"
	"github.com/sandyspace/catalog-manager/models"
	"github.com/sandyspace/catalog-manager/remote"
)

func newTestResponder(t *testing.T) *Responder {
	t.Helper()
	translator, err := messages.NewTranslator()
	require.NoError(t, err)
	return NewResponder(translator, zap.NewNop())
}

func TestResponderError(t *testing.T) {
	testCases := []struct {
		name               string
		err                error
		acceptLanguage     string
		expectedStatusCode int
		expectedMessage    string
	}{
		{
			name:               "Validation error in French",
			err:                &models.ValidationError{Field: "name", MessageID: messages.NameRequired},
			expectedStatusCode: http.StatusBadRequest,
			expectedMessage:    "Veuillez entrer un nom de produit",
		},
		{
			name:               "Wrapped validation error in English",
			err:                fmt.Errorf("save: %w", &models.ValidationError{Field: "variants", MessageID: messages.VariantAxis, Data: map[string]any{"Axis": "material"}}),
			acceptLanguage:     "en-US,en;q=0.9",
			expectedStatusCode: http.StatusBadRequest,
			expectedMessage:    "Unknown variant type: material",
		},
		{
			name:               "Wrong PIN",
			err:                models.ErrPINIncorrect,
			expectedStatusCode: http.StatusUnauthorized,
			expectedMessage:    "Code PIN incorrect",
		},
		{
			name:               "Unknown product",
			err:                models.ErrProductNotFound,
			acceptLanguage:     "en",
			expectedStatusCode: http.StatusNotFound,
			expectedMessage:    "Product not found",
		},
		{
			name:               "Missing AI key",
			err:                ai.ErrMissingAPIKey,
			acceptLanguage:     "en",
			expectedStatusCode: http.StatusBadRequest,
			expectedMessage:    "The API key is not set. Please configure it in the settings.",
		},
		{
			name:               "Remote rejection",
			err:                &remote.StatusError{StatusCode: 500, Body: "boom"},
			expectedStatusCode: http.StatusBadGateway,
			expectedMessage:    "server responded with 500: boom",
		},
		{
			name:               "AI provider error",
			err:                &ai.APIError{StatusCode: 401, Message: "Invalid API key"},
			expectedStatusCode: http.StatusBadGateway,
			expectedMessage:    "Invalid API key",
		},
		{
			name:               "Storage failure",
			err:                errors.New("disk full"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedMessage:    "Internal server error",
		},
	}

	rs := newTestResponder(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			if tc.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tc.acceptLanguage)
			}
			rec := httptest.NewRecorder()

			rs.Error(rec, req, tc.err)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var errResp map[string]string
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
			assert.Equal(t, tc.expectedMessage, errResp["error"])
		})
	}
}

// --- Mock verifier ---

type MockVerifier struct {
	PIN   string
	Calls int
}

func (m *MockVerifier) VerifyPIN(_ context.Context, pin string) bool {
	m.Calls++
	return pin == m.PIN
}

func TestRequirePIN(t *testing.T) {
	testCases := []struct {
		name               string
		method             string
		path               string
		pin                string
		expectedStatusCode int
	}{
		{name: "Correct PIN", method: http.MethodGet, path: "/products", pin: "1234", expectedStatusCode: http.StatusOK},
		{name: "Wrong PIN", method: http.MethodGet, path: "/products", pin: "0000", expectedStatusCode: http.StatusUnauthorized},
		{name: "Missing PIN", method: http.MethodDelete, path: "/products/p1", expectedStatusCode: http.StatusUnauthorized},
		{name: "Verify endpoint is open", method: http.MethodPost, path: "/pin/verify", expectedStatusCode: http.StatusOK},
		{name: "Changing the PIN is gated", method: http.MethodPut, path: "/pin", expectedStatusCode: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			})
			handler := RequirePIN(&MockVerifier{PIN: "1234"}, newTestResponder(t), next)

			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.pin != "" {
				req.Header.Set(PINHeader, tc.pin)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, tc.expectedStatusCode == http.StatusOK, reached)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]int{"syncedCount": 2})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"syncedCount": 2}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteJSON(rec, http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestResponderBadRequest(t *testing.T) {
	rs := newTestResponder(t)

	testCases := []struct {
		name           string
		id             string
		acceptLanguage string
		expected       string
	}{
		{name: "Invalid JSON in French", id: messages.InvalidJSON, expected: "Requête JSON invalide"},
		{name: "Invalid JSON in English", id: messages.InvalidJSON, acceptLanguage: "en", expected: "Invalid JSON body"},
		{name: "Invalid image in English", id: messages.InvalidImage, acceptLanguage: "en", expected: "Invalid image data"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/products", nil)
			req.Header.Set("Accept-Language", tc.acceptLanguage)
			rec := httptest.NewRecorder()

			rs.BadRequest(rec, req, tc.id)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.expected, body["error"])
		})
	}
}
