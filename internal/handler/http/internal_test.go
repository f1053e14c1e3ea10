package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/snikitin/accounts-service/internal/service"
	"github.com/snikitin/accounts-service/internal/store"
	"github.com/snikitin/accounts-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonBody serialises v to a JSON request body string.
func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// decodeErrorBody parses the structured error envelope from rec.
func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// ─────────────────────────────────────────────
// POST /internal/accounts
// ─────────────────────────────────────────────

func TestRegisterAccount_Success(t *testing.T) {
	created := models.Account{
		AccountID: "acc-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Active:    true,
		Type:      models.TypeUnverified,
	}
	svc := &mockAccountService{
		registerFn: func(_ context.Context, req models.RegisterRequest) (models.Account, error) {
			assert.Equal(t, "ada@example.com", req.Email)
			return created, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	body := jsonBody(t, models.RegisterRequest{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "opaque",
	})
	req := httptest.NewRequest(http.MethodPost, "/internal/accounts/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "acc-1", got.AccountID)
	assert.Equal(t, models.TypeUnverified, got.Type)
}

func TestRegisterAccount_InvalidJSON(t *testing.T) {
	router := newHandlerWithAccounts(t, &mockAccountService{}).Init()

	req := httptest.NewRequest(http.MethodPost, "/internal/accounts/", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeErrorBody(t, rec).Error)
}

func TestRegisterAccount_EmailTaken(t *testing.T) {
	svc := &mockAccountService{
		registerFn: func(context.Context, models.RegisterRequest) (models.Account, error) {
			return models.Account{}, store.ErrEmailAlreadyExists
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	body := jsonBody(t, models.RegisterRequest{Email: "taken@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/internal/accounts/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeErrorBody(t, rec).Error)
}

// ─────────────────────────────────────────────
// GET /internal/accounts/{accountID} and email lookups
// ─────────────────────────────────────────────

func TestInternalAccountByID_Success(t *testing.T) {
	svc := &mockAccountService{
		getByIDFn: func(_ context.Context, accountID string) (models.Account, error) {
			assert.Equal(t, "acc-1", accountID)
			return models.Account{AccountID: "acc-1"}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := httptest.NewRequest(http.MethodGet, "/internal/accounts/acc-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInternalAccountByID_NotFound(t *testing.T) {
	svc := &mockAccountService{
		getByIDFn: func(context.Context, string) (models.Account, error) {
			return models.Account{}, store.ErrAccountNotFound
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := httptest.NewRequest(http.MethodGet, "/internal/accounts/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeErrorBody(t, rec).Error)
}

func TestAccountByEmail_PassesQueryParam(t *testing.T) {
	svc := &mockAccountService{
		getByEmailFn: func(_ context.Context, email string) (models.Account, error) {
			assert.Equal(t, "ada@example.com", email)
			return models.Account{AccountID: "acc-1", Email: email}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := httptest.NewRequest(http.MethodGet, "/internal/accounts/email?email=ada%40example.com", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountByPendingEmail_NotFound(t *testing.T) {
	svc := &mockAccountService{
		getByPendingEmailFn: func(context.Context, string) (models.Account, error) {
			return models.Account{}, store.ErrAccountNotFound
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := httptest.NewRequest(http.MethodGet, "/internal/accounts/pending-email?email=x%40example.com", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ─────────────────────────────────────────────
// PUT /internal/accounts/verify
// ─────────────────────────────────────────────

func TestVerifyEmail_Success(t *testing.T) {
	svc := &mockAccountService{
		verifyEmailFn: func(_ context.Context, req models.VerifyEmailRequest) (models.Account, error) {
			assert.Equal(t, "tok-123", req.Token)
			return models.Account{AccountID: "acc-1", EmailVerified: true, Type: models.TypeNormal}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	body := jsonBody(t, models.VerifyEmailRequest{Email: "ada@example.com", Token: "tok-123"})
	req := httptest.NewRequest(http.MethodPut, "/internal/accounts/verify", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.True(t, got.EmailVerified)
}

func TestVerifyEmail_InvalidToken(t *testing.T) {
	svc := &mockAccountService{
		verifyEmailFn: func(context.Context, models.VerifyEmailRequest) (models.Account, error) {
			return models.Account{}, service.ErrInvalidToken
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	body := jsonBody(t, models.VerifyEmailRequest{Email: "ada@example.com", Token: "wrong"})
	req := httptest.NewRequest(http.MethodPut, "/internal/accounts/verify", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_token", decodeErrorBody(t, rec).Error)
}

// ─────────────────────────────────────────────
// Token endpoints
// ─────────────────────────────────────────────

func TestReplaceToken_Success(t *testing.T) {
	expiresAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	svc := &mockAccountService{
		replaceTokenFn: func(_ context.Context, accountID string, req models.ReplaceTokenRequest) (models.Account, error) {
			assert.Equal(t, "acc-1", accountID)
			assert.Equal(t, "tok-new", req.Token)
			return models.Account{AccountID: accountID}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	body := jsonBody(t, models.ReplaceTokenRequest{Token: "tok-new", ExpiresAt: expiresAt})
	req := httptest.NewRequest(http.MethodPut, "/internal/accounts/acc-1/token", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidToken_Success(t *testing.T) {
	expiresAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	svc := &mockAccountService{
		validTokenFn: func(context.Context, string) (models.TokenResponse, error) {
			return models.TokenResponse{Token: "tok-123", ExpiresAt: expiresAt}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := httptest.NewRequest(http.MethodGet, "/internal/accounts/acc-1/token", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "tok-123", got.Token)
}

func TestValidToken_AbsentMeansNotFound(t *testing.T) {
	svc := &mockAccountService{
		validTokenFn: func(context.Context, string) (models.TokenResponse, error) {
			return models.TokenResponse{}, service.ErrNoValidToken
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := httptest.NewRequest(http.MethodGet, "/internal/accounts/acc-1/token", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeErrorBody(t, rec).Error)
}
