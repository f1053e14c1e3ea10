package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/snikitin/accounts-service/internal/service"
	"github.com/snikitin/accounts-service/internal/store"
	"github.com/snikitin/accounts-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// externalRequest builds a request carrying gateway identity headers.
func externalRequest(method, target string, body io.Reader, caller models.Caller) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(accountIDHeader, caller.AccountID)
	req.Header.Set(accountTypeHeader, string(caller.Type))
	return req
}

var (
	normalCaller = models.Caller{AccountID: "acc-1", Type: models.TypeNormal}
	adminCaller  = models.Caller{AccountID: "admin-1", Type: models.TypeAdmin}
	rootCaller   = models.Caller{AccountID: "root-1", Type: models.TypeSuperAdmin}
)

// ─────────────────────────────────────────────
// GET /api/accounts
// ─────────────────────────────────────────────

func TestListAccounts_Success(t *testing.T) {
	svc := &mockAccountService{
		listFn: func(_ context.Context, caller models.Caller, page, pageSize int) (models.ListAccountsResponse, error) {
			assert.Equal(t, adminCaller, caller)
			assert.Equal(t, 2, page)
			assert.Equal(t, 50, pageSize)
			return models.ListAccountsResponse{
				Accounts:   []models.Account{{AccountID: "acc-1"}},
				Pagination: models.Pagination{Page: 2, PageSize: 50, Total: 51, Pages: 2},
			}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := externalRequest(http.MethodGet, "/api/accounts/?page=2&pageSize=50", nil, adminCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.ListAccountsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got.Accounts, 1)
	assert.Equal(t, int64(51), got.Pagination.Total)
}

func TestListAccounts_NonNumericParamsFallBack(t *testing.T) {
	svc := &mockAccountService{
		listFn: func(_ context.Context, _ models.Caller, page, pageSize int) (models.ListAccountsResponse, error) {
			assert.Zero(t, page)
			assert.Zero(t, pageSize)
			return models.ListAccountsResponse{Accounts: []models.Account{}}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := externalRequest(http.MethodGet, "/api/accounts/?page=abc&pageSize=xyz", nil, adminCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListAccounts_Forbidden(t *testing.T) {
	svc := &mockAccountService{
		listFn: func(context.Context, models.Caller, int, int) (models.ListAccountsResponse, error) {
			return models.ListAccountsResponse{}, service.ErrForbidden
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := externalRequest(http.MethodGet, "/api/accounts/", nil, normalCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeErrorBody(t, rec).Error)
}

// ─────────────────────────────────────────────
// GET /api/accounts/me
// ─────────────────────────────────────────────

func TestCurrentAccount_ReturnsCallersRecord(t *testing.T) {
	svc := &mockAccountService{
		getByIDFn: func(_ context.Context, accountID string) (models.Account, error) {
			assert.Equal(t, "acc-1", accountID)
			return models.Account{AccountID: "acc-1", Email: "ada@example.com"}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := externalRequest(http.MethodGet, "/api/accounts/me", nil, normalCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "acc-1", got.AccountID)
}

// ─────────────────────────────────────────────
// GET /api/accounts/{accountID}
// ─────────────────────────────────────────────

func TestAccountByID_AnyAuthenticatedCaller(t *testing.T) {
	svc := &mockAccountService{
		getByIDFn: func(_ context.Context, accountID string) (models.Account, error) {
			assert.Equal(t, "acc-9", accountID)
			return models.Account{AccountID: "acc-9"}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := externalRequest(http.MethodGet, "/api/accounts/acc-9", nil, normalCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountByID_HidesCredentialFields(t *testing.T) {
	svc := &mockAccountService{
		getByIDFn: func(context.Context, string) (models.Account, error) {
			token := "tok-secret"
			return models.Account{
				AccountID:         "acc-9",
				PasswordHash:      "hash-secret",
				VerificationToken: &token,
			}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := externalRequest(http.MethodGet, "/api/accounts/acc-9", nil, normalCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hash-secret")
	assert.NotContains(t, rec.Body.String(), "tok-secret")
}

// ─────────────────────────────────────────────
// PUT /api/accounts/{accountID}/profile
// ─────────────────────────────────────────────

func TestUpdateProfile_EmailChangeReported(t *testing.T) {
	pending := "new@example.com"
	svc := &mockAccountService{
		updateProfileFn: func(_ context.Context, caller models.Caller, accountID string, req models.UpdateProfileRequest) (models.UpdateProfileResponse, error) {
			assert.Equal(t, normalCaller, caller)
			assert.Equal(t, "acc-1", accountID)
			require.NotNil(t, req.Email)
			return models.UpdateProfileResponse{
				Account:      models.Account{AccountID: "acc-1", Email: "ada@example.com", PendingEmail: &pending},
				EmailChanged: true,
			}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	body := jsonBody(t, map[string]string{"email": "new@example.com"})
	req := externalRequest(http.MethodPut, "/api/accounts/acc-1/profile", strings.NewReader(body), normalCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.UpdateProfileResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.True(t, got.EmailChanged)
	assert.Equal(t, "ada@example.com", got.Account.Email)
}

func TestUpdateProfile_InvalidJSON(t *testing.T) {
	router := newHandlerWithAccounts(t, &mockAccountService{}).Init()

	req := externalRequest(http.MethodPut, "/api/accounts/acc-1/profile", strings.NewReader("{oops"), normalCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProfile_Forbidden(t *testing.T) {
	svc := &mockAccountService{
		updateProfileFn: func(context.Context, models.Caller, string, models.UpdateProfileRequest) (models.UpdateProfileResponse, error) {
			return models.UpdateProfileResponse{}, service.ErrForbidden
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	body := jsonBody(t, map[string]string{"firstName": "X"})
	req := externalRequest(http.MethodPut, "/api/accounts/acc-2/profile", strings.NewReader(body), normalCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ─────────────────────────────────────────────
// PUT /api/accounts/{accountID}/image
// ─────────────────────────────────────────────

func TestUpdateProfileImage_Success(t *testing.T) {
	svc := &mockAccountService{
		updateProfileImageFn: func(_ context.Context, _ models.Caller, accountID, imageURL string) (models.Account, error) {
			assert.Equal(t, "acc-1", accountID)
			assert.Equal(t, "https://cdn.example.com/a.png", imageURL)
			return models.Account{AccountID: accountID, ProfileImageURL: &imageURL}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	body := jsonBody(t, models.UpdateProfileImageRequest{ProfileImageURL: "https://cdn.example.com/a.png"})
	req := externalRequest(http.MethodPut, "/api/accounts/acc-1/image", strings.NewReader(body), normalCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ─────────────────────────────────────────────
// Ban / Unban / Promote / Demote
// ─────────────────────────────────────────────

func TestBanAccount_Success(t *testing.T) {
	svc := &mockAccountService{
		banFn: func(_ context.Context, caller models.Caller, accountID string) (models.Account, error) {
			assert.Equal(t, adminCaller, caller)
			return models.Account{AccountID: accountID, Active: false}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := externalRequest(http.MethodPut, "/api/accounts/acc-1/ban", nil, adminCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.False(t, got.Active)
}

func TestUnbanAccount_Success(t *testing.T) {
	svc := &mockAccountService{
		unbanFn: func(_ context.Context, _ models.Caller, accountID string) (models.Account, error) {
			return models.Account{AccountID: accountID, Active: true}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := externalRequest(http.MethodPut, "/api/accounts/acc-1/unban", nil, adminCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPromoteAccount_InvalidState(t *testing.T) {
	svc := &mockAccountService{
		promoteFn: func(context.Context, models.Caller, string) (models.Account, error) {
			return models.Account{}, service.ErrInvalidState
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := externalRequest(http.MethodPut, "/api/accounts/acc-1/promote", nil, rootCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_state", decodeErrorBody(t, rec).Error)
}

func TestDemoteAccount_Success(t *testing.T) {
	svc := &mockAccountService{
		demoteFn: func(_ context.Context, caller models.Caller, accountID string) (models.Account, error) {
			assert.Equal(t, rootCaller, caller)
			return models.Account{AccountID: accountID, Type: models.TypeNormal}, nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := externalRequest(http.MethodPut, "/api/accounts/acc-1/demote", nil, rootCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ─────────────────────────────────────────────
// DELETE /api/accounts/{accountID}
// ─────────────────────────────────────────────

func TestDeleteAccount_Success(t *testing.T) {
	svc := &mockAccountService{
		deleteFn: func(_ context.Context, caller models.Caller, accountID string) error {
			assert.Equal(t, rootCaller, caller)
			assert.Equal(t, "acc-1", accountID)
			return nil
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := externalRequest(http.MethodDelete, "/api/accounts/acc-1", nil, rootCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteAccount_NotFound(t *testing.T) {
	svc := &mockAccountService{
		deleteFn: func(context.Context, models.Caller, string) error {
			return store.ErrAccountNotFound
		},
	}
	router := newHandlerWithAccounts(t, svc).Init()

	req := externalRequest(http.MethodDelete, "/api/accounts/missing", nil, rootCaller)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
