package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/snikitin/accounts-service/internal/logger"
	"github.com/snikitin/accounts-service/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestWithTraceID_GeneratesWhenAbsent(t *testing.T) {
	h := NewHandler(&service.Services{}, logger.Nop())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.withTraceID(next).ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}

func TestWithTraceID_PropagatesIncomingID(t *testing.T) {
	h := NewHandler(&service.Services{}, logger.Nop())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(traceIDHeader, "trace-abc")
	rec := httptest.NewRecorder()

	h.withTraceID(next).ServeHTTP(rec, req)

	assert.Equal(t, "trace-abc", rec.Header().Get(traceIDHeader))
}
