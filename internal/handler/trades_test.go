package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestTradeHandlerRejectsMalformedNumerics(t *testing.T) {
	r := newTestEngine()
	h := &TradeHandler{AuthMW: func(*gin.Context) {}}
	h.Register(r)

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"garbage pnl", `{"accountId":"a1","direction":"long","pnl":"abc"}`, "pnl"},
		{"comma decimal", `{"accountId":"a1","direction":"long","pnl":"12,5"}`, "pnl"},
		{"garbage exit price", `{"accountId":"a1","direction":"short","entryPrice":"1.10","exitPrice":"oops"}`, "exitPrice"},
		{"garbage entry time", `{"accountId":"a1","direction":"long","entryTime":"yesterday"}`, "entryTime"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/trades", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d want=400 body=%s", tc.name, w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), tc.field) {
			t.Fatalf("%s: response should name %q: %s", tc.name, tc.field, w.Body.String())
		}
	}
}

func TestTradeHandlerUpdateRejectsMalformedDecimal(t *testing.T) {
	r := newTestEngine()
	h := &TradeHandler{AuthMW: func(*gin.Context) {}}
	h.Register(r)

	req := httptest.NewRequest(http.MethodPut, "/api/trades/t1", strings.NewReader(`{"customPnl":"1/2"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400 body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "customPnl") {
		t.Fatalf("response should name the field: %s", w.Body.String())
	}
}

func TestServiceErrorMasksUnknownFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.ErrorLevel)
	SetErrorLogger(zap.New(core))
	defer SetErrorLogger(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/trades", nil)

	serviceError(c, errors.New("pq: connection reset by peer"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want=500", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection reset") {
		t.Fatalf("driver detail leaked to client: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "internal error") {
		t.Fatalf("want generic message, got %s", w.Body.String())
	}
	if logs.Len() != 1 {
		t.Fatalf("failure should be logged once, got %d entries", logs.Len())
	}
}
