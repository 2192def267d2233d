package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lead_dashboard_backend/platform/apperr"
	"lead_dashboard_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", apperr.NotFound("lead not found"), http.StatusNotFound, "lead not found"},
		{"validation", apperr.Validation("invalid status"), http.StatusBadRequest, "invalid status"},
		{"conflict", apperr.Conflict("duplicate id"), http.StatusConflict, "duplicate id"},
		{"unavailable", apperr.Unavailable("archive disabled"), http.StatusServiceUnavailable, "archive disabled"},
		{"wrapped typed", fmt.Errorf("outer: %w", apperr.NotFound("gone")), http.StatusNotFound, "gone"},
		{"internal hides message", apperr.Wrap(apperr.KindInternal, "db exploded", errors.New("boom")), http.StatusInternalServerError, "internal server error"},
		{"untyped", errors.New("raw failure"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			if !HandleError(c, tc.err) {
				t.Fatal("HandleError returned false for non-nil error")
			}
			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tc.wantBody {
				t.Errorf("error = %q, want %q", body.Error, tc.wantBody)
			}
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if HandleError(c, nil) {
		t.Error("HandleError(nil) = true, want false")
	}
}

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2, logger.Discard())
	r := gin.New()
	r.Use(limiter.RateLimit())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	want := []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i, codes[i], want[i])
		}
	}
}

func TestRequestIDPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen, _ = c.Request.Context().Value(logger.RequestIDKey).(string)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)

	if seen != "abc-123" {
		t.Errorf("context request id = %q, want abc-123", seen)
	}
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("response header = %q, want abc-123", got)
	}
}
