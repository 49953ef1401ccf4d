package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/middleware"
)

const (
	testBurst = 3
	// A rate this low never refills a token during a test.
	testRate = 0.001
)

func newLimitedRouter(t *testing.T, onLimited func(*gin.Context)) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })

	r := gin.New()
	r.Use(middleware.RateLimiter(testRate, testBurst, time.Minute, done, onLimited))
	r.POST("/predict", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func post(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/predict", http.NoBody)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsBurst(t *testing.T) {
	r := newLimitedRouter(t, nil)

	for i := range testBurst {
		if w := post(r, "1.2.3.4:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestRateLimiter_BlocksOverBurst(t *testing.T) {
	limited := 0
	r := newLimitedRouter(t, func(*gin.Context) { limited++ })

	for range testBurst {
		post(r, "1.2.3.4:1234")
	}

	w := post(r, "1.2.3.4:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Body.String() != `{"error":"rate limit exceeded"}` {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if limited != 1 {
		t.Errorf("onLimited calls: got %d, want 1", limited)
	}
}

func TestRateLimiter_TracksClientsSeparately(t *testing.T) {
	r := newLimitedRouter(t, nil)

	for range testBurst {
		post(r, "1.2.3.4:1234")
	}

	if w := post(r, "5.6.7.8:1234"); w.Code != http.StatusOK {
		t.Fatalf("different IP: expected 200, got %d", w.Code)
	}
	if w := post(r, "1.2.3.4:9999"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("same IP, different port: expected 429, got %d", w.Code)
	}
}
