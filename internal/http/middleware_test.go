package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/greenbridge-eco/greenbridge/internal/http/ban"
	rl "github.com/greenbridge-eco/greenbridge/internal/http/rate_limiter"
)

func TestRateLimitMiddlewareBansRepeatOffenders(t *testing.T) {
	rl.SetRate(0, 0)
	ban.SetStore(ban.NewInMemoryStrikeStore())
	ban.SetPolicy(ban.Policy{StrikeLimit: 2, StrikeWindow: time.Minute, BanDuration: time.Minute})
	t.Cleanup(func() {
		rl.SetRate(10000, 10000)
		rl.CleanupAllVisitors()
		ban.SetStore(nil)
		ban.SetPolicy(ban.DefaultPolicy)
	})

	h := RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	request := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/materials", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	// Every request is throttled; two strikes reach the ban limit.
	for i := 0; i < 2; i++ {
		if code := request("192.0.2.1:1234"); code != http.StatusTooManyRequests {
			t.Fatalf("expected 429 while throttled, got %d", code)
		}
	}
	if !ban.IsBanned("192.0.2.1") {
		t.Fatal("expected the client to be banned after repeated throttling")
	}

	// The ban holds even once the limiter would admit requests again.
	rl.SetRate(10000, 10000)
	if code := request("192.0.2.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 for a banned client, got %d", code)
	}
	if code := request("192.0.2.2:1234"); code != http.StatusOK {
		t.Errorf("expected other clients to pass, got %d", code)
	}
}
