package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/breaker"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/config"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/metrics"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type upstream struct {
	*httptest.Server
	calls    atomic.Int32
	status   atomic.Int32
	mu       sync.Mutex
	lastPath string
	lastRaw  string
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	u.status.Store(http.StatusOK)
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		u.mu.Lock()
		u.lastPath = r.URL.Path
		u.lastRaw = r.URL.RawQuery
		u.mu.Unlock()
		w.WriteHeader(int(u.status.Load()))
		_, _ = w.Write([]byte(`"ok"`))
	}))
	t.Cleanup(u.Close)
	return u
}

func newTestGateway(t *testing.T, upstreamURL string, clock *testClock) (*Gateway, *breaker.Set) {
	t.Helper()
	breakers := breaker.NewSet(breaker.Config{
		FailureThreshold: 3,
		Window:           time.Minute,
		CoolDown:         10 * time.Second,
	}, breaker.WithClock(clock.Now))
	target := mustURL(t, upstreamURL)
	fallback := FallbackHandler(clock.Now)
	table := Table{
		{
			ID:        "order_route",
			Predicate: Predicate{Path: "/api/order", Prefix: true},
			Upstream:  target,
			Breaker:   &BreakerPolicy{Name: "orderServiceCircuitBreaker", Fallback: fallback},
		},
		{
			ID:        "order_service_swagger_route",
			Predicate: Predicate{Path: "/aggregate/order-service/v3/api-docs"},
			Upstream:  target,
			Rewrite:   &RewriteRule{From: "/aggregate/order-service/v3/api-docs", To: "/api-docs"},
		},
	}
	gw := NewGateway(table, breakers, http.DefaultTransport, metrics.NewRegistry(), zaptest.NewLogger(t))
	return gw, breakers
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func decodeFallback(t *testing.T, rr *httptest.ResponseRecorder) fallbackResponse {
	t.Helper()
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rr.Code, rr.Body.String())
	}
	var body fallbackResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode fallback body: %v", err)
	}
	return body
}

func TestGatewayRewritesDocsPath(t *testing.T) {
	up := newUpstream(t)
	gw, _ := newTestGateway(t, up.URL, &testClock{now: time.Now()})

	rr := serve(gw, http.MethodGet, "/aggregate/order-service/v3/api-docs?group=public")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	up.mu.Lock()
	defer up.mu.Unlock()
	if up.lastPath != "/api-docs" {
		t.Fatalf("expected upstream path /api-docs, got %s", up.lastPath)
	}
	if up.lastRaw != "group=public" {
		t.Fatalf("expected query to be preserved, got %q", up.lastRaw)
	}
}

func TestGatewayForwardsUnchangedPathAndMethod(t *testing.T) {
	up := newUpstream(t)
	gw, _ := newTestGateway(t, up.URL, &testClock{now: time.Now()})

	rr := serve(gw, http.MethodPost, "/api/order")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	up.mu.Lock()
	defer up.mu.Unlock()
	if up.lastPath != "/api/order" {
		t.Fatalf("expected /api/order, got %s", up.lastPath)
	}
}

func TestGatewayForwardsOrderLookup(t *testing.T) {
	up := newUpstream(t)
	gw, _ := newTestGateway(t, up.URL, &testClock{now: time.Now()})

	rr := serve(gw, http.MethodGet, "/api/order/0b7e0d3a-0000-4000-8000-000000000001")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	up.mu.Lock()
	defer up.mu.Unlock()
	if up.lastPath != "/api/order/0b7e0d3a-0000-4000-8000-000000000001" {
		t.Fatalf("unexpected upstream path %s", up.lastPath)
	}
}

func TestGatewayUnknownPathIsNotFound(t *testing.T) {
	up := newUpstream(t)
	gw, _ := newTestGateway(t, up.URL, &testClock{now: time.Now()})

	rr := serve(gw, http.MethodGet, "/api/unknown")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if up.calls.Load() != 0 {
		t.Fatalf("expected no upstream calls")
	}
}

func TestGatewayBreakerLifecycle(t *testing.T) {
	up := newUpstream(t)
	up.status.Store(http.StatusInternalServerError)
	clock := &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	gw, breakers := newTestGateway(t, up.URL, clock)
	b := breakers.Get("orderServiceCircuitBreaker")

	for i := 0; i < 3; i++ {
		body := decodeFallback(t, serve(gw, http.MethodGet, "/api/order"))
		if body.Error != "Service Unavailable" {
			t.Fatalf("unexpected fallback error field %q", body.Error)
		}
	}
	if b.State() != breaker.StateOpen {
		t.Fatalf("expected OPEN after 3 failures, got %s", b.State())
	}
	if got := up.calls.Load(); got != 3 {
		t.Fatalf("expected 3 upstream calls before opening, got %d", got)
	}

	for i := 0; i < 5; i++ {
		decodeFallback(t, serve(gw, http.MethodGet, "/api/order"))
	}
	if got := up.calls.Load(); got != 3 {
		t.Fatalf("expected zero upstream calls while open, got %d extra", got-3)
	}

	clock.Advance(10 * time.Second)
	up.status.Store(http.StatusOK)
	rr := serve(gw, http.MethodGet, "/api/order")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected probe to pass through, got %d", rr.Code)
	}
	if b.State() != breaker.StateClosed {
		t.Fatalf("expected CLOSED after successful probe, got %s", b.State())
	}
	if got := up.calls.Load(); got != 4 {
		t.Fatalf("expected exactly one probe call, got %d", got-3)
	}
}

func TestGatewayFailedProbeReopens(t *testing.T) {
	up := newUpstream(t)
	up.status.Store(http.StatusBadGateway)
	clock := &testClock{now: time.Now()}
	gw, breakers := newTestGateway(t, up.URL, clock)
	b := breakers.Get("orderServiceCircuitBreaker")

	for i := 0; i < 3; i++ {
		serve(gw, http.MethodGet, "/api/order")
	}
	clock.Advance(10 * time.Second)
	decodeFallback(t, serve(gw, http.MethodGet, "/api/order"))
	if b.State() != breaker.StateOpen {
		t.Fatalf("expected OPEN after failed probe, got %s", b.State())
	}
	if got := up.calls.Load(); got != 4 {
		t.Fatalf("expected 4 upstream calls, got %d", got)
	}
}

func TestGatewayConnectionErrorServesFallback(t *testing.T) {
	up := newUpstream(t)
	deadURL := up.URL
	up.Close()
	gw, breakers := newTestGateway(t, deadURL, &testClock{now: time.Now()})

	body := decodeFallback(t, serve(gw, http.MethodGet, "/api/order"))
	if body.Message != fallbackMessage {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if breakers.Get("orderServiceCircuitBreaker").State() != breaker.StateClosed {
		t.Fatalf("one failure should not open the breaker")
	}
}

func TestGatewayUnguardedRouteErrorIsJSON(t *testing.T) {
	up := newUpstream(t)
	deadURL := up.URL
	up.Close()
	gw, _ := newTestGateway(t, deadURL, &testClock{now: time.Now()})

	rr := serve(gw, http.MethodGet, "/aggregate/order-service/v3/api-docs")
	if rr.Code < 500 {
		t.Fatalf("expected 5xx, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error, got content-type %q", ct)
	}
}

func TestFallbackTimestampIsFreshPerCall(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	h := FallbackHandler(func() time.Time {
		clock.Advance(time.Millisecond)
		return clock.Now()
	})

	first := decodeFallback(t, serve(h, http.MethodGet, "/fallbackRoute"))
	second := decodeFallback(t, serve(h, http.MethodGet, "/fallbackRoute"))
	if first.Timestamp == second.Timestamp {
		t.Fatalf("expected distinct timestamps, both %s", first.Timestamp)
	}
	if first.Error != second.Error || first.Message != second.Message {
		t.Fatalf("error and message must be constant")
	}
	if _, err := time.Parse(time.RFC3339Nano, first.Timestamp); err != nil {
		t.Fatalf("timestamp is not ISO-8601: %v", err)
	}
}

func TestNewRouterServesHealthAndMetrics(t *testing.T) {
	up := newUpstream(t)
	cfg := &config.Config{
		ProductServiceURL:       up.URL,
		InventoryServiceURL:     up.URL,
		OrderServiceURL:         up.URL,
		BreakerFailureThreshold: 1,
		BreakerWindow:           time.Minute,
		BreakerCoolDown:         time.Minute,
		UpstreamTimeout:         2 * time.Second,
		CORSAllowedOrigins:      []string{"http://localhost:4200"},
	}
	h, err := NewRouter(cfg, metrics.NewRegistry(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rr := serve(h, http.MethodGet, "/api/product"); rr.Code != http.StatusOK {
		t.Fatalf("expected proxied 200, got %d", rr.Code)
	}

	rr := serve(h, http.MethodGet, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var health healthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Breakers["productServiceCircuitBreaker"] != "CLOSED" {
		t.Fatalf("unexpected breakers: %v", health.Breakers)
	}

	rr = serve(h, http.MethodGet, "/metrics")
	if !strings.Contains(rr.Body.String(), `gateway_routed_requests_total{route="product_route"} 1`) {
		t.Fatalf("expected routed counter in metrics output, got:\n%s", rr.Body.String())
	}

	if rr := serve(h, http.MethodGet, "/nowhere"); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
