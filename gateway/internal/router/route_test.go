package router

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/config"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return u
}

func TestMatchFirstDeclaredWins(t *testing.T) {
	table := Table{
		{ID: "first", Predicate: Predicate{Path: "/api", Prefix: true}, Upstream: mustURL(t, "http://a")},
		{ID: "second", Predicate: Predicate{Path: "/api/order"}, Upstream: mustURL(t, "http://b")},
	}
	route, path, ok := table.Match("/api/order")
	if !ok || route.ID != "first" {
		t.Fatalf("expected first route to win, got %q ok=%v", route.ID, ok)
	}
	if path != "/api/order" {
		t.Fatalf("expected path unchanged, got %s", path)
	}

	reversed := Table{table[1], table[0]}
	route, _, _ = reversed.Match("/api/order")
	if route.ID != "second" {
		t.Fatalf("expected declaration order to decide, got %q", route.ID)
	}
}

func TestMatchExactDoesNotMatchLongerPath(t *testing.T) {
	table := Table{{ID: "order", Predicate: Predicate{Path: "/api/order"}}}
	if _, _, ok := table.Match("/api/order/123"); ok {
		t.Fatalf("exact predicate should not match a longer path")
	}
	if _, _, ok := table.Match("/api/order"); !ok {
		t.Fatalf("exact predicate should match its own path")
	}
}

func TestMatchPrefixStopsAtSegmentBoundary(t *testing.T) {
	table := Table{{ID: "order", Predicate: Predicate{Path: "/api/order", Prefix: true}}}
	for _, path := range []string{"/api/order", "/api/order/", "/api/order/0b7e0d3a"} {
		if _, _, ok := table.Match(path); !ok {
			t.Fatalf("prefix predicate should match %s", path)
		}
	}
	for _, path := range []string{"/api/orders", "/api/orderX/1", "/api"} {
		if _, _, ok := table.Match(path); ok {
			t.Fatalf("prefix predicate should not match %s", path)
		}
	}
}

func TestMatchNoRoute(t *testing.T) {
	var table Table
	if _, _, ok := table.Match("/anything"); ok {
		t.Fatalf("empty table should not match")
	}
}

func TestRewriteAppliesPrefixOnce(t *testing.T) {
	rule := &RewriteRule{From: "/aggregate/x", To: "/api-docs"}
	cases := map[string]string{
		"/aggregate/x":             "/api-docs",
		"/aggregate/x/aggregate/x": "/api-docs/aggregate/x",
		"/other/aggregate/x":       "/other/aggregate/x",
	}
	for in, want := range cases {
		if got := rule.Apply(in); got != want {
			t.Fatalf("Apply(%q) = %q, want %q", in, got, want)
		}
	}

	var none *RewriteRule
	if got := none.Apply("/keep"); got != "/keep" {
		t.Fatalf("nil rule should keep path, got %q", got)
	}
}

func TestDefaultRoutes(t *testing.T) {
	cfg := &config.Config{
		ProductServiceURL:   "http://product:8080",
		InventoryServiceURL: "http://inventory:8082",
		OrderServiceURL:     "http://order:8081",
	}
	fallback := http.NotFoundHandler()
	table, err := DefaultRoutes(cfg, fallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantIDs := []string{
		"product_route", "product_service_swagger_route",
		"inventory_route", "inventory_service_swagger_route",
		"order_route", "order_service_swagger_route",
	}
	if len(table) != len(wantIDs) {
		t.Fatalf("expected %d routes, got %d", len(wantIDs), len(table))
	}
	for i, id := range wantIDs {
		if table[i].ID != id {
			t.Fatalf("route %d: expected %s, got %s", i, id, table[i].ID)
		}
	}

	route, path, ok := table.Match("/aggregate/product-service/v3/api-docs")
	if !ok || route.Upstream.Host != "product:8080" || path != "/api-docs" {
		t.Fatalf("unexpected docs routing: route=%s host=%v path=%s", route.ID, route.Upstream, path)
	}
	if route.Breaker != nil {
		t.Fatalf("docs routes are not guarded")
	}

	route, _, _ = table.Match("/api/inventory")
	if route.Breaker == nil || route.Breaker.Name != "inventoryServiceCircuitBreaker" {
		t.Fatalf("expected inventory breaker, got %+v", route.Breaker)
	}

	route, path, ok = table.Match("/api/order/0b7e0d3a")
	if !ok || route.ID != "order_route" || path != "/api/order/0b7e0d3a" {
		t.Fatalf("expected order lookup to reach order_route unchanged, got route=%s path=%s ok=%v", route.ID, path, ok)
	}
	if route.Breaker == nil || route.Breaker.Name != "orderServiceCircuitBreaker" {
		t.Fatalf("order lookups must be guarded, got %+v", route.Breaker)
	}
	if _, _, ok := table.Match("/api/products"); ok {
		t.Fatalf("/api/products must not match the product route")
	}
}

func TestDefaultRoutesRejectsRelativeUpstream(t *testing.T) {
	cfg := &config.Config{
		ProductServiceURL:   "product:8080",
		InventoryServiceURL: "http://inventory:8082",
		OrderServiceURL:     "http://order:8081",
	}
	if _, err := DefaultRoutes(cfg, http.NotFoundHandler()); err == nil {
		t.Fatalf("expected error for upstream without scheme")
	}
}
