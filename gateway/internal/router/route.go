package router

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/config"
)

// Predicate matches a request path either exactly or by prefix. A prefix
// only matches on a segment boundary: /api/order covers /api/order/42 but
// not /api/orders.
type Predicate struct {
	Path   string
	Prefix bool
}

func (p Predicate) Matches(path string) bool {
	if path == p.Path {
		return true
	}
	if !p.Prefix {
		return false
	}
	base := strings.TrimSuffix(p.Path, "/")
	return strings.HasPrefix(path, base+"/")
}

// RewriteRule replaces a leading From with To, once.
type RewriteRule struct {
	From string
	To   string
}

func (r *RewriteRule) Apply(path string) string {
	if r == nil || !strings.HasPrefix(path, r.From) {
		return path
	}
	return r.To + strings.TrimPrefix(path, r.From)
}

type BreakerPolicy struct {
	Name     string
	Fallback http.Handler
}

type Route struct {
	ID        string
	Predicate Predicate
	Upstream  *url.URL
	Rewrite   *RewriteRule
	Breaker   *BreakerPolicy
}

// Table is an ordered list of routes. The first matching predicate wins.
type Table []Route

func (t Table) Match(path string) (Route, string, bool) {
	for _, route := range t {
		if route.Predicate.Matches(path) {
			return route, route.Rewrite.Apply(path), true
		}
	}
	return Route{}, "", false
}

// DefaultRoutes builds the gateway's route table from configuration.
func DefaultRoutes(cfg *config.Config, fallback http.Handler) (Table, error) {
	services := []struct {
		name      string
		apiPath   string
		upstream  string
		breakerID string
	}{
		{"product", "/api/product", cfg.ProductServiceURL, "productServiceCircuitBreaker"},
		{"inventory", "/api/inventory", cfg.InventoryServiceURL, "inventoryServiceCircuitBreaker"},
		{"order", "/api/order", cfg.OrderServiceURL, "orderServiceCircuitBreaker"},
	}

	table := make(Table, 0, len(services)*2)
	for _, svc := range services {
		upstream, err := parseUpstream(svc.upstream)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s service URL (%s): %w", svc.name, svc.upstream, err)
		}

		docsPath := "/aggregate/" + svc.name + "-service/v3/api-docs"
		table = append(table,
			Route{
				ID:        svc.name + "_route",
				Predicate: Predicate{Path: svc.apiPath, Prefix: true},
				Upstream:  upstream,
				Breaker:   &BreakerPolicy{Name: svc.breakerID, Fallback: fallback},
			},
			Route{
				ID:        svc.name + "_service_swagger_route",
				Predicate: Predicate{Path: docsPath},
				Upstream:  upstream,
				Rewrite:   &RewriteRule{From: docsPath, To: "/api-docs"},
			},
		)
	}
	return table, nil
}

func parseUpstream(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upstream must be an absolute URL")
	}
	return u, nil
}
