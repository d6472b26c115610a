package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/breaker"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/config"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/metrics"
)

// Gateway runs match -> rewrite -> breaker guard -> proxy for every request.
type Gateway struct {
	routes   Table
	handlers map[string]http.Handler
	metrics  *metrics.Registry
	logger   *zap.Logger
}

func NewGateway(routes Table, breakers *breaker.Set, transport http.RoundTripper, reg *metrics.Registry, logger *zap.Logger) *Gateway {
	g := &Gateway{
		routes:   routes,
		handlers: make(map[string]http.Handler, len(routes)),
		metrics:  reg,
		logger:   logger,
	}
	for _, route := range routes {
		proxy := createProxy(route, transport, logger)
		if route.Breaker == nil {
			g.handlers[route.ID] = proxy
			continue
		}
		g.handlers[route.ID] = guardProxy(proxy, route, breakers.Get(route.Breaker.Name), reg, logger)
	}
	return g
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route, path, ok := g.routes.Match(r.URL.Path)
	if !ok {
		g.metrics.Unrouted.Inc()
		renderJSONError(w, "Not Found", http.StatusNotFound)
		return
	}
	g.metrics.RoutedRequests.WithLabelValues(route.ID).Inc()
	g.handlers[route.ID].ServeHTTP(w, withPath(r, path))
}

func NewRouter(cfg *config.Config, reg *metrics.Registry, logger *zap.Logger) (http.Handler, error) {
	breakers := breaker.NewSet(breaker.Config{
		FailureThreshold: cfg.BreakerFailureThreshold,
		Window:           cfg.BreakerWindow,
		CoolDown:         cfg.BreakerCoolDown,
	}, breaker.WithStateChange(func(name string, from, to breaker.State) {
		reg.ObserveStateChange(name, from, to)
		logger.Info("Circuit breaker state changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
	}))

	routes, err := DefaultRoutes(cfg, FallbackHandler(time.Now))
	if err != nil {
		return nil, fmt.Errorf("failed to build route table: %w", err)
	}
	gw := NewGateway(routes, breakers, NewTransport(cfg.UpstreamTimeout), reg, logger.With(zap.String("component", "Gateway")))

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.UpstreamTimeout + 5*time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler(breakers))
	r.Handle("/metrics", reg.Handler())
	r.Handle("/*", gw)

	return r, nil
}

type healthResponse struct {
	Status   string            `json:"status"`
	Breakers map[string]string `json:"breakers"`
}

func healthHandler(breakers *breaker.Set) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "UP", Breakers: map[string]string{}}
		for name, state := range breakers.Snapshot() {
			resp.Breakers[name] = state.String()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
