package router

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/breaker"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/metrics"
)

var errUpstreamStatus = errors.New("upstream responded with server error")

// NewTransport returns the outbound transport shared by all route proxies.
func NewTransport(timeout time.Duration) http.RoundTripper {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
	base.ResponseHeaderTimeout = timeout
	return otelhttp.NewTransport(base)
}

func createProxy(route Route, transport http.RoundTripper, logger *zap.Logger) *httputil.ReverseProxy {
	target := route.Upstream
	proxy := &httputil.ReverseProxy{Transport: transport}

	proxy.Director = func(req *http.Request) {
		req.Header.Set("X-Forwarded-Host", req.Host)
		req.URL.Scheme = target.Scheme
		req.URL.Host = target.Host
		req.URL.Path = joinPath(target.Path, req.URL.Path)
		req.URL.RawPath = ""
		req.Host = target.Host
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("Proxy error",
			zap.String("route", route.ID),
			zap.String("path", r.URL.Path),
			zap.String("upstream", target.String()),
			zap.Error(err))

		var netErr net.Error
		switch {
		case os.IsTimeout(err):
			renderJSONError(w, "Gateway Timeout", http.StatusGatewayTimeout)
		case errors.As(err, &netErr):
			renderJSONError(w, "Service Unavailable", http.StatusServiceUnavailable)
		default:
			renderJSONError(w, "Bad Gateway", http.StatusBadGateway)
		}
	}

	return proxy
}

// guardProxy reports every proxied outcome to b and answers failures with
// the route's fallback.
func guardProxy(proxy *httputil.ReverseProxy, route Route, b *breaker.Breaker, reg *metrics.Registry, logger *zap.Logger) http.Handler {
	fallback := route.Breaker.Fallback

	proxy.ModifyResponse = func(resp *http.Response) error {
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %s", errUpstreamStatus, resp.Status)
		}
		b.Success()
		return nil
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
			b.Release()
			logger.Debug("Client cancelled proxied request", zap.String("route", route.ID))
			return
		}
		b.Failure()
		reg.UpstreamFailures.WithLabelValues(route.ID).Inc()
		logger.Warn("Upstream call failed, serving fallback",
			zap.String("route", route.ID),
			zap.String("breaker", b.Name()),
			zap.String("state", b.State().String()),
			zap.Error(err))
		fallback.ServeHTTP(w, r)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := b.Allow(); err != nil {
			reg.ShortCircuits.WithLabelValues(b.Name()).Inc()
			logger.Debug("Breaker short-circuited request",
				zap.String("route", route.ID),
				zap.String("breaker", b.Name()))
			fallback.ServeHTTP(w, r)
			return
		}
		proxy.ServeHTTP(w, r)
	})
}

func joinPath(base, path string) string {
	if base == "" || base == "/" {
		return path
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

func withPath(r *http.Request, path string) *http.Request {
	out := r.WithContext(r.Context())
	u := *r.URL
	u.Path = path
	u.RawPath = ""
	out.URL = &u
	return out
}
