package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/zhouzirui/ev-commerce/backend/internal/metrics"
	"github.com/zhouzirui/ev-commerce/backend/internal/ratelimit"
	"github.com/zhouzirui/ev-commerce/backend/pkg/utils"
)

// RateLimit 按客户端 IP 限流，后端故障时放行请求。
func RateLimit(limiter ratelimit.Limiter, route string, m *metrics.Metrics, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := route + "|" + clientIP(r)

			ok, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("rate limiter unavailable, allowing request", zap.String("route", route), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				m.ObserveRateLimited(route)
				utils.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
