package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit limits by client IP with an in-memory store.
// rateFormatted uses limiter syntax: "100-M", "10-S". Empty disables.
func RateLimit(rateFormatted string) (func(http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}

	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(memory.NewStore(), rate, limiter.WithTrustForwardHeader(true))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := instance.GetIPKey(r)
			lctx, err := instance.Get(r.Context(), key)
			if err != nil {
				// Limiter failure must not take requests down with it.
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"message": "Too many requests, please try again later",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}
