/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package middleware

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/AMD-AGI/Primus-Batch/pkg/apiutils"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	"github.com/AMD-AGI/Primus-Batch/pkg/errors"
	"github.com/AMD-AGI/Primus-Batch/pkg/metrics"
)

const (
	// limiterTTL is how long an idle client's limiter stays cached. Expired
	// limiters are recreated full, which only ever errs in the client's favor.
	limiterTTL = 10 * time.Minute

	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

// limiters holds one token bucket per (resource, client) pair.
var limiters = gocache.New(limiterTTL, 2*limiterTTL)

// RateLimit enforces a per-client-IP request budget on one resource. The
// bucket refills continuously at perMin/minute with a burst of perMin.
func RateLimit(resource string, perMin int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if perMin <= 0 {
			c.Next()
			return
		}
		key := resource + ":" + clientKey(c)
		limiter := getLimiter(key, perMin)

		c.Header(HeaderRateLimitLimit, strconv.Itoa(perMin))
		reservation := limiter.Reserve()
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			c.Header(HeaderRateLimitRemaining, "0")
			c.Header(HeaderRateLimitReset, resetEpoch(delay))
			c.Header(HeaderRetryAfter, strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			metrics.RateLimitRejectionsTotal.WithLabelValues(resource).Inc()
			apiutils.AbortWithApiError(c, errors.NewRateLimited(
				fmt.Sprintf("At most %d %s requests per minute per client.", perMin, resource)))
			return
		}
		c.Header(HeaderRateLimitRemaining, strconv.Itoa(int(limiter.Tokens())))
		c.Header(HeaderRateLimitReset, resetEpoch(time.Minute/time.Duration(perMin)))
		c.Next()
	}
}

// resetEpoch is the unix second when the bucket next refills a token.
func resetEpoch(wait time.Duration) string {
	return strconv.FormatInt(time.Now().Add(wait).Unix(), 10)
}

func getLimiter(key string, perMin int) *rate.Limiter {
	if v, ok := limiters.Get(key); ok {
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin)
	// Add fails when another request raced us in, use whichever won.
	if err := limiters.Add(key, limiter, limiterTTL); err != nil {
		if v, ok := limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// clientKey identifies the client for rate limiting. X-Forwarded-For is only
// honoured when the deployment fronts the service with a trusted proxy,
// otherwise it would let clients pick their own bucket.
func clientKey(c *gin.Context) string {
	if config.IsRateLimitTrustForwardedFor() {
		if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
			if i := strings.IndexByte(fwd, ','); i >= 0 {
				fwd = fwd[:i]
			}
			return strings.TrimSpace(fwd)
		}
	}
	return c.ClientIP()
}
