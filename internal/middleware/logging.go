package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoggingMiddleware logs HTTP requests and responses
func LoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		var sessionID, requestID string
		if param.Keys != nil {
			sessionID, _ = param.Keys[sessionKey].(string)
			requestID, _ = param.Keys["request_id"].(string)
		}

		// Log request
		logger.Info("HTTP Request",
			zap.String("method", param.Method),
			zap.String("path", param.Path),
			zap.Int("status", param.StatusCode),
			zap.Duration("latency", param.Latency),
			zap.String("client_ip", param.ClientIP),
			zap.String("user_agent", param.Request.UserAgent()),
			zap.String("session_id", sessionID),
			zap.String("request_id", requestID),
			zap.Int("body_size", param.BodySize),
			zap.String("error", param.ErrorMessage),
		)

		return ""
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// DetailedLoggingMiddleware provides detailed request/response logging
func DetailedLoggingMiddleware(logger *zap.Logger, logRequestBody bool, logResponseBody bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Get request ID
		requestID, _ := c.Get("request_id")
		reqID, _ := requestID.(string)

		// Create logger with request ID
		reqLogger := logger.With(zap.String("request_id", reqID))

		// Log request body if enabled
		var requestBody []byte
		if logRequestBody && c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		// Capture response body if enabled
		var responseBody *bytes.Buffer
		var responseWriter gin.ResponseWriter
		if logResponseBody {
			responseBody = new(bytes.Buffer)
			responseWriter = &responseBodyWriter{
				ResponseWriter: c.Writer,
				body:           responseBody,
			}
			c.Writer = responseWriter
		}

		// Process request
		c.Next()

		// Calculate latency
		latency := time.Since(start)

		sessionID, _ := GetSessionID(c)

		// Build log fields
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", raw),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("session_id", sessionID),
			zap.Int("response_size", c.Writer.Size()),
		}

		// Add request body if logged
		if logRequestBody && len(requestBody) > 0 {
			fields = append(fields, zap.String("request_body", string(requestBody)))
		}

		// Add response body if logged
		if logResponseBody && responseBody != nil && responseBody.Len() > 0 {
			fields = append(fields, zap.String("response_body", responseBody.String()))
		}

		// Add errors if any
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		// Log based on status code
		if c.Writer.Status() >= 500 {
			reqLogger.Error("HTTP Request - Server Error", fields...)
		} else if c.Writer.Status() >= 400 {
			reqLogger.Warn("HTTP Request - Client Error", fields...)
		} else {
			reqLogger.Info("HTTP Request - Success", fields...)
		}
	}
}

// responseBodyWriter captures response body for logging
type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseBodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// SecurityHeadersMiddleware adds security headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production with HTTPS
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// RecoveryMiddleware provides panic recovery with logging
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		// Get request ID
		requestID, _ := c.Get("request_id")
		reqID, _ := requestID.(string)

		sessionID, _ := GetSessionID(c)

		logger.Error("Panic recovered",
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.String("session_id", sessionID),
			zap.Any("error", recovered),
			zap.String("user_agent", c.Request.UserAgent()),
		)

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error",
			"code":       "INTERNAL_ERROR",
			"request_id": reqID,
		})
	})
}

// RateLimitInfo stores rate limit information
type RateLimitInfo struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	maxReqs  int
	window   time.Duration
	now      func() time.Time
}

// NewRateLimit creates a new rate limiter
func NewRateLimit(maxRequests int, window time.Duration) *RateLimitInfo {
	return &RateLimitInfo{
		requests: make(map[string][]time.Time),
		maxReqs:  maxRequests,
		window:   window,
		now:      time.Now,
	}
}

// allow records a request from key and reports whether it fits the window,
// along with the requests left.
func (r *RateLimitInfo) allow(key string, now time.Time) (bool, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	valid := r.requests[key][:0]
	for _, reqTime := range r.requests[key] {
		if now.Sub(reqTime) < r.window {
			valid = append(valid, reqTime)
		}
	}

	if len(valid) >= r.maxReqs {
		r.requests[key] = valid
		return false, 0
	}

	valid = append(valid, now)
	r.requests[key] = valid
	return true, r.maxReqs - len(valid)
}

// Cleanup drops clients with no request inside the window and returns how
// many were removed.
func (r *RateLimitInfo) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for key, requests := range r.requests {
		if len(requests) == 0 || now.Sub(requests[len(requests)-1]) >= r.window {
			delete(r.requests, key)
			removed++
		}
	}
	return removed
}

// RateLimitMiddleware implements basic rate limiting per client IP
func RateLimitMiddleware(rateLimiter *RateLimitInfo, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		now := rateLimiter.now()

		allowed, remaining := rateLimiter.allow(clientIP, now)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rateLimiter.maxReqs))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(now.Add(rateLimiter.window).Unix(), 10))

		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.Int("max_requests", rateLimiter.maxReqs),
				zap.Duration("window", rateLimiter.window),
			)

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
				"code":  "RATE_LIMIT_EXCEEDED",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
