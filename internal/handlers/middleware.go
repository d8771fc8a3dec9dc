package handlers

import (
	"context"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/metrics"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	principalKey = "principal"
	tokenCookie  = "token"
)

type principalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*models.Account, error)
}

// requireAuth resolves the caller from a bearer header or the session cookie.
func requireAuth(auth principalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := auth.ResolvePrincipal(c.Request.Context(), extractToken(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(principalKey, account)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	token, _ := c.Cookie(tokenCookie)
	return token
}

func principal(c *gin.Context) *models.Account {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	account, _ := value.(*models.Account)
	return account
}

func observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		metrics.RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"route":   route,
			"status":  status,
			"latency": elapsed,
		}).Debug("request handled")
	}
}

func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHttp).Errorf("panic on %s: %v", c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": serverErrorMessage})
	})
}

// loginLimiter keeps one token bucket per client IP. Idle buckets expire.
type loginLimiter struct {
	mu       sync.Mutex
	limiters *gocache.Cache
	limit    rate.Limit
	burst    int
}

func newLoginLimiter(attemptsPerMinute float64) *loginLimiter {
	return &loginLimiter{
		limiters: gocache.New(10*time.Minute, 20*time.Minute),
		limit:    rate.Limit(attemptsPerMinute / 60),
		burst:    max(1, int(attemptsPerMinute)),
	}
}

func (l *loginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if cached, found := l.limiters.Get(ip); found {
		limiter = cached.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	l.limiters.Set(ip, limiter, gocache.DefaultExpiration)

	return limiter.Allow()
}

func (l *loginLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeAuth).Warnf("login rate limit hit by %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many login attempts, try again later",
			})
			return
		}
		c.Next()
	}
}
