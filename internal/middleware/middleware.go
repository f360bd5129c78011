package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"studycafe/internal/cache"
	"studycafe/internal/external"
	"studycafe/internal/logger"
	"studycafe/internal/metrics"
	"studycafe/internal/models"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Actor is the authenticated caller as resolved by the directory
// service: a student or a staff member of the academy.
type Actor struct {
	ID         int64
	Capability string
}

func (a Actor) IsStaff() bool {
	return a.Capability == models.CapabilityStaff
}

// GetActor returns the actor placed in the gin context by Identity.
func GetActor(c *gin.Context) (Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return Actor{}, false
	}
	actor, ok := value.(Actor)
	return actor, ok
}

// SetActor injects an actor directly. Test hook for handler tests that
// bypass the directory lookup.
func SetActor(c *gin.Context, actor Actor) {
	c.Set(actorKey, actor)
}

// Identity resolves the X-Actor-ID header into an Actor. Capabilities
// come from the Valkey cache when warm, from the directory service
// otherwise. Requests without a resolvable actor are rejected.
func Identity(directory *external.DirectoryClient, valkey *cache.ValkeyClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-Actor-ID")
		if header == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "missing X-Actor-ID header",
				Code:  "unauthorized",
			})
			c.Abort()
			return
		}

		actorID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || actorID <= 0 {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "invalid X-Actor-ID header",
				Code:  "unauthorized",
			})
			c.Abort()
			return
		}

		capability, err := resolveCapability(c.Request.Context(), actorID, directory, valkey)
		if err != nil {
			logger.Get().Warn("Failed to resolve actor capability", "actor_id", actorID, "error", err)
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "unknown actor",
				Code:  "unauthorized",
			})
			c.Abort()
			return
		}

		c.Set(actorKey, Actor{ID: actorID, Capability: capability})

		ctx := context.WithValue(c.Request.Context(), "actor_id", actorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func resolveCapability(ctx context.Context, actorID int64, directory *external.DirectoryClient, valkey *cache.ValkeyClient) (string, error) {
	if valkey != nil {
		if capability, err := valkey.GetActorCapability(ctx, actorID); err == nil {
			return capability, nil
		}
	}

	if directory == nil {
		return "", fmt.Errorf("no directory client configured")
	}

	capability, err := directory.ActorCapability(ctx, actorID)
	if err != nil {
		return "", err
	}

	if valkey != nil {
		valkey.SetActorCapability(ctx, actorID, capability)
	}

	return capability, nil
}

// RequestID attaches a request ID to the context and response headers
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = logger.NewRequestID()
		}

		ctx := context.WithValue(c.Request.Context(), "request_id", requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

// Logger logs each request with latency and status
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.WithContext(c.Request.Context()).Info("Request handled",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP())
	}
}

// Metrics records per-request latency histograms
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Recovery converts panics into 500 responses
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(c.Request.Context()).Error("Panic recovered",
					"panic", fmt.Sprintf("%v", r),
					"path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
					Error: "internal server error",
					Code:  "internal",
				})
			}
		}()
		c.Next()
	}
}

// CORS allows cross-origin requests from the academy front-end
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Actor-ID, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
