package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samanvaya/samanvaya/pkg/db/store"
	"github.com/samanvaya/samanvaya/pkg/log"
	"github.com/samanvaya/samanvaya/pkg/policy"
)

const (
	identityKey  = "samanvaya_identity"
	requestIDKey = "samanvaya_request_id"

	requestIDHeader = "X-Request-ID"
)

// RequestID reuses the caller's X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// AccessLog writes one line per request and logs errors handlers attached
// to the context.
func AccessLog(logger log.LoggerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()

		requestLog := logger.With("request_id", c.GetString(requestIDKey))
		for _, err := range c.Errors {
			requestLog.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err.Err)
		}
		requestLog.Debug("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(begin))
	}
}

// Identity resolves HTTP basic credentials into the caller identity.
// Requests without credentials continue as anonymous; wrong credentials are
// rejected outright.
func Identity(s store.MetadataStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Set(identityKey, policy.Identity{})
			c.Next()
			return
		}

		id, err := s.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			if !errors.Is(err, store.ErrInvalidCredentials) {
				respondError(c, err)
				c.Abort()
				return
			}
			unauthorized(c, "invalid credentials")
			c.Abort()
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// GetIdentity returns the caller identity stored by Identity.
func GetIdentity(c *gin.Context) policy.Identity {
	if value, exists := c.Get(identityKey); exists {
		if id, ok := value.(policy.Identity); ok {
			return id
		}
	}
	return policy.Identity{}
}
