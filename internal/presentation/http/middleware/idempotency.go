package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/invoice-console/internal/domain/entity"
	"github.com/sangkips/invoice-console/internal/domain/repository"
	"github.com/sirupsen/logrus"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyField is the hidden form field carrying the key
	IdempotencyKeyField = "_idempotency_key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	Logger logrus.FieldLogger
}

// Idempotency answers a repeated form submission with the redirect of the
// first one instead of running it again. Forms opt in by rendering a fresh
// key into a hidden field; only redirects are recorded, so a submission
// that failed validation can be corrected and sent again with the same key.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			key = c.PostForm(IdempotencyKeyField)
		}
		sessionID := GetSessionID(c)
		if key == "" || sessionID == uuid.Nil {
			c.Next()
			return
		}

		existing, err := cfg.Repo.GetByKey(c.Request.Context(), key, sessionID)
		if err != nil {
			cfg.Logger.WithError(err).Warn("idempotency lookup failed")
			c.Next()
			return
		}
		if existing != nil && !existing.IsExpired() {
			c.Header("X-Idempotency-Replayed", "true")
			c.Redirect(existing.ResponseCode, existing.Location)
			c.Abort()
			return
		}

		c.Next()

		status := c.Writer.Status()
		location := c.Writer.Header().Get("Location")
		if status < 300 || status >= 400 || location == "" {
			return
		}
		record := &entity.IdempotencyKey{
			Key:          key,
			SessionID:    sessionID,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			ResponseCode: status,
			Location:     location,
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		}
		if err := cfg.Repo.Create(c.Request.Context(), record); err != nil {
			cfg.Logger.WithError(err).Warn("failed to record idempotency key")
		}
	}
}
