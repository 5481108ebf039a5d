package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/invoice-console/internal/config"
	"github.com/sangkips/invoice-console/pkg/utils"
)

// SessionIDKey is the gin context key holding the browser session ID.
const SessionIDKey = "session_id"

// SessionMiddleware identifies the browser by a signed cookie. A missing,
// expired or tampered cookie starts a new session.
func SessionMiddleware(tokens *utils.SessionTokenManager, cfg *config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := uuid.Nil
		if cookie, err := c.Cookie(cfg.CookieName); err == nil && cookie != "" {
			if sid, err := tokens.Validate(cookie); err == nil {
				sessionID = sid
			}
		}

		if sessionID == uuid.Nil {
			sessionID = uuid.New()
			token, err := tokens.Generate(sessionID)
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, token, int(tokens.Expiry().Seconds()), "/", "", cfg.Secure, true)
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID retrieves the session ID from gin context
func GetSessionID(c *gin.Context) uuid.UUID {
	sessionID, exists := c.Get(SessionIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := sessionID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
