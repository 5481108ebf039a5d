package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/invoice-console/internal/config"
	infraRepo "github.com/sangkips/invoice-console/internal/infrastructure/repository"
	"github.com/sangkips/invoice-console/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionRouter(tokens *utils.SessionTokenManager) *gin.Engine {
	cfg := &config.SessionConfig{CookieName: "console_session"}
	router := gin.New()
	router.Use(SessionMiddleware(tokens, cfg))
	router.GET("/whoami", func(c *gin.Context) {
		sid := GetSessionID(c)
		if sid == uuid.Nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, sid.String())
	})
	return router
}

func TestSessionMiddlewareIssuesCookie(t *testing.T) {
	tokens := utils.NewSessionTokenManager("secret", time.Hour, "test")
	router := sessionRouter(tokens)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "console_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	sid, err := tokens.Validate(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, sid.String(), w.Body.String())
}

func TestSessionMiddlewareKeepsValidSession(t *testing.T) {
	tokens := utils.NewSessionTokenManager("secret", time.Hour, "test")
	router := sessionRouter(tokens)
	sid := uuid.New()
	token, err := tokens.Generate(sid)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, sid.String(), w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestSessionMiddlewareReplacesTamperedCookie(t *testing.T) {
	other := utils.NewSessionTokenManager("other-secret", time.Hour, "test")
	token, err := other.Generate(uuid.New())
	require.NoError(t, err)
	router := sessionRouter(utils.NewSessionTokenManager("secret", time.Hour, "test"))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Len(t, w.Result().Cookies(), 1)
}

func withSession(sid uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(SessionIDKey, sid)
		c.Next()
	}
}

func TestRateLimiterPerSession(t *testing.T) {
	rl := newSessionRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2, EntryTTL: time.Minute})
	first, second := uuid.New(), uuid.New()

	serve := func(sid uuid.UUID, path string) *httptest.ResponseRecorder {
		router := gin.New()
		router.Use(withSession(sid), rl.Middleware())
		router.GET(path, func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	assert.Equal(t, http.StatusOK, serve(first, "/merchant").Code)
	assert.Equal(t, http.StatusOK, serve(first, "/merchant").Code)
	limited := serve(first, "/merchant")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), "Too many requests")

	api := serve(first, "/api/v1/options")
	assert.Equal(t, http.StatusTooManyRequests, api.Code)
	assert.Contains(t, api.Body.String(), `"too_many_requests"`)

	assert.Equal(t, http.StatusOK, serve(second, "/merchant").Code)
	assert.Equal(t, 2, rl.Stats()["active_sessions"])
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := newSessionRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, EntryTTL: time.Minute})
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.getLimiter(uuid.New())

	now = now.Add(2 * time.Minute)
	rl.getLimiter(uuid.New())
	rl.cleanup()

	assert.Equal(t, 1, rl.Stats()["active_sessions"])
}

func TestRateLimiterConfigFrom(t *testing.T) {
	cfg := RateLimiterConfigFrom(0, 0)
	assert.Equal(t, 100, cfg.BurstSize)
	assert.InDelta(t, 100.0/60.0, cfg.RequestsPerSecond, 1e-9)
}

func TestIdempotencyReplaysRedirect(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	sid := uuid.New()
	calls := 0

	router := gin.New()
	router.Use(withSession(sid), Idempotency(IdempotencyConfig{
		Repo:   infraRepo.NewMemoryIdempotencyRepository(),
		Logger: logger,
	}))
	router.POST("/merchant", func(c *gin.Context) {
		calls++
		if c.PostForm("companyName") == "" {
			c.String(http.StatusUnprocessableEntity, "invalid")
			return
		}
		c.Redirect(http.StatusSeeOther, "/merchant")
	})

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/merchant", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}
	key := uuid.NewString()

	assert.Equal(t, http.StatusUnprocessableEntity, post(url.Values{IdempotencyKeyField: {key}}).Code)
	first := post(url.Values{IdempotencyKeyField: {key}, "companyName": {"Acme"}})
	assert.Equal(t, http.StatusSeeOther, first.Code)
	assert.Equal(t, 2, calls)

	replay := post(url.Values{IdempotencyKeyField: {key}, "companyName": {"Acme"}})
	assert.Equal(t, http.StatusSeeOther, replay.Code)
	assert.Equal(t, "/merchant", replay.Header().Get("Location"))
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 2, calls)

	post(url.Values{"companyName": {"Acme"}})
	assert.Equal(t, 3, calls)
}
