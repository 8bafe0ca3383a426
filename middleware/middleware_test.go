package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/sidhant-sriv/consumeless/auth"
	"github.com/sidhant-sriv/consumeless/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(issuer *auth.Issuer) *gin.Engine {
	r := gin.New()
	r.GET("/whoami", AuthMiddleware(issuer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	return r
}

func do(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	issuer := auth.NewIssuer("test-secret")
	tok, err := issuer.Issue(models.User{ID: 5})
	require.NoError(t, err)

	w, body := do(newAuthRouter(issuer), httptest.NewRequest(http.MethodGet, "/whoami?token="+tok, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(5), body["user_id"])
}

func TestAuthMiddleware_BearerFallback(t *testing.T) {
	issuer := auth.NewIssuer("test-secret")
	tok, err := issuer.Issue(models.User{ID: 5})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w, _ := do(newAuthRouter(issuer), req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingAndInvalidDiffer(t *testing.T) {
	issuer := auth.NewIssuer("test-secret")
	r := newAuthRouter(issuer)

	w, body := do(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Token is missing!", body["error"])

	w, body = do(r, httptest.NewRequest(http.MethodGet, "/whoami?token=garbage", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "Token is invalid!", body["error"])

	expired, err := issuer.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).Issue(models.User{ID: 5})
	require.NoError(t, err)
	w, body = do(r, httptest.NewRequest(http.MethodGet, "/whoami?token="+expired, nil))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "Token is invalid!", body["error"])
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w, _ := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, generated)
	require.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w, _ = do(r, req)
	require.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRecoveryAndLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestID(), StructuredLogger(logger), Recovery(logger))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w, body := do(r, httptest.NewRequest(http.MethodGet, "/boom?token=secret-token", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "Internal Server Error", body["error"])
	require.NotContains(t, w.Body.String(), "kaboom")

	logged := buf.String()
	require.Contains(t, logged, "Panic recovered")
	require.Contains(t, logged, `"status":500`)
	require.NotContains(t, logged, "secret-token")
}
