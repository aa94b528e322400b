package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", RequireAuth(testSecret), func(c *gin.Context) {
		id, _ := CallerID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "role": CallerRole(c)})
	})
	r.GET("/admin", RequireAuth(testSecret), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func signToken(t *testing.T, secret []byte, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func do(r *gin.Engine, target, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	r := testRouter()
	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "7",
		"role": "member",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := do(r, "/whoami", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user_id":7,"role":"member"}`, w.Body.String())
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	w := do(testRouter(), "/whoami", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	w := do(testRouter(), "/whoami", "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	token := signToken(t, []byte("other-secret"), jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	w := do(testRouter(), "/whoami", "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsNonNumericSubject(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-number",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	w := do(testRouter(), "/whoami", "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleBlocksOtherRoles(t *testing.T) {
	r := testRouter()
	member := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "7",
		"role": "member",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	admin := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	require.Equal(t, http.StatusForbidden, do(r, "/admin", "Bearer "+member).Code)
	require.Equal(t, http.StatusOK, do(r, "/admin", "Bearer "+admin).Code)
}
