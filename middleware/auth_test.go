package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	usermodel "NProject/module/user/model"
	"NProject/tools/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticResolver struct {
	tokens map[string]*usermodel.Identity
}

func (r *staticResolver) Resolve(_ context.Context, token string) (*usermodel.Identity, error) {
	id, ok := r.tokens[token]
	if !ok {
		return nil, errs.ErrTokenInvalid
	}
	return id, nil
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	resolver := &staticResolver{tokens: map[string]*usermodel.Identity{
		"good-token": {ID: "u1", Email: "a@example.com"},
	}}

	r := gin.New()
	r.GET("/whoami", Auth(resolver), func(c *gin.Context) {
		c.JSON(http.StatusOK, IdentityFrom(c))
	})
	return r
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsBadToken(t *testing.T) {
	r := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	r := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u1"`)
}

func TestAuthAcceptsAccessTokenHeader(t *testing.T) {
	r := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Access-Token", "good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
