package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

type tokenStub map[string]*models.JWTClaims

func (s tokenStub) Validate(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newRouter(auth gin.HandlerFunc, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", auth, RequireRoles(roles...), func(c *gin.Context) {
		c.String(http.StatusOK, Claims(c).UserID)
	})
	return r
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTAndRoles(t *testing.T) {
	tokens := tokenStub{
		"admin-token": {UserID: "admin-1", Role: models.RoleAdmin},
		"guard-token": {UserID: "guard-1", Role: models.RoleGuard},
	}
	r := newRouter(JWT(tokens, true), models.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Token admin-token").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer nope").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "Bearer guard-token").Code)

	rec := serve(r, "Bearer admin-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin-1", rec.Body.String())
}

func TestJWTDisabledRunsAnonymously(t *testing.T) {
	r := newRouter(JWT(nil, false), models.RoleAdmin)
	rec := serve(r, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, AnonymousUserID, rec.Body.String())
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
}
