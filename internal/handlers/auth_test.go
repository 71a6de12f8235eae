package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncst-capstone/evaluation-service/internal/models"
	"github.com/ncst-capstone/evaluation-service/internal/utils"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *utils.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := utils.NewTokenManager("test-secret", time.Hour)
	logger := utils.NewSlogLogger(testSlog())
	auth := NewAuthMiddleware(tokens, logger)

	router := gin.New()
	authed := router.Group("", auth.RequireAuth())
	authed.GET("/whoami", func(c *gin.Context) {
		actor, _ := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"role": actor.Role, "subject": actor.Subject()})
	})
	authed.GET("/admin-only", auth.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, tokens
}

func doRequest(router *gin.Engine, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	router, tokens := newAuthRouter(t)

	t.Run("valid token passes", func(t *testing.T) {
		token, _, err := tokens.Issue(models.StudentActor("2021-00123"))
		require.NoError(t, err)

		w := doRequest(router, http.MethodGet, "/whoami", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "2021-00123")
	})

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/whoami", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/whoami", "garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	router, tokens := newAuthRouter(t)

	adminToken, _, err := tokens.Issue(models.AdminActor(1))
	require.NoError(t, err)
	studentToken, _, err := tokens.Issue(models.StudentActor("2021-00123"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/admin-only", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(router, http.MethodGet, "/admin-only", studentToken).Code)
}
