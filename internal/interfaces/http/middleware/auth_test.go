package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/pkg/jwt"
)

type stubUsers map[uuid.UUID]*entities.User

func (s stubUsers) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return u, nil
}

func newAuthFixture(t *testing.T) (*jwt.JWTService, stubUsers, *entities.User) {
	t.Helper()
	svc := jwt.NewJWTService("middleware-secret", 15*time.Minute, time.Hour)
	user := &entities.User{
		ID:           uuid.New(),
		FirstName:    "Ada",
		UserType:     entities.UserRoleProvider,
		IsActive:     true,
		PasswordHash: null.StringFrom("$2a$10$hash"),
	}
	return svc, stubUsers{user.ID: user}, user
}

func protectedRouter(svc *jwt.JWTService, users UserLoader, gates ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(svc, users)}, gates...)
	handlers = append(handlers, func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "hasHash": user.PasswordHash.Valid})
	})
	r.GET("/me", handlers...)
	return r
}

func getWithAuth(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(AuthorizationHeader, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestAuthMiddleware_AttachesSanitizedUser(t *testing.T) {
	svc, users, user := newAuthFixture(t)
	token, err := svc.GenerateAccessToken(user.ID, string(user.UserType))
	require.NoError(t, err)

	w := getWithAuth(protectedRouter(svc, users), BearerPrefix+token)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		ID      uuid.UUID `json:"id"`
		HasHash bool      `json:"hasHash"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, user.ID, body.ID)
	assert.False(t, body.HasHash)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	svc, users, user := newAuthFixture(t)

	refresh, err := svc.GenerateRefreshToken(user.ID)
	require.NoError(t, err)

	ghost, err := svc.GenerateAccessToken(uuid.New(), "patient")
	require.NoError(t, err)

	other := jwt.NewJWTService("other-secret", time.Minute, time.Hour)
	forged, err := other.GenerateAccessToken(user.ID, "admin")
	require.NoError(t, err)

	inactive := &entities.User{ID: uuid.New(), UserType: entities.UserRolePatient, IsActive: false}
	users[inactive.ID] = inactive
	inactiveToken, err := svc.GenerateAccessToken(inactive.ID, "patient")
	require.NoError(t, err)

	cases := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "Authorization header is required"},
		{"wrong scheme", "Basic abc", "Invalid authorization format. Use: Bearer <token>"},
		{"empty bearer", "Bearer ", "Authorization header is required"},
		{"malformed token", "Bearer not-a-jwt", "Invalid or expired token"},
		{"refresh token", BearerPrefix + refresh, "Invalid or expired token"},
		{"foreign signature", BearerPrefix + forged, "Invalid or expired token"},
		{"unknown user", BearerPrefix + ghost, "User not found"},
		{"inactive user", BearerPrefix + inactiveToken, "Account is deactivated"},
	}
	r := protectedRouter(svc, users)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := getWithAuth(r, tc.header)
			require.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tc.message, errorMessage(t, w))
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	_, users, user := newAuthFixture(t)
	svc := jwt.NewJWTService("middleware-secret", -time.Minute, time.Hour)
	token, err := svc.GenerateAccessToken(user.ID, string(user.UserType))
	require.NoError(t, err)

	w := getWithAuth(protectedRouter(svc, users), BearerPrefix+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQueryTokenAuthMiddleware(t *testing.T) {
	svc, users, user := newAuthFixture(t)
	token, err := svc.GenerateAccessToken(user.ID, string(user.UserType))
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", QueryTokenAuthMiddleware(svc, users), func(c *gin.Context) {
		id, ok := GetUserID(c)
		require.True(t, ok)
		assert.Equal(t, user.ID, id)
		c.Status(http.StatusNoContent)
	})
	r.GET("/strict", AuthMiddleware(svc, users), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/strict?token="+token, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	svc, users, user := newAuthFixture(t)
	token, err := svc.GenerateAccessToken(user.ID, string(user.UserType))
	require.NoError(t, err)

	allowed := protectedRouter(svc, users, RequireRole(entities.UserRoleAdmin, entities.UserRoleProvider))
	assert.Equal(t, http.StatusOK, getWithAuth(allowed, BearerPrefix+token).Code)

	denied := protectedRouter(svc, users, RequireAdmin())
	w := getWithAuth(denied, BearerPrefix+token)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Insufficient permissions", errorMessage(t, w))
}

func TestRequireRole_WithoutAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContextAccessors_Empty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentUser(c)
	assert.False(t, ok)
	_, ok = GetUserID(c)
	assert.False(t, ok)
	_, ok = GetUserRole(c)
	assert.False(t, ok)
}
