package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"e24.in/crm/middleware"
	"e24.in/crm/models"
)

func mustCreateUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{Email: email, Name: "Test User", PasswordHash: string(hash)}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	mustCreateUser(t, db, "admin@amarillosecurity.com", "admin123")

	t.Run("valid credentials issue a token", func(t *testing.T) {
		w := httptest.NewRecorder()
		Login(w, jsonRequest(t, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "admin@amarillosecurity.com", "password": "admin123"}))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token string            `json:"token"`
			User  map[string]string `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "admin@amarillosecurity.com", resp.User["email"])
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		for _, creds := range []map[string]string{
			{"email": "admin@amarillosecurity.com", "password": "wrong"},
			{"email": "nobody@amarillosecurity.com", "password": "admin123"},
		} {
			w := httptest.NewRecorder()
			Login(w, jsonRequest(t, http.MethodPost, "/api/auth/login", creds))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Invalid credentials")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		Login(w, jsonRequest(t, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "admin@amarillosecurity.com"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// authedRequest runs a handler behind the JWT middleware with a real token,
// the same way the router wires it.
func authedRequest(t *testing.T, user *models.User, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	token, err := middleware.GenerateToken(user.ID.String(), user.Email, user.Name)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	middleware.JWTMiddleware(handler).ServeHTTP(w, req)
	return w
}

func TestGetCurrentUser(t *testing.T) {
	db := setupTestDB(t)
	user := mustCreateUser(t, db, "admin@amarillosecurity.com", "admin123")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := authedRequest(t, user, GetCurrentUser, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user.Email, resp.Email)
	// The hash never leaves the server.
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGetCurrentUserRequiresToken(t *testing.T) {
	setupTestDB(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	middleware.JWTMiddleware(http.HandlerFunc(GetCurrentUser)).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	user := mustCreateUser(t, db, "admin@amarillosecurity.com", "admin123")

	req := jsonRequest(t, http.MethodPost, "/api/auth/change-password",
		map[string]string{"currentPassword": "admin123", "newPassword": "much-longer-secret"})
	w := authedRequest(t, user, ChangePassword, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Old password no longer works, new one does.
	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("admin123")))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("much-longer-secret")))
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	db := setupTestDB(t)
	user := mustCreateUser(t, db, "admin@amarillosecurity.com", "admin123")

	req := jsonRequest(t, http.MethodPost, "/api/auth/change-password",
		map[string]string{"currentPassword": "wrong", "newPassword": "much-longer-secret"})
	w := authedRequest(t, user, ChangePassword, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
