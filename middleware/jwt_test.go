package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-1", "admin@amarillosecurity.com", "Admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken returned an empty token")
	}

	var got *Claims
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetClaims(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("authenticated request: got %d, want 200", w.Code)
	}
	if got == nil {
		t.Fatal("claims missing from request context")
	}
	if got.UserID != "user-1" || got.Email != "admin@amarillosecurity.com" {
		t.Errorf("claims = %+v", got)
	}
}

func TestTokenSignedWithCurrentSecret(t *testing.T) {
	// A secret set after package load (the .env path) must be the one used
	// for signing.
	t.Setenv("JWT_SECRET", "rotated-secret")

	token, err := GenerateToken("user-1", "admin@amarillosecurity.com", "Admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return []byte("rotated-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token not signed with the current secret: %v", err)
	}
}

func TestJWTMiddlewareRejectsBadTokens(t *testing.T) {
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("got %d, want 401", w.Code)
			}
		})
	}
}
