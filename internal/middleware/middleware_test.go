package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.NewNop()))
	api := r.Group("/api", JWTAuth(testSecret))
	api.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString(CtxUserID), "manager": HasRole(c, "Manager")})
	})
	api.GET("/manager", RequireRole("Manager", "Admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := newRouter()
	now := time.Now()

	valid := signToken(t, jwt.MapClaims{
		"uid": "u-1", "roles": []string{"Manager"},
		"exp": now.Add(time.Hour).Unix(),
	})
	expired := signToken(t, jwt.MapClaims{
		"uid": "u-1", "roles": []string{"Manager"},
		"exp": now.Add(-time.Hour).Unix(),
	})
	refresh := signToken(t, jwt.MapClaims{
		"uid": "u-1", "type": "refresh",
		"exp": now.Add(time.Hour).Unix(),
	})

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"missing token", "/api/me", "", http.StatusUnauthorized},
		{"garbage token", "/api/me", "abc.def.ghi", http.StatusUnauthorized},
		{"expired token", "/api/me", expired, http.StatusUnauthorized},
		{"refresh token rejected", "/api/me", refresh, http.StatusUnauthorized},
		{"valid header token", "/api/me", valid, http.StatusOK},
		{"valid query token", "/api/me?token=" + valid, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.path, tt.token)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := newRouter()
	exp := time.Now().Add(time.Hour).Unix()

	customer := signToken(t, jwt.MapClaims{"uid": "c-1", "roles": []string{"Customer"}, "exp": exp})
	admin := signToken(t, jwt.MapClaims{"uid": "a-1", "roles": []string{"Admin"}, "exp": exp})

	if w := do(r, "/api/manager", customer); w.Code != http.StatusForbidden {
		t.Fatalf("customer: expected 403, got %d", w.Code)
	}
	if w := do(r, "/api/manager", admin); w.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", w.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "req-42" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
}
