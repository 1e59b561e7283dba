package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"spenza/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testUser(role models.Role) *models.User {
	user := &models.User{Email: "test@example.com", Role: role}
	user.ID = 7
	return user
}

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthMiddleware()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		userID, _ := c.Get("userID")
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	r.GET("/protected", chain...)
	return r
}

func request(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid_access_token", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser(models.RoleUser))
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		rec := request(protectedRouter(), "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing_header", func(t *testing.T) {
		rec := request(protectedRouter(), "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed_header", func(t *testing.T) {
		rec := request(protectedRouter(), "Token abc")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("refresh_token_rejected_as_access", func(t *testing.T) {
		token, err := GenerateRefreshToken(testUser(models.RoleUser))
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		rec := request(protectedRouter(), "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage_token", func(t *testing.T) {
		rec := request(protectedRouter(), "Bearer not.a.jwt")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("admin_passes", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser(models.RoleAdmin))
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		rec := request(protectedRouter(RequireAdmin()), "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("user_forbidden", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser(models.RoleUser))
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		rec := request(protectedRouter(RequireAdmin()), "Bearer "+token)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestValidateRefreshToken(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		user := testUser(models.RoleUser)
		token, err := GenerateRefreshToken(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		claims, err := ValidateRefreshToken(token)
		if err != nil {
			t.Fatalf("expected valid refresh token: %v", err)
		}
		if claims.UserID != user.ID || claims.Role != user.Role {
			t.Errorf("unexpected claims %+v", claims)
		}
	})

	t.Run("access_token_rejected", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser(models.RoleUser))
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		if _, err := ValidateRefreshToken(token); err == nil {
			t.Error("expected an access token to be rejected as refresh")
		}
	})
}

func TestHashToken(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Error("expected stable hash for identical input")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Error("expected different hashes for different input")
	}
	if len(HashToken("abc")) != 64 {
		t.Error("expected a 64-char hex digest")
	}
}
