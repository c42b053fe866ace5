package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"orgmanager-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
}

func setupTestRouter() *gin.Engine {
	r := gin.New()

	// Protected endpoint for testing AuthMiddleware
	protected := r.Group("/api")
	protected.Use(AuthMiddleware())
	protected.GET("/test", func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		role, _ := c.Get("user_role")
		orgID, _ := c.Get("organization_id")
		c.JSON(http.StatusOK, gin.H{
			"user_id":         userID,
			"has_user":        ok,
			"role":            role,
			"organization_id": orgID,
		})
	})

	// Admin endpoint for testing AdminMiddleware
	admin := r.Group("/api/admin")
	admin.Use(AuthMiddleware())
	admin.Use(AdminMiddleware())
	admin.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "admin access granted"})
	})

	return r
}

func doGet(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := setupTestRouter()

	orgID := uint(12)
	token, err := utils.GenerateToken(5, "test@test.com", "org_admin", &orgID)
	if err != nil {
		t.Fatal(err)
	}

	w := doGet(router, "/api/test", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		UserID         uint   `json:"user_id"`
		HasUser        bool   `json:"has_user"`
		Role           string `json:"role"`
		OrganizationID uint   `json:"organization_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.UserID != 5 || !body.HasUser {
		t.Errorf("expected user 5 in context, got %+v", body)
	}
	if body.Role != "org_admin" {
		t.Errorf("expected role org_admin, got %s", body.Role)
	}
	if body.OrganizationID != orgID {
		t.Errorf("expected organization %d, got %d", orgID, body.OrganizationID)
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := setupTestRouter()

	w := doGet(router, "/api/test", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareMalformedToken(t *testing.T) {
	router := setupTestRouter()

	w := doGet(router, "/api/test", "not-a-valid-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareInvalidFormatNoBearer(t *testing.T) {
	router := setupTestRouter()

	token, _ := utils.GenerateToken(1, "test@test.com", "admin", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Token "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	router := setupTestRouter()

	// Create an expired token manually
	secret := os.Getenv("JWT_SECRET")
	claims := utils.Claims{
		UserID: 3,
		Email:  "expired@test.com",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "orgmanager-backend",
		},
	}
	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := tokenObj.SignedString([]byte(secret))

	w := doGet(router, "/api/test", expiredToken)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	router := setupTestRouter()

	token, _ := utils.GenerateToken(1, "admin@test.com", "admin", nil)

	w := doGet(router, "/api/admin/test", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminMiddlewareBlocksOtherRoles(t *testing.T) {
	router := setupTestRouter()

	for _, role := range []string{"org_admin", "doctor", "user"} {
		token, _ := utils.GenerateToken(2, role+"@test.com", role, nil)

		w := doGet(router, "/api/admin/test", token)
		if w.Code != http.StatusForbidden {
			t.Errorf("role %s: expected status 403, got %d: %s", role, w.Code, w.Body.String())
		}
	}
}
