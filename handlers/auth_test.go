package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"orgmanager-backend/importer"
	"orgmanager-backend/utils"
)

func TestLoginSuccess(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	user, _ := seedTestUser(db, "login@test.com", "admin")

	body := map[string]string{
		"email":    "login@test.com",
		"password": "password123",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatal("expected token in response")
	}
	if resp["refresh_token"] == nil || resp["refresh_token"] == "" {
		t.Error("expected refresh_token in response")
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		t.Fatalf("returned token does not validate: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	respUser := resp["user"].(map[string]interface{})
	if respUser["email"] != "login@test.com" {
		t.Errorf("expected email login@test.com, got %v", respUser["email"])
	}
	if _, leaked := respUser["password"]; leaked {
		t.Error("password hash must not be serialized")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	seedTestUser(db, "login@test.com", "admin")

	body := map[string]string{
		"email":    "login@test.com",
		"password": "wrongpassword",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", body))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp["error"] != "Invalid credentials" {
		t.Errorf("expected 'Invalid credentials', got %v", resp["error"])
	}
}

func TestLoginNonexistentUser(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	body := map[string]string{
		"email":    "nobody@test.com",
		"password": "password123",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", body))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestLoginImportedUserWithMixedCaseEmail(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	im := importer.New(db, importer.NewMemoryHistory(10), importer.Config{})
	res, err := im.Import(context.Background(), importer.Options{
		Type:     importer.Users,
		JSONData: `[{"name":"Dr Who","email":"Dr.Who@Clinic.com","password":"tardis123","role":"doctor"}]`,
	}, 0)
	if err != nil || res.SuccessCount != 1 {
		t.Fatalf("user import failed: %v %+v", err, res)
	}

	body := map[string]string{
		"email":    "Dr.Who@Clinic.com",
		"password": "tardis123",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	respUser := parseResponse(w)["user"].(map[string]interface{})
	if respUser["email"] != "dr.who@clinic.com" {
		t.Errorf("expected stored email dr.who@clinic.com, got %v", respUser["email"])
	}
}

func TestLoginInactiveUser(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	user, _ := seedTestUser(db, "pending@test.com", "doctor")
	db.Model(&user).Update("status", "pending")

	body := map[string]string{
		"email":    "pending@test.com",
		"password": "password123",
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", body))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginValidation(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	body := map[string]string{"email": "not-an-email"}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestGetProfile(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	_, token := seedTestUser(db, "profile@test.com", "org_admin")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/auth/profile", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["email"] != "profile@test.com" {
		t.Errorf("expected email profile@test.com, got %v", resp["email"])
	}
	if resp["role"] != "org_admin" {
		t.Errorf("expected role org_admin, got %v", resp["role"])
	}
}

func TestGetProfileUnauthorized(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/auth/profile", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestGetProfileDeletedUser(t *testing.T) {
	db := freshDB()
	router := setupAuthRouter(db)
	user, token := seedTestUser(db, "gone@test.com", "user")
	db.Delete(&user)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/auth/profile", nil, token))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
