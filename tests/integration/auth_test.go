package integration

import (
	"fmt"
	"net/http"
	"testing"

	"cineorca/internal/models"
	"cineorca/internal/testutil"
)

func TestAuthFlow_RegisterLoginProfileRefresh(t *testing.T) {
	app := setupApp(t)

	// Step 1: Register points at onboarding and creates an empty config
	rec := app.request("POST", "/api/v1/auth/register",
		`{"email":"auth@test.com","password":"password123","name":"Ana"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["next"] != "/api/v1/onboarding" {
		t.Errorf("expected onboarding next step, got %v", result["next"])
	}
	userID := result["user"].(map[string]interface{})["id"].(string)
	var cfg models.UserConfig
	if err := app.DB.Where("user_id = ?", userID).First(&cfg).Error; err != nil {
		t.Fatalf("expected a config row after registration: %v", err)
	}
	if cfg.BrandColor != models.DefaultBrandColor {
		t.Errorf("expected default brand color, got %q", cfg.BrandColor)
	}

	// Step 2: Login
	rec = app.request("POST", "/api/v1/auth/login",
		`{"email":"auth@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	login := parseJSON(t, rec)
	access := login["access_token"].(string)
	refresh := login["refresh_token"].(string)

	// Step 3: Profile
	rec = app.request("GET", "/api/v1/profile", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["email"] != "auth@test.com" {
		t.Errorf("expected email auth@test.com, got %v", user["email"])
	}

	// Step 4: Refresh
	rec = app.request("POST", "/api/v1/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["access_token"] == "" {
		t.Fatal("expected a new access token")
	}
}

func TestAuthFlow_SessionCookie(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "cookie@test.com")

	rec := app.request("POST", "/api/v1/auth/login",
		fmt.Sprintf(`{"email":"cookie@test.com","password":%q}`, testutil.TestPassword), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie on login")
	}

	rec = app.requestWithCookies("GET", "/api/v1/profile", "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected cookie session to authenticate, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.requestWithCookies("POST", "/api/v1/auth/logout", "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout failed: %d %s", rec.Code, rec.Body.String())
	}
	cleared := rec.Result().Cookies()

	rec = app.requestWithCookies("GET", "/api/v1/profile", "", cleared)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestAuthFlow_RegisterDuplicateEmail(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "dup@test.com")

	rec := app.request("POST", "/api/v1/auth/register",
		`{"email":"dup@test.com","password":"password123","name":"Again"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "DUPLICATE_EMAIL" {
		t.Errorf("expected DUPLICATE_EMAIL, got %v", code)
	}
}

func TestAuthFlow_LoginWrongPassword(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "wrong@test.com")

	rec := app.request("POST", "/api/v1/auth/login",
		`{"email":"wrong@test.com","password":"nope-nope"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "INVALID_CREDENTIALS" {
		t.Errorf("expected INVALID_CREDENTIALS, got %v", code)
	}
}

func TestAuthFlow_ProtectedWithoutCredentials(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/api/v1/profile", "/api/v1/dashboard", "/api/v1/budgets/options", "/api/v1/clients"} {
		rec := app.request("GET", path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}
