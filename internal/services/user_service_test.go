package services

import (
	"testing"

	"cineorca/internal/models"
	"cineorca/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register("  Alice@Example.com ", "secret1", "Alice")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if !user.IsActive {
			t.Error("expected user to be active")
		}
		if user.Config == nil || user.Config.ID == "" {
			t.Fatal("expected config to be created with the user")
		}
		if user.Config.BrandColor != models.DefaultBrandColor {
			t.Errorf("expected default brand color, got %s", user.Config.BrandColor)
		}

		var count int64
		db.Model(&models.UserConfig{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 config row, got %d", count)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("dup@example.com", "password123", "Dup")
		testutil.AssertNoError(t, err)

		_, err = svc.Register("DUP@example.com", "password456", "Dup")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")

		var count int64
		db.Model(&models.UserConfig{}).Count(&count)
		if count != 1 {
			t.Errorf("failed registration should not leave a config row, got %d", count)
		}
	})

	t.Run("short_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("short@example.com", "12345", "Short")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("noname@example.com", "password123", "   ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("password_is_hashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register("hash@example.com", "mypassword", "Hash")
		testutil.AssertNoError(t, err)

		if user.Password == "mypassword" {
			t.Fatal("password should be hashed")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("mypassword")); err != nil {
			t.Errorf("stored hash does not match: %v", err)
		}
	})
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("found_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUserWithEmail(t, db, "find@example.com")

		found, err := svc.GetUserByEmail("FIND@example.com")
		testutil.AssertNoError(t, err)
		if found.ID != user.ID {
			t.Errorf("expected %s, got %s", user.ID, found.ID)
		}
	})

	t.Run("inactive_user_hidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUserWithEmail(t, db, "gone@example.com")
		db.Model(user).Update("is_active", false)

		_, err := svc.GetUserByEmail("gone@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestGetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	found, err := svc.GetUserByID(user.ID)
	testutil.AssertNoError(t, err)
	if found.Email != user.Email {
		t.Errorf("expected %s, got %s", user.Email, found.Email)
	}

	_, err = svc.GetUserByID("0190a6b2-3c4d-7e8f-9a0b-1c2d3e4f5a6b")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_stamps_last_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		got, err := svc.AttemptLogin(user.Email, testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.LastLoginAt == nil {
			t.Fatal("expected last_login_at to be set")
		}

		var stored models.User
		db.First(&stored, "id = ?", user.ID)
		if stored.LastLoginAt == nil {
			t.Error("expected last_login_at to be persisted")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.AttemptLogin(user.Email, "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "whatever")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestStoreAndGetRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123"))

	hash, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc123" {
		t.Errorf("expected abc123, got %q", hash)
	}

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, ""))
	hash, _ = svc.GetRefreshTokenHash(user.ID)
	if hash != "" {
		t.Errorf("expected revoked hash, got %q", hash)
	}

	err = svc.StoreRefreshTokenHash("0190a6b2-3c4d-7e8f-9a0b-1c2d3e4f5a6b", "x")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
