package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"cineorca/internal/models"
	"cineorca/internal/testutil"
)

func TestGetConfig(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewConfigService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		cfg, err := svc.GetConfig(user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, cfg.HourlyRate, "50")
	})

	t.Run("missing_requires_onboarding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewConfigService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetConfig(user.ID)
		testutil.AssertAppError(t, err, "ONBOARDING_REQUIRED")
	})
}

func TestCompleteOnboarding(t *testing.T) {
	t.Run("creates_config", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewConfigService(db)
		user := testutil.CreateTestUser(t, db)

		cfg, err := svc.CompleteOnboarding(user.ID,
			decimal.NewFromInt(8000), decimal.NewFromInt(2000), decimal.NewFromInt(20))
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, cfg.MonthlyGoal, "8000")
		testutil.AssertDecimal(t, cfg.HourlyRate, "62.50")
		if cfg.BrandColor != models.DefaultBrandColor {
			t.Errorf("expected default brand color, got %s", cfg.BrandColor)
		}

		stored, err := svc.GetConfig(user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, stored.HourlyRate, "62.50")
	})

	t.Run("zero_days_uses_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewConfigService(db)
		user := testutil.CreateTestUser(t, db)

		cfg, err := svc.CompleteOnboarding(user.ID,
			decimal.NewFromInt(8000), decimal.NewFromInt(2000), decimal.Zero)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, cfg.HourlyRate, "62.50")
	})

	t.Run("updates_existing_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewConfigService(db)
		user := testutil.CreateTestUser(t, db)
		existing := testutil.CreateTestUserConfig(t, db, user.ID, "10", "100")

		cfg, err := svc.CompleteOnboarding(user.ID,
			decimal.NewFromInt(1000), decimal.Zero, decimal.NewFromInt(22))
		testutil.AssertNoError(t, err)

		if cfg.ID != existing.ID {
			t.Errorf("expected existing config to be updated, got new id %s", cfg.ID)
		}
		testutil.AssertDecimal(t, cfg.HourlyRate, "5.68")
		if cfg.CompanyName != existing.CompanyName {
			t.Errorf("branding should survive onboarding, got %q", cfg.CompanyName)
		}

		var count int64
		db.Model(&models.UserConfig{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected a single config row, got %d", count)
		}
	})
}

func TestUpdateSettings(t *testing.T) {
	t.Run("branding_and_override", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewConfigService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		rate := decimal.RequireFromString("75.555")
		cfg, err := svc.UpdateSettings(user.ID, SettingsInput{
			CompanyName: " Orca Films ",
			TaxID:       strings.Repeat("9", 30),
			BrandColor:  "#112233",
			HourlyRate:  &rate,
		})
		testutil.AssertNoError(t, err)

		if cfg.CompanyName != "Orca Films" {
			t.Errorf("expected trimmed company name, got %q", cfg.CompanyName)
		}
		if len(cfg.TaxID) != 20 {
			t.Errorf("expected tax id truncated to 20, got %d", len(cfg.TaxID))
		}
		if cfg.BrandColor != "#112233" {
			t.Errorf("expected #112233, got %s", cfg.BrandColor)
		}
		testutil.AssertDecimal(t, cfg.HourlyRate, "75.56")
		testutil.AssertDecimal(t, cfg.MonthlyGoal, "10000")
	})

	t.Run("blank_color_resets_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewConfigService(db)
		user := testutil.CreateTestUser(t, db)

		cfg, err := svc.UpdateSettings(user.ID, SettingsInput{CompanyName: "New"})
		testutil.AssertNoError(t, err)

		if cfg.BrandColor != models.DefaultBrandColor {
			t.Errorf("expected default brand color, got %s", cfg.BrandColor)
		}
		if cfg.ID == "" {
			t.Error("expected config to be created")
		}
	})
}
