package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"cineorca/internal/pagination"
	"cineorca/internal/testutil"
)

func TestCreateFreelancer(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFreelancerService(db)
		user := testutil.CreateTestUser(t, db)

		f, err := svc.CreateFreelancer(user.ID, " Ana ", "Sound", decimal.RequireFromString("350.505"))
		testutil.AssertNoError(t, err)

		if f.Name != "Ana" || f.Role != "Sound" {
			t.Errorf("unexpected freelancer %+v", f)
		}
		testutil.AssertDecimal(t, f.DailyRate, "350.51")
	})

	t.Run("blank_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFreelancerService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateFreelancer(user.ID, "", "Sound", decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserFreelancers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewFreelancerService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestFreelancer(t, db, user.ID)
	testutil.CreateTestFreelancer(t, db, user.ID)
	testutil.CreateTestFreelancer(t, db, other.ID)

	result, err := svc.GetUserFreelancers(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 2 {
		t.Errorf("expected 2 freelancers, got %d", result.TotalItems)
	}
	for _, f := range result.Data {
		if f.UserID != user.ID {
			t.Errorf("got freelancer of another user: %s", f.UserID)
		}
	}
}

func TestUpdateFreelancer(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFreelancerService(db)
		user := testutil.CreateTestUser(t, db)
		f := testutil.CreateTestFreelancer(t, db, user.ID)

		_, err := svc.UpdateFreelancer(user.ID, f.ID, "Bruno", "Grip", decimal.NewFromInt(420))
		testutil.AssertNoError(t, err)

		got, err := svc.GetFreelancerByID(user.ID, f.ID)
		testutil.AssertNoError(t, err)
		if got.Name != "Bruno" || got.Role != "Grip" {
			t.Errorf("unexpected freelancer %+v", got)
		}
		testutil.AssertDecimal(t, got.DailyRate, "420")
	})

	t.Run("other_users_freelancer", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFreelancerService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		f := testutil.CreateTestFreelancer(t, db, owner.ID)

		_, err := svc.UpdateFreelancer(intruder.ID, f.ID, "X", "", decimal.Zero)
		testutil.AssertAppError(t, err, "FREELANCER_NOT_FOUND")
	})
}

func TestDeleteFreelancer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewFreelancerService(db)
	owner := testutil.CreateTestUser(t, db)
	intruder := testutil.CreateTestUser(t, db)
	f := testutil.CreateTestFreelancer(t, db, owner.ID)

	testutil.AssertAppError(t, svc.DeleteFreelancer(intruder.ID, f.ID), "FREELANCER_NOT_FOUND")
	testutil.AssertNoError(t, svc.DeleteFreelancer(owner.ID, f.ID))

	_, err := svc.GetFreelancerByID(owner.ID, f.ID)
	testutil.AssertAppError(t, err, "FREELANCER_NOT_FOUND")
}
