package services

import (
	"testing"

	"fintrack/internal/testutil"
)

func TestGetProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProfileService(db)

	_, err := svc.GetProfile("owner")
	testutil.AssertAppError(t, err, "PROFILE_NOT_FOUND")

	testutil.CreateTestProfile(t, db, "owner", "4200")
	profile, err := svc.GetProfile("owner")
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "4200", profile.MonthlyIncome)
}

func TestUpsertProfile(t *testing.T) {
	t.Run("creates with defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		profile, err := svc.UpsertProfile("owner", ProfileInput{Name: ptr("  Sam ")})
		testutil.AssertNoError(t, err)

		if profile.ID == "" {
			t.Fatal("expected profile ID")
		}
		if profile.Name != "Sam" || profile.Currency != "USD" || profile.Theme != "system" {
			t.Errorf("unexpected profile %+v", profile)
		}
	})

	t.Run("updates in place", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)
		existing := testutil.CreateTestProfile(t, db, "owner", "1000")

		profile, err := svc.UpsertProfile("owner", ProfileInput{
			Currency:      ptr("eur"),
			MonthlyIncome: decPtr("2500.50"),
			Theme:         ptr("dark"),
		})
		testutil.AssertNoError(t, err)

		if profile.ID != existing.ID {
			t.Error("expected the existing profile to be updated")
		}
		if profile.Currency != "EUR" || profile.Theme != "dark" {
			t.Errorf("unexpected profile %+v", profile)
		}
		if profile.Email != existing.Email {
			t.Error("email should be kept")
		}

		stored, err := svc.GetProfile("owner")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "2500.50", stored.MonthlyIncome)
	})

	t.Run("negative amounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		_, err := svc.UpsertProfile("owner", ProfileInput{MonthlyIncome: decPtr("-1")})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
		_, err = svc.UpsertProfile("owner", ProfileInput{MonthlyGoal: decPtr("-1")})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
		_, err = svc.UpsertProfile("owner", ProfileInput{MonthlyIncome: decPtr("1000.00001")})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})
}
