package services

import (
	"testing"

	"spenza/internal/pagination"
	"spenza/internal/testutil"
)

func TestCreateZone(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		admin := testutil.CreateTestAdmin(t, db)
		svc := NewZoneService(db)

		zone, err := svc.CreateZone(admin.ID, "North", "northern region")
		testutil.AssertNoError(t, err)
		if zone.ID == 0 || zone.CreatedBy != admin.ID {
			t.Errorf("unexpected zone %+v", zone)
		}
	})

	t.Run("blank_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewZoneService(db)

		_, err := svc.CreateZone(1, "  ", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewZoneService(db)

		_, err := svc.CreateZone(1, "North", "")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateZone(1, "North", "")
		testutil.AssertAppError(t, err, "DUPLICATE_NAME")
	})
}

func TestListZones(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewZoneService(db)
	for _, name := range []string{"North", "South", "West"} {
		_, err := svc.CreateZone(1, name, "")
		testutil.AssertNoError(t, err)
	}

	t.Run("search_filters_by_name", func(t *testing.T) {
		page, err := svc.ListZones(pagination.PageRequest{Page: 1, PageSize: 20}, "nor")
		testutil.AssertNoError(t, err)
		if len(page.Data) != 1 || page.Data[0].Name != "North" {
			t.Errorf("unexpected search result %+v", page.Data)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		page, err := svc.ListZones(pagination.PageRequest{Page: 2, PageSize: 2}, "")
		testutil.AssertNoError(t, err)
		if len(page.Data) != 1 || page.TotalItems != 3 || page.TotalPages != 2 {
			t.Errorf("unexpected pagination %+v", page)
		}
	})
}

func TestDeleteZone(t *testing.T) {
	t.Run("clears_memberships", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewZoneService(db)
		admin := testutil.CreateTestAdmin(t, db)
		user := testutil.CreateTestUser(t, db)
		zone := testutil.CreateTestZone(t, db, admin.ID)
		testutil.AssignUserToZone(t, db, user, zone)

		testutil.AssertNoError(t, svc.DeleteZone(zone.ID))

		zoneIDs, err := svc.GetUserZoneIDs(user.ID)
		testutil.AssertNoError(t, err)
		if len(zoneIDs) != 0 {
			t.Errorf("expected membership rows to be gone, got %v", zoneIDs)
		}
	})

	t.Run("refused_while_expenses_reference_it", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewZoneService(db)
		admin := testutil.CreateTestAdmin(t, db)
		category := testutil.CreateTestCategory(t, db)
		zone := testutil.CreateTestZone(t, db, admin.ID)
		testutil.CreateTestExpense(t, db, admin.ID, category.ID, zone.ID, "10", date("2025-02-01"))

		testutil.AssertAppError(t, svc.DeleteZone(zone.ID), "ZONE_IN_USE")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewZoneService(db)
		testutil.AssertAppError(t, svc.DeleteZone(9999), "ZONE_NOT_FOUND")
	})
}

func TestZoneMembership(t *testing.T) {
	t.Run("assign_and_remove", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewZoneService(db)
		admin := testutil.CreateTestAdmin(t, db)
		user := testutil.CreateTestUser(t, db)
		zone := testutil.CreateTestZone(t, db, admin.ID)

		testutil.AssertNoError(t, svc.AssignUser(zone.ID, user.ID))

		zoneIDs, err := svc.GetUserZoneIDs(user.ID)
		testutil.AssertNoError(t, err)
		if len(zoneIDs) != 1 || zoneIDs[0] != zone.ID {
			t.Fatalf("expected membership in zone %d, got %v", zone.ID, zoneIDs)
		}

		testutil.AssertNoError(t, svc.RemoveUser(zone.ID, user.ID))

		zoneIDs, err = svc.GetUserZoneIDs(user.ID)
		testutil.AssertNoError(t, err)
		if len(zoneIDs) != 0 {
			t.Errorf("expected no memberships, got %v", zoneIDs)
		}
	})

	t.Run("assign_twice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewZoneService(db)
		admin := testutil.CreateTestAdmin(t, db)
		user := testutil.CreateTestUser(t, db)
		zone := testutil.CreateTestZone(t, db, admin.ID)

		testutil.AssertNoError(t, svc.AssignUser(zone.ID, user.ID))
		testutil.AssertAppError(t, svc.AssignUser(zone.ID, user.ID), "ALREADY_ZONE_MEMBER")
	})

	t.Run("assign_unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewZoneService(db)
		admin := testutil.CreateTestAdmin(t, db)
		zone := testutil.CreateTestZone(t, db, admin.ID)

		testutil.AssertAppError(t, svc.AssignUser(zone.ID, 9999), "USER_NOT_FOUND")
	})

	t.Run("no_memberships_is_empty_not_error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewZoneService(db)
		user := testutil.CreateTestUser(t, db)

		zoneIDs, err := svc.GetUserZoneIDs(user.ID)
		testutil.AssertNoError(t, err)
		if len(zoneIDs) != 0 {
			t.Errorf("expected empty slice, got %v", zoneIDs)
		}
	})
}
