package services

import (
	"testing"

	"spenza/internal/models"
	"spenza/internal/pagination"
	"spenza/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("success_with_default_role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Test@Example.com", "password123", "Test User")
		testutil.AssertNoError(t, err)

		if user.Email != "test@example.com" {
			t.Errorf("expected lowercased email, got %q", user.Email)
		}
		if user.Role != models.RoleUser {
			t.Errorf("expected default role user, got %q", user.Role)
		}
		if user.Password == "password123" {
			t.Error("password must be stored hashed")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "password123", "First")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "password456", "Second")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "password123", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		_, err := svc.CreateUser("login@example.com", "password123", "Login User")
		testutil.AssertNoError(t, err)

		user, err := svc.AttemptLogin("login@example.com", "password123")
		testutil.AssertNoError(t, err)
		if user.LastLoginAt == nil {
			t.Error("expected last_login_at to be set")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		_, err := svc.CreateUser("login@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("login@example.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email_reads_as_invalid_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("locks_after_repeated_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		_, err := svc.CreateUser("lock@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		for i := 0; i < 5; i++ {
			_, err = svc.AttemptLogin("lock@example.com", "wrong")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		// Even the correct password is rejected while locked.
		_, err = svc.AttemptLogin("lock@example.com", "password123")
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("success_resets_failure_count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		created, err := svc.CreateUser("reset@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("reset@example.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

		_, err = svc.AttemptLogin("reset@example.com", "password123")
		testutil.AssertNoError(t, err)

		user, err := svc.GetUserByID(created.ID)
		testutil.AssertNoError(t, err)
		if user.FailedLoginAttempts != 0 {
			t.Errorf("expected failure count reset, got %d", user.FailedLoginAttempts)
		}
	})
}

func TestRefreshTokenHash(t *testing.T) {
	t.Run("store_and_read_back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123"))

		hash, err := svc.GetRefreshTokenHash(user.ID)
		testutil.AssertNoError(t, err)
		if hash != "abc123" {
			t.Errorf("expected stored hash, got %q", hash)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		testutil.AssertAppError(t, svc.StoreRefreshTokenHash(9999, "abc"), "USER_NOT_FOUND")
	})
}

func TestListUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)
	_, err := svc.CreateUser("alice@example.com", "password123", "Alice")
	testutil.AssertNoError(t, err)
	_, err = svc.CreateUser("bob@example.com", "password123", "Bob")
	testutil.AssertNoError(t, err)

	t.Run("search_matches_name_or_email", func(t *testing.T) {
		page, err := svc.ListUsers(pagination.PageRequest{Page: 1, PageSize: 20}, "ALICE")
		testutil.AssertNoError(t, err)
		if len(page.Data) != 1 || page.Data[0].Name != "Alice" {
			t.Fatalf("expected only Alice by name, got %+v", page.Data)
		}

		page, err = svc.ListUsers(pagination.PageRequest{Page: 1, PageSize: 20}, "bob@")
		testutil.AssertNoError(t, err)
		if len(page.Data) != 1 || page.Data[0].Name != "Bob" {
			t.Fatalf("expected only Bob by email, got %+v", page.Data)
		}
	})

	t.Run("no_filter_lists_all", func(t *testing.T) {
		page, err := svc.ListUsers(pagination.PageRequest{Page: 1, PageSize: 20}, "")
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 users, got %d", page.TotalItems)
		}
	})
}

func TestUpdateUserRole(t *testing.T) {
	t.Run("promote_to_admin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		updated, err := svc.UpdateUserRole(user.ID, models.RoleAdmin)
		testutil.AssertNoError(t, err)
		if !updated.IsAdmin() {
			t.Error("expected user to be admin after promotion")
		}
	})

	t.Run("invalid_role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateUserRole(user.ID, models.Role("superuser"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("removes_user_and_zone_memberships", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		admin := testutil.CreateTestAdmin(t, db)
		user := testutil.CreateTestUser(t, db)
		zone := testutil.CreateTestZone(t, db, admin.ID)
		testutil.AssignUserToZone(t, db, user, zone)

		testutil.AssertNoError(t, svc.DeleteUser(user.ID))

		_, err := svc.GetUserByID(user.ID)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")

		var count int64
		testutil.AssertNoError(t, db.Table("user_zones").Where("user_id = ?", user.ID).Count(&count).Error)
		if count != 0 {
			t.Errorf("expected membership rows to be gone, found %d", count)
		}
	})

	t.Run("refused_while_expenses_reference_them", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		admin := testutil.CreateTestAdmin(t, db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db)
		zone := testutil.CreateTestZone(t, db, admin.ID)
		testutil.CreateTestExpense(t, db, user.ID, category.ID, zone.ID, "10", date("2025-02-01"))

		testutil.AssertAppError(t, svc.DeleteUser(user.ID), "USER_IN_USE")
	})
}
