package services

import (
	"testing"

	"spenza/internal/pagination"
	"spenza/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)

		category, err := svc.CreateCategory("Travel", "flights and hotels")
		testutil.AssertNoError(t, err)
		if category.ID == 0 || category.Name != "Travel" {
			t.Errorf("unexpected category %+v", category)
		}
	})

	t.Run("blank_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("   ", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("Travel", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory("Travel", "again")
		testutil.AssertAppError(t, err, "DUPLICATE_NAME")
	})
}

func TestListCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCategoryService(db)
	for _, name := range []string{"Travel", "Meals", "Office Supplies"} {
		_, err := svc.CreateCategory(name, "")
		testutil.AssertNoError(t, err)
	}

	t.Run("sorted_by_name", func(t *testing.T) {
		page, err := svc.ListCategories(pagination.PageRequest{Page: 1, PageSize: 20}, "")
		testutil.AssertNoError(t, err)
		if len(page.Data) != 3 || page.Data[0].Name != "Meals" {
			t.Errorf("unexpected listing %+v", page.Data)
		}
	})

	t.Run("search_is_case_insensitive", func(t *testing.T) {
		page, err := svc.ListCategories(pagination.PageRequest{Page: 1, PageSize: 20}, "TRAV")
		testutil.AssertNoError(t, err)
		if len(page.Data) != 1 || page.Data[0].Name != "Travel" {
			t.Errorf("unexpected search result %+v", page.Data)
		}
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)
		created, err := svc.CreateCategory("Travel", "")
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateCategory(created.ID, "Business Travel", "trips")
		testutil.AssertNoError(t, err)
		if updated.Name != "Business Travel" || updated.Description != "trips" {
			t.Errorf("unexpected category %+v", updated)
		}
	})

	t.Run("rename_onto_existing_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)
		_, err := svc.CreateCategory("Travel", "")
		testutil.AssertNoError(t, err)
		meals, err := svc.CreateCategory("Meals", "")
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateCategory(meals.ID, "Travel", "")
		testutil.AssertAppError(t, err, "DUPLICATE_NAME")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)

		_, err := svc.UpdateCategory(9999, "Travel", "")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)
		created, err := svc.CreateCategory("Travel", "")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteCategory(created.ID))

		_, err = svc.GetCategoryByID(created.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("refused_while_expenses_reference_it", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewCategoryService(db)
		admin := testutil.CreateTestAdmin(t, db)
		category := testutil.CreateTestCategory(t, db)
		zone := testutil.CreateTestZone(t, db, admin.ID)
		testutil.CreateTestExpense(t, db, admin.ID, category.ID, zone.ID, "10", date("2025-02-01"))

		testutil.AssertAppError(t, svc.DeleteCategory(category.ID), "CATEGORY_IN_USE")
	})
}
