package services

import (
	"testing"

	"spenza/internal/models"
	"spenza/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	t.Run("records_entry_with_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewAuditService(db)

		svc.Log(1, "UPDATE_EXPENSE", "expense", 42, "10.0.0.1", map[string]any{"amount": "99.99"})

		var entry models.AuditLog
		testutil.AssertNoError(t, db.First(&entry).Error)
		if entry.Action != "UPDATE_EXPENSE" || entry.ResourceID != 42 {
			t.Errorf("unexpected entry %+v", entry)
		}
		if entry.Changes == "" {
			t.Error("expected serialized changes")
		}
	})

	t.Run("nil_changes_stored_empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewAuditService(db)

		svc.Log(1, "DELETE_EXPENSE", "expense", 42, "10.0.0.1", nil)

		var entry models.AuditLog
		testutil.AssertNoError(t, db.First(&entry).Error)
		if entry.Changes != "" {
			t.Errorf("expected empty changes, got %q", entry.Changes)
		}
	})
}
