package models

import (
	"testing"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestRecordIDString(t *testing.T) {
	id := surrealmodels.RecordID{Table: "content_operations", ID: "abc123"}

	s, err := RecordIDString(id)
	if err != nil {
		t.Fatalf("RecordIDString failed: %v", err)
	}
	if s != "abc123" {
		t.Errorf("RecordIDString = %q, want abc123", s)
	}
}

func TestRecordIDStringNonString(t *testing.T) {
	id := surrealmodels.RecordID{Table: "content_operations", ID: 42}

	if _, err := RecordIDString(id); err == nil {
		t.Fatal("expected error for non-string record id")
	}
}

func TestMustRecordIDStringPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-string record id")
		}
	}()

	MustRecordIDString(surrealmodels.RecordID{Table: "content_operations", ID: 42})
}
