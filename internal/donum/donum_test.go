package donum

import (
	"fmt"
	"testing"
	"time"

	"doform/internal/models"
)

func rec(doNumber string) models.Record {
	return models.Record{DONumber: doNumber, Item: "Widget", Quantity: 1}
}

func TestNextGlobalEmptyStore(t *testing.T) {
	got := Next(nil, SchemeGlobal, time.Now())
	if got != "DO-0001" {
		t.Errorf("expected DO-0001, got %s", got)
	}
}

func TestNextGlobalSequence(t *testing.T) {
	existing := []models.Record{rec("DO-0001"), rec("DO-0002"), rec("DO-0003")}
	got := Next(existing, SchemeGlobal, time.Now())
	if got != "DO-0004" {
		t.Errorf("expected DO-0004, got %s", got)
	}
}

func TestNextGlobalUsesLastRecord(t *testing.T) {
	// Only the last record matters, even if earlier numbers are higher.
	existing := []models.Record{rec("DO-0099"), rec("DO-0007")}
	got := Next(existing, SchemeGlobal, time.Now())
	if got != "DO-0008" {
		t.Errorf("expected DO-0008, got %s", got)
	}
}

func TestNextGlobalPadding(t *testing.T) {
	existing := []models.Record{rec("DO-9999")}
	got := Next(existing, SchemeGlobal, time.Now())
	if got != "DO-10000" {
		t.Errorf("expected DO-10000, got %s", got)
	}
}

func TestNextGlobalMalformedFallsBack(t *testing.T) {
	cases := []string{"garbage", "DO-", "DO-abc", ""}
	for _, last := range cases {
		got := Next([]models.Record{rec(last)}, SchemeGlobal, time.Now())
		if got != "DO-0001" {
			t.Errorf("last %q: expected DO-0001 fallback, got %s", last, got)
		}
	}
}

func TestNextPerDayEmptyStore(t *testing.T) {
	today := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	got := Next(nil, SchemePerDay, today)
	if got != "DO-20250101-001" {
		t.Errorf("expected DO-20250101-001, got %s", got)
	}
}

func TestNextPerDayCountsTodaysPrefix(t *testing.T) {
	today := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	existing := []models.Record{
		rec("DO-20250101-001"),
		rec("DO-20250101-002"),
		rec("DO-20250102-001"),
		rec("DO-20250102-002"),
	}
	got := Next(existing, SchemePerDay, today)
	if got != "DO-20250102-003" {
		t.Errorf("expected DO-20250102-003, got %s", got)
	}
}

func TestNextPerDayIgnoresOtherDays(t *testing.T) {
	today := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	var existing []models.Record
	for i := 1; i <= 9; i++ {
		existing = append(existing, rec(fmt.Sprintf("DO-20250614-%03d", i)))
	}
	got := Next(existing, SchemePerDay, today)
	if got != "DO-20250615-001" {
		t.Errorf("expected DO-20250615-001, got %s", got)
	}
}

func TestSchemeValid(t *testing.T) {
	if !SchemeGlobal.Valid() || !SchemePerDay.Valid() {
		t.Error("known schemes must be valid")
	}
	if Scheme("yearly").Valid() {
		t.Error("unknown scheme must be invalid")
	}
}
