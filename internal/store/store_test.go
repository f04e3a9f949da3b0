package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"doform/internal/models"
)

func testRecord(doNumber string, lineNo int) models.Record {
	return models.Record{
		Timestamp:    "2025-03-10 14:30:05",
		DONumber:     doNumber,
		DODate:       "2025-03-10",
		CustomerName: "Acme",
		LineNo:       lineNo,
		Item:         "Widget",
		MINumber:     "MI-1",
		CPNumber:     "CP-1",
		SetCount:     2,
		CtnCount:     3,
		Quantity:     6,
	}
}

func TestAppendCreatesFileWithHeader(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Append("2025-03-10", []models.Record{testRecord("DO-0001", 1)}); err != nil {
		t.Fatalf("append: %v", err)
	}

	f, err := os.Open(filepath.Join(s.Root, "2025-03-10", DataFile))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if !reflect.DeepEqual(rows[0], Header) {
		t.Errorf("wrong header: %v", rows[0])
	}
}

func TestAppendDoesNotRepeatHeader(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Append("2025-03-10", []models.Record{testRecord("DO-0001", 1)}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append("2025-03-10", []models.Record{testRecord("DO-0002", 1)}); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := s.ReadDay("2025-03-10")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].DONumber != "DO-0001" || records[1].DONumber != "DO-0002" {
		t.Errorf("append order lost: %s, %s", records[0].DONumber, records[1].DONumber)
	}
}

func TestRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	want := []models.Record{
		testRecord("DO-0001", 1),
		testRecord("DO-0001", 2),
		testRecord("DO-0002", 1),
	}
	if err := s.Append("2025-03-10", want); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.ReadAll()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestReadDayMissingIsEmpty(t *testing.T) {
	s := New(t.TempDir())
	records, err := s.ReadDay("2025-01-01")
	if err != nil {
		t.Fatalf("missing partition must not error: %v", err)
	}
	if records != nil {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestReadAllMissingRootIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist"))
	records, err := s.ReadAll()
	if err != nil {
		t.Fatalf("missing root must not error: %v", err)
	}
	if records != nil {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestReadAllOrdersDaysChronologically(t *testing.T) {
	s := New(t.TempDir())
	// Append out of calendar order.
	if err := s.Append("2025-03-11", []models.Record{testRecord("DO-0002", 1)}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append("2025-03-10", []models.Record{testRecord("DO-0001", 1)}); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := s.ReadAll()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].DONumber != "DO-0001" || records[1].DONumber != "DO-0002" {
		t.Errorf("expected chronological day order, got %s then %s",
			records[0].DONumber, records[1].DONumber)
	}
}

func TestReadDayCorruptFile(t *testing.T) {
	s := New(t.TempDir())
	dir := s.DayDir("2025-03-10")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	bad := "Timestamp,DO Number\nnot,enough,columns,here\n"
	if err := os.WriteFile(filepath.Join(dir, DataFile), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.ReadDay("2025-03-10"); err == nil {
		t.Error("corrupt file must return an error for the caller to degrade")
	}
}

func TestAppendNothingIsNoop(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Append("2025-03-10", nil); err != nil {
		t.Fatalf("empty append: %v", err)
	}
	if _, err := os.Stat(s.DayDir("2025-03-10")); !os.IsNotExist(err) {
		t.Error("empty append must not create a partition")
	}
}

func TestFieldsWithCommasSurvive(t *testing.T) {
	s := New(t.TempDir())
	rec := testRecord("DO-0001", 1)
	rec.CustomerName = `Acme, Inc. "HQ"`
	rec.Item = "Widget, large"
	if err := s.Append("2025-03-10", []models.Record{rec}); err != nil {
		t.Fatalf("append: %v", err)
	}
	records, err := s.ReadDay("2025-03-10")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if records[0].CustomerName != rec.CustomerName || records[0].Item != rec.Item {
		t.Errorf("quoting lost: %+v", records[0])
	}
}
