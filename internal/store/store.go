// Package store persists delivery order records as per-day CSV partitions.
//
// Layout: <root>/<YYYY-MM-DD>/do_data.csv holds every record submitted on
// that day, in append order. The header row is written only when the file is
// created; appends never rewrite existing rows. Records are never updated or
// deleted. Rendered document artifacts live next to the CSV in the same day
// directory.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"doform/internal/models"
)

// DataFile is the per-day record file name.
const DataFile = "do_data.csv"

// Header is the canonical column order of the record file.
var Header = []string{
	"Timestamp", "DO Number", "DO Date", "Customer Name", "No.",
	"Item", "MI Number", "C/P No.", "Set", "Ctn", "Quantity",
}

// Store is a file-backed append-only record store rooted at a directory.
type Store struct {
	Root string
}

// New returns a Store rooted at root. The directory is created lazily on
// first append.
func New(root string) *Store {
	return &Store{Root: root}
}

// DayDir returns the partition directory for a calendar day (YYYY-MM-DD).
func (s *Store) DayDir(day string) string {
	return filepath.Join(s.Root, day)
}

// dataPath returns the record file path for a day.
func (s *Store) dataPath(day string) string {
	return filepath.Join(s.DayDir(day), DataFile)
}

// Append appends records to the given day's partition, creating the
// directory and writing the header row if the file does not exist yet.
// A write error here is fatal to the submission; no record may be lost
// silently.
func (s *Store) Append(day string, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := os.MkdirAll(s.DayDir(day), 0o755); err != nil {
		return fmt.Errorf("create day partition: %w", err)
	}

	path := s.dataPath(day)
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open record file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, rec := range records {
		if err := w.Write(recordToRow(rec)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}
	return f.Sync()
}

// ReadDay returns the given day's records in file order. A missing
// partition reads as empty without error; a corrupt file returns an error
// the caller may degrade to "no records".
func (s *Store) ReadDay(day string) ([]models.Record, error) {
	f, err := os.Open(s.dataPath(day))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open record file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read record file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []models.Record
	for _, row := range rows[1:] { // skip header
		rec, err := rowToRecord(row)
		if err != nil {
			return nil, fmt.Errorf("day %s: %w", day, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadAll returns every record across all day partitions, days in
// ascending date order and records in file order within a day. This is the
// cumulative view the global numbering scheme consumes.
func (s *Store) ReadAll() ([]models.Record, error) {
	entries, err := os.ReadDir(s.Root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store root: %w", err)
	}

	var days []string
	for _, e := range entries {
		if e.IsDir() {
			days = append(days, e.Name())
		}
	}
	sort.Strings(days) // YYYY-MM-DD sorts chronologically

	var all []models.Record
	for _, day := range days {
		records, err := s.ReadDay(day)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

func recordToRow(rec models.Record) []string {
	return []string{
		rec.Timestamp,
		rec.DONumber,
		rec.DODate,
		rec.CustomerName,
		strconv.Itoa(rec.LineNo),
		rec.Item,
		rec.MINumber,
		rec.CPNumber,
		strconv.Itoa(rec.SetCount),
		strconv.Itoa(rec.CtnCount),
		strconv.Itoa(rec.Quantity),
	}
}

func rowToRecord(row []string) (models.Record, error) {
	if len(row) != len(Header) {
		return models.Record{}, fmt.Errorf("malformed row: %d columns", len(row))
	}
	lineNo, err := strconv.Atoi(row[4])
	if err != nil {
		return models.Record{}, fmt.Errorf("malformed line number %q", row[4])
	}
	set, err := strconv.Atoi(row[8])
	if err != nil {
		return models.Record{}, fmt.Errorf("malformed set count %q", row[8])
	}
	ctn, err := strconv.Atoi(row[9])
	if err != nil {
		return models.Record{}, fmt.Errorf("malformed ctn count %q", row[9])
	}
	qty, err := strconv.Atoi(row[10])
	if err != nil {
		return models.Record{}, fmt.Errorf("malformed quantity %q", row[10])
	}
	return models.Record{
		Timestamp:    row[0],
		DONumber:     row[1],
		DODate:       row[2],
		CustomerName: row[3],
		LineNo:       lineNo,
		Item:         row[5],
		MINumber:     row[6],
		CPNumber:     row[7],
		SetCount:     set,
		CtnCount:     ctn,
		Quantity:     qty,
	}, nil
}
