// Package dorec turns a submitted form into normalized delivery order records.
package dorec

import (
	"errors"
	"strings"
	"time"

	"doform/internal/models"
)

// QuantityMode selects how a row's quantity is obtained.
type QuantityMode string

const (
	// QuantityDirect uses the quantity the user typed.
	QuantityDirect QuantityMode = "direct"
	// QuantityDerived computes quantity as set_count * ctn_count for every
	// row before validation and filtering.
	QuantityDerived QuantityMode = "derived"
)

// Valid reports whether m is a known quantity mode.
func (m QuantityMode) Valid() bool {
	return m == QuantityDirect || m == QuantityDerived
}

// Rejection reasons, surfaced to the user as warnings. A rejected submission
// produces zero records and must not mutate the store.
var (
	ErrCustomerRequired = errors.New("customer name required")
	ErrItemRequired     = errors.New("at least one item required")
	ErrZeroQuantity     = errors.New("quantity must exceed zero")
)

// IsRejection reports whether err is a user-correctable validation rejection
// as opposed to an internal failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrCustomerRequired) ||
		errors.Is(err, ErrItemRequired) ||
		errors.Is(err, ErrZeroQuantity)
}

// Build validates a submission and produces one record per qualifying row.
// Rules are checked in order and the first failure wins. Rows qualify when
// their trimmed item is non-empty and quantity > 0; all other rows are
// dropped without error. Every produced record shares timestamp, doNumber,
// doDate and the customer name; LineNo keeps the row's 1-based position in
// the submitted table.
func Build(customer string, rows []models.ItemRow, doNumber, doDate string, now time.Time, mode QuantityMode) ([]models.Record, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return nil, ErrCustomerRequired
	}

	if mode == QuantityDerived {
		derived := make([]models.ItemRow, len(rows))
		copy(derived, rows)
		for i := range derived {
			derived[i].Quantity = derived[i].SetCount * derived[i].CtnCount
		}
		rows = derived
	}

	anyItem := false
	total := 0
	for _, row := range rows {
		if strings.TrimSpace(row.Item) != "" {
			anyItem = true
		}
		total += row.Quantity
	}
	if !anyItem {
		return nil, ErrItemRequired
	}
	if total <= 0 {
		return nil, ErrZeroQuantity
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	var records []models.Record
	for i, row := range rows {
		if strings.TrimSpace(row.Item) == "" || row.Quantity <= 0 {
			continue
		}
		records = append(records, models.Record{
			Timestamp:    timestamp,
			DONumber:     doNumber,
			DODate:       doDate,
			CustomerName: customer,
			LineNo:       i + 1,
			Item:         row.Item,
			MINumber:     row.MINumber,
			CPNumber:     row.CPNumber,
			SetCount:     row.SetCount,
			CtnCount:     row.CtnCount,
			Quantity:     row.Quantity,
		})
	}
	return records, nil
}

// Template returns a blank item table of the configured fixed size. The UI
// resets to this after each successful submission; the row count never grows
// or shrinks during editing.
func Template(rowCount int) []models.ItemRow {
	return make([]models.ItemRow, rowCount)
}
