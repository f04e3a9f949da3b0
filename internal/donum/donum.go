// Package donum assigns delivery order document numbers.
package donum

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"doform/internal/models"
)

// Scheme selects the numbering strategy.
type Scheme string

const (
	// SchemeGlobal numbers orders DO-0001, DO-0002, ... continuing from the
	// last persisted record regardless of date.
	SchemeGlobal Scheme = "global"
	// SchemePerDay numbers orders DO-YYYYMMDD-001, -002, ... restarting
	// each calendar day.
	SchemePerDay Scheme = "per-day"
)

// Valid reports whether s is a known scheme.
func (s Scheme) Valid() bool {
	return s == SchemeGlobal || s == SchemePerDay
}

// Next derives the next document number from the records persisted so far.
// existing must be the cumulative record list in append order; callers that
// fail to read the store pass nil and get the scheme's first identifier.
// The allocation is read-then-compute with no reservation; the submit
// handler serializes allocate+append under one lock.
func Next(existing []models.Record, scheme Scheme, today time.Time) string {
	if scheme == SchemePerDay {
		return nextPerDay(existing, today)
	}
	return nextGlobal(existing)
}

func nextGlobal(existing []models.Record) string {
	if len(existing) == 0 {
		return "DO-0001"
	}
	last := existing[len(existing)-1].DONumber
	parts := strings.Split(last, "-")
	if len(parts) < 2 {
		return "DO-0001"
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || n < 0 {
		return "DO-0001"
	}
	return fmt.Sprintf("DO-%04d", n+1)
}

func nextPerDay(existing []models.Record, today time.Time) string {
	// The per-day sequence counts persisted rows carrying today's prefix,
	// not distinct orders. A multi-row submission therefore advances the
	// sequence by its row count.
	prefix := "DO-" + today.Format("20060102")
	count := 0
	for _, rec := range existing {
		if strings.HasPrefix(rec.DONumber, prefix+"-") {
			count++
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, count+1)
}
