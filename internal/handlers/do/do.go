package do

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"doform/internal/donum"
	"doform/internal/dorec"
	"doform/internal/models"
	"doform/internal/response"
	"doform/internal/store"
	"doform/internal/websocket"
)

// Submit processes one form submission: allocate the next document number,
// build the normalized records, append them to the day's partition, then
// render the document artifact. Allocation and append run as one critical
// section; rendering runs after the append succeeded and its failure only
// produces a warning.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "Invalid request body", 400)
		return
	}

	now := time.Now()
	day := now.Format("2006-01-02")

	doDate := strings.TrimSpace(req.DODate)
	if doDate == "" {
		doDate = day
	} else if _, err := time.Parse("2006-01-02", doDate); err != nil {
		response.Err(w, "do_date must be a valid date (YYYY-MM-DD)", 400)
		return
	}

	h.submitMu.Lock()
	existing, err := h.Store.ReadAll()
	if err != nil {
		// Unreadable store degrades to start-of-sequence allocation.
		log.Printf("do: allocation read degraded to empty: %v", err)
		existing = nil
	}
	number := donum.Next(existing, h.Cfg.Scheme, now)

	records, err := dorec.Build(req.CustomerName, req.Items, number, doDate, now, h.Cfg.QuantityMode)
	if err != nil {
		h.submitMu.Unlock()
		response.Err(w, err.Error(), 400)
		return
	}

	if err := h.Store.Append(day, records); err != nil {
		h.submitMu.Unlock()
		log.Printf("do: append failed: %v", err)
		response.Err(w, "Failed to persist records", 500)
		return
	}
	h.submitMu.Unlock()

	warning := ""
	if _, err := h.Renderer.Render(day, records); err != nil {
		// Records are already durable; the lost artifact is a warning, not
		// a failed submission.
		log.Printf("do: document render failed for %s: %v", number, err)
		warning = "document render failed: " + err.Error()
	}

	if h.Hub != nil {
		h.Hub.Broadcast(websocket.Event{Type: "do_created", DONumber: number})
	}

	result := models.SubmitResult{DONumber: number, DODate: doDate, Records: records}
	if warning != "" {
		response.JSONWarn(w, result, warning)
		return
	}
	response.JSON(w, result)
}

// List returns submitted records for scope=today (default) or scope=all.
// Read errors degrade to an empty list; the display never fails the page.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "today"
	}
	if scope != "today" && scope != "all" {
		response.Err(w, "scope must be today or all", 400)
		return
	}

	records, err := h.readScope(scope)
	if err != nil {
		log.Printf("do: list read degraded to empty: %v", err)
		records = nil
	}
	if records == nil {
		records = []models.Record{}
	}
	response.JSONMeta(w, records, len(records))
}

func (h *Handler) readScope(scope string) ([]models.Record, error) {
	switch scope {
	case "today":
		return h.Store.ReadDay(time.Now().Format("2006-01-02"))
	case "all":
		return h.Store.ReadAll()
	default:
		return nil, os.ErrInvalid
	}
}

// NextNumber returns the number the next submission would receive, for the
// read-only prefill field. It reserves nothing.
func (h *Handler) NextNumber(w http.ResponseWriter, r *http.Request) {
	existing, err := h.Store.ReadAll()
	if err != nil {
		log.Printf("do: next-number read degraded to empty: %v", err)
		existing = nil
	}
	number := donum.Next(existing, h.Cfg.Scheme, time.Now())
	response.JSON(w, map[string]string{"do_number": number})
}

// Template returns the blank fixed-size item table plus the form settings
// the UI needs to build the editable grid.
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, map[string]interface{}{
		"do_date":       time.Now().Format("2006-01-02"),
		"row_count":     h.Cfg.RowCount,
		"quantity_mode": h.Cfg.QuantityMode,
		"items":         dorec.Template(h.Cfg.RowCount),
	})
}

// Document serves the rendered artifact for a document number, searching
// the day partitions for <do_number>.xlsx.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request, doNumber string) {
	if strings.ContainsAny(doNumber, "/\\") || doNumber == "" {
		response.Err(w, "Invalid document number", 400)
		return
	}

	entries, err := os.ReadDir(h.Store.Root)
	if err != nil {
		response.Err(w, "Document not found", 404)
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(h.Store.Root, e.Name(), doNumber+".xlsx")
		if _, err := os.Stat(path); err == nil {
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Header().Set("Content-Disposition", "attachment; filename="+doNumber+".xlsx")
			http.ServeFile(w, r, path)
			return
		}
	}
	response.Err(w, "Document not found", 404)
}

// Config exposes the form configuration to the UI.
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, map[string]interface{}{
		"row_count":        h.Cfg.RowCount,
		"numbering_scheme": h.Cfg.Scheme,
		"quantity_mode":    h.Cfg.QuantityMode,
		"renderer":         h.Cfg.Renderer,
		"columns":          store.Header,
	})
}
