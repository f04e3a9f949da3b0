// Package admin implements the login boundary endpoints.
package admin

import "database/sql"

// Handler holds dependencies for the auth endpoints.
type Handler struct {
	DB *sql.DB
}

// New returns a Handler.
func New(db *sql.DB) *Handler {
	return &Handler{DB: db}
}
