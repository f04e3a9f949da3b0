// Package do implements the delivery order HTTP handlers.
package do

import (
	"sync"

	"doform/internal/config"
	"doform/internal/render"
	"doform/internal/store"
	"doform/internal/websocket"
)

// Handler holds dependencies for the delivery order endpoints.
type Handler struct {
	Store    *store.Store
	Renderer render.Renderer
	Hub      *websocket.Hub
	Cfg      *config.Config

	// submitMu serializes read+allocate+append so concurrent submissions
	// cannot collide on the same document number.
	submitMu sync.Mutex
}

// New returns a Handler.
func New(st *store.Store, rd render.Renderer, hub *websocket.Hub, cfg *config.Config) *Handler {
	return &Handler{Store: st, Renderer: rd, Hub: hub, Cfg: cfg}
}
