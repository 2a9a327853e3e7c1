package http

import (
	"net/http"

	httpmiddleware "github.com/gestaozabele/sst/internal/http/middleware"
)

// Dashboard exibe os agregados da pesquisa e da ouvidoria.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard.Build(r.Context(), httpmiddleware.GetSessionContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "dashboard", "Painel", d)
}

// Guia exibe o guia de SST.
func (h *Handler) Guia(w http.ResponseWriter, r *http.Request) {
	if _, err := httpmiddleware.GetSessionContext(r.Context()).RequireAdmin(); err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "guia", "Guia de SST", h.guide)
}
