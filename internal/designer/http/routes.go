package http

import "github.com/go-chi/chi/v5"

// Routes mounts the designer session endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetWorkbook)
		r.Delete("/", h.CloseSession)
		r.Post("/drop", h.Drop)
		r.Post("/cells", h.SetCell)
		r.Post("/sheets", h.AddSheet)
		r.Put("/sheets/active", h.SelectSheet)
		r.Delete("/sheets/{index}", h.RemoveSheet)
		r.Delete("/rows/{index}", h.RemoveRow)
		r.Delete("/columns/{index}", h.RemoveColumn)
		r.Post("/load", h.LoadDocument)
		r.Get("/export.xlsx", h.ExportXLSX)
	})
}
