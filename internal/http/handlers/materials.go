package handlers

import (
	"net/http"

	"server/internal/middleware"
)

type materialResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MaterialsList serves the catalog with names localized to the request
// locale. The catalog itself is maintained elsewhere; this is read-only.
func (a *App) MaterialsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Materials.List(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	out := make([]materialResponse, 0, len(items))
	for _, m := range items {
		out = append(out, materialResponse{
			ID:          m.ID,
			Name:        m.Name(locale),
			Description: m.Description(locale),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}
