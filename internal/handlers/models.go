package handlers

import (
	"GophChat/internal/catalog"
	"net/http"
)

type ModelHandler struct {
	Catalog *catalog.Catalog
}

func NewModelHandler(c *catalog.Catalog) *ModelHandler {
	return &ModelHandler{Catalog: c}
}

// List отдаёт каталог моделей, авторизация не нужна.
func (h *ModelHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.List())
}
