package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/tierlist/internal/model"
	"github.com/sakif/tierlist/internal/service"
)

// ElementHandler serves the shared element catalog.
type ElementHandler struct {
	elements *service.ElementService
	logger   *slog.Logger
}

func NewElementHandler(elements *service.ElementService, logger *slog.Logger) *ElementHandler {
	return &ElementHandler{elements: elements, logger: logger}
}

type elementsResponse struct {
	Elements []model.Element `json:"elements"`
}

// HandleList returns every catalog element.
//
// HTTP: GET /elements (auth required)
// 200:  {"elements": [{"id": "...", "name": "Apple", "calories": 52}]}
func (h *ElementHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	elements, err := h.elements.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, elementsResponse{Elements: elements})
}

type createElementRequest struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// HandleCreate adds a catalog element.
//
// HTTP: POST /elements (auth required)
// Body: {"name": "Apple", "calories": 52}
// 201 with the created element.
func (h *ElementHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid element JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "validation_error", Message: "invalid JSON body",
		})
		return
	}

	element, err := h.elements.Create(r.Context(), req.Name, req.Calories)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, element)
}
