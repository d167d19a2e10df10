package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/tierlist/internal/auth"
	"github.com/sakif/tierlist/internal/model"
	"github.com/sakif/tierlist/internal/service"
)

// TierListHandler serves the authenticated user's tier list. Both
// endpoints address "the" tier list of the caller — the one created at
// registration — so neither takes an id.
type TierListHandler struct {
	tierLists *service.TierListService
	logger    *slog.Logger
}

func NewTierListHandler(tierLists *service.TierListService, logger *slog.Logger) *TierListHandler {
	return &TierListHandler{tierLists: tierLists, logger: logger}
}

type tierListResponse struct {
	TierList tierListBody `json:"tier_list"`
}

type tierListBody struct {
	Name       string         `json:"name"`
	Categories []categoryBody `json:"categories"`
}

type categoryBody struct {
	Name     string          `json:"name"`
	Elements []model.Element `json:"elements"`
}

// HandleGet returns the caller's tier list with resolved elements.
//
// HTTP: GET /tier-list (auth required)
// 200: {"tier_list": {"name": "...", "categories": [{"name": "...",
//
//	"elements": [{"id": "...", "name": "...", "calories": 0}]}]}}
func (h *TierListHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't trust that silently.
		writeJSON(w, http.StatusForbidden, ErrorResponse{
			Error: "forbidden", Message: "authentication required",
		})
		return
	}

	view, err := h.tierLists.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	body := tierListBody{
		Name:       view.Name,
		Categories: make([]categoryBody, 0, len(view.Categories)),
	}
	for _, cat := range view.Categories {
		body.Categories = append(body.Categories, categoryBody{
			Name:     cat.Name,
			Elements: cat.Elements,
		})
	}

	writeJSON(w, http.StatusOK, tierListResponse{TierList: body})
}

type updateTierListRequest struct {
	UpdateTierList updateTierListBody `json:"update_tier_list"`
}

type updateTierListBody struct {
	Name       string               `json:"name"`
	Categories []updateCategoryBody `json:"categories"`
}

type updateCategoryBody struct {
	Name       string   `json:"name"`
	ElementIDs []string `json:"element_ids"`
}

// HandleUpdate fully replaces the caller's tier list.
//
// HTTP: PUT /tier-list (auth required)
// Body: {"update_tier_list": {"name": "...", "categories":
//
//	[{"name": "...", "element_ids": ["..."]}]}}
//
// 204 on success; 409 if an element id does not exist in the catalog.
func (h *TierListHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusForbidden, ErrorResponse{
			Error: "forbidden", Message: "authentication required",
		})
		return
	}

	var req updateTierListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid tier list JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "validation_error", Message: "invalid JSON body",
		})
		return
	}

	categories := make([]model.Category, 0, len(req.UpdateTierList.Categories))
	for _, cat := range req.UpdateTierList.Categories {
		elementIDs := cat.ElementIDs
		if elementIDs == nil {
			elementIDs = []string{}
		}
		categories = append(categories, model.Category{
			Name:       cat.Name,
			ElementIDs: elementIDs,
		})
	}

	if err := h.tierLists.Update(r.Context(), userID, req.UpdateTierList.Name, categories); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
