package httphandler

import (
	"fmt"
	"net/http"
)

// ListCategories returns every category in persisted order.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.writeAppError(w, "list categories", err)
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponses(categories))
}

// ReplaceCategories overwrites the whole category list.
func (h *Handler) ReplaceCategories(w http.ResponseWriter, r *http.Request) {
	var req []CategoryJSON
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req == nil {
		writeError(w, http.StatusBadRequest, "expected a JSON array of categories")
		return
	}

	categories := fromCategoryRequests(req)
	if err := h.categories.ReplaceAll(r.Context(), categories); err != nil {
		h.writeAppError(w, "replace categories", err)
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponses(categories))
}

// AddCategory appends a single category.
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryJSON
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.categories.Add(r.Context(), req.toModel())
	if err != nil {
		h.writeAppError(w, "add category", err)
		return
	}

	writeJSON(w, http.StatusOK, toCategoryJSON(created))
}

// UpdateCategory replaces the category with the path id.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req CategoryJSON
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.categories.Update(r.Context(), id, req.toModel())
	if err != nil {
		h.writeAppError(w, "update category", err)
		return
	}

	writeJSON(w, http.StatusOK, toCategoryJSON(updated))
}

// DeleteCategory removes a category and moves its services to the default
// category.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := h.categories.Delete(r.Context(), id)
	if err != nil {
		h.writeAppError(w, "delete category", err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteCategoryResponse{
		Message:       fmt.Sprintf("Category deleted, %d services moved to default", result.MovedCount),
		MovedServices: result.MovedCount,
	})
}

// RepairCategories reassigns services with an empty or unknown category to
// the default category.
func (h *Handler) RepairCategories(w http.ResponseWriter, r *http.Request) {
	result, err := h.categories.Repair(r.Context())
	if err != nil {
		h.writeAppError(w, "repair categories", err)
		return
	}

	message := "No services with undefined categories"
	if result.FixedCount > 0 {
		message = fmt.Sprintf("Fixed %d services with undefined categories", result.FixedCount)
	}

	writeJSON(w, http.StatusOK, RepairResponse{
		Message:       message,
		FixedServices: result.FixedCount,
		Services:      result.Names,
	})
}
