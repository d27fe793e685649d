package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fekuna/stockmanager/internal/item"
	"github.com/fekuna/stockmanager/internal/item/dto"
	"github.com/fekuna/stockmanager/pkg/httpx"
	"github.com/fekuna/stockmanager/pkg/logger"
	"go.uber.org/zap"
)

type ItemHandler struct {
	uc     item.UseCase
	logger logger.ZapLogger
}

func NewItemHandler(uc item.UseCase, log logger.ZapLogger) *ItemHandler {
	return &ItemHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ItemHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/items", h.ListItems)
	mux.HandleFunc("POST /api/items", h.CreateItem)
	mux.HandleFunc("PUT /api/items/{id}", h.UpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", h.DeleteItem)
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.ListItems(r.Context())
	if err != nil {
		h.fail(w, r, "failed to list items", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	row, err := h.uc.CreateItem(r.Context(), input)
	if err != nil {
		if errors.Is(err, item.ErrNameRequired) {
			httpx.WriteJSONError(w, http.StatusBadRequest, "name required")
			return
		}
		h.fail(w, r, "failed to create item", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, row)
}

func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.WriteJSONError(w, http.StatusNotFound, "not found")
		return
	}
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	row, err := h.uc.UpdateItem(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			httpx.WriteJSONError(w, http.StatusNotFound, "not found")
			return
		}
		h.fail(w, r, "failed to update item", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, row)
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.WriteJSONError(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.uc.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, item.ErrNotFound) {
			httpx.WriteJSONError(w, http.StatusNotFound, "not found")
			return
		}
		h.fail(w, r, "failed to delete item", err)
		return
	}
	httpx.WriteOK(w)
}

func (h *ItemHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg, zap.Error(err), zap.String("request_id", httpx.RequestIDFromContext(r.Context())))
	httpx.WriteJSONError(w, http.StatusInternalServerError, "failed")
}

// decodeInput reads the JSON body; an empty body is an empty input.
func decodeInput(w http.ResponseWriter, r *http.Request) (*dto.ItemInput, bool) {
	var input dto.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		httpx.WriteJSONError(w, http.StatusBadRequest, "invalid body")
		return nil, false
	}
	return &input, true
}
