package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/stockmanager/internal/product"
	"github.com/fekuna/stockmanager/pkg/httpx"
	"github.com/fekuna/stockmanager/pkg/logger"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.DeleteProduct)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.uc.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err), zap.String("request_id", httpx.RequestIDFromContext(r.Context())))
		httpx.WriteJSONError(w, http.StatusInternalServerError, "failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.WriteJSONError(w, http.StatusNotFound, "not found")
		return
	}

	p, err := h.uc.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			httpx.WriteJSONError(w, http.StatusNotFound, "not found")
			return
		}
		h.logger.Error("failed to get product", zap.Error(err), zap.Int64("id", id))
		httpx.WriteJSONError(w, http.StatusInternalServerError, "failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.WriteJSONError(w, http.StatusNotFound, "not found")
		return
	}

	err := h.uc.DeleteProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			httpx.WriteJSONError(w, http.StatusNotFound, "not found")
			return
		}
		h.logger.Error("failed to delete product", zap.Error(err), zap.Int64("id", id))
		httpx.WriteJSONError(w, http.StatusInternalServerError, "failed")
		return
	}
	httpx.WriteOK(w)
}
