package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// ProductsHandler serves the backend catalog API.
type ProductsHandler struct {
	service port.ProductsService
}

func RegisterProducts(mux *http.ServeMux, service port.ProductsService) {
	h := ProductsHandler{service}
	mux.HandleFunc("GET /products", h.ListProducts)
	mux.HandleFunc("POST /products", h.CreateProduct)
	mux.HandleFunc("GET /products/{id}", h.GetProduct)
	mux.HandleFunc("PUT /products/{id}", h.UpdateProduct)
	mux.HandleFunc("DELETE /products/{id}", h.DeleteProduct)
	mux.HandleFunc("PUT /products/{id}/stock", h.UpdateStock)
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListProducts"
	log := slog.With("op", op)

	q, err := parseProductQuery(r)
	if err != nil {
		writeErr(w, log, err)
		return
	}

	ps, err := h.service.ListProducts(r.Context(), q)
	if err != nil {
		writeErr(w, log, err)
		return
	}
	writeData(w, http.StatusOK, ps)
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	log := slog.With("op", op)

	p, err := h.service.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, log, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h ProductsHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.CreateProduct"
	log := slog.With("op", op)

	var p domain.Product
	if err := decodeBody(w, r, &p); err != nil {
		badJSON(w, log, err)
		return
	}

	created, err := h.service.CreateProduct(r.Context(), p)
	if err != nil {
		writeErr(w, log, err)
		return
	}

	log.Info("product created", "id", created.ID)
	writeData(w, http.StatusCreated, created)
}

func (h ProductsHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.UpdateProduct"
	log := slog.With("op", op)

	var patch domain.ProductPatch
	if err := decodeBody(w, r, &patch); err != nil {
		badJSON(w, log, err)
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeErr(w, log, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.DeleteProduct"
	log := slog.With("op", op)

	id := r.PathValue("id")
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		writeErr(w, log, err)
		return
	}

	log.Info("product deleted", "id", id)
	writeMessage(w, http.StatusOK, "deleted")
}

func (h ProductsHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.UpdateStock"
	log := slog.With("op", op)

	var su domain.StockUpdate
	if err := decodeBody(w, r, &su); err != nil {
		badJSON(w, log, err)
		return
	}

	if err := h.service.UpdateStock(r.Context(), r.PathValue("id"), su); err != nil {
		writeErr(w, log, err)
		return
	}
	writeMessage(w, http.StatusOK, "stock updated")
}
