package httphandler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// StorefrontHandler serves the shopper and admin surface on top of the
// local catalog and the commerce session.
type StorefrontHandler struct {
	catalog  port.CatalogReader
	session  port.CommerceSession
	payments port.PaymentInitiator
	admin    port.CatalogAdmin
}

func RegisterStorefront(
	mux *http.ServeMux,
	catalog port.CatalogReader,
	session port.CommerceSession,
	payments port.PaymentInitiator,
	admin port.CatalogAdmin,
) {
	h := StorefrontHandler{catalog, session, payments, admin}
	mux.HandleFunc("GET /v1/products", h.ListProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)

	mux.HandleFunc("GET /v1/commerce/context", h.GetContext)
	mux.HandleFunc("PUT /v1/commerce/currency", h.SetCurrency)
	mux.HandleFunc("PUT /v1/commerce/country", h.SetCountry)
	mux.HandleFunc("GET /v1/commerce/shipping", h.GetShipping)
	mux.HandleFunc("GET /v1/commerce/payment-methods", h.GetPaymentMethods)

	mux.HandleFunc("POST /v1/checkout/payments", h.InitiatePayment)

	mux.HandleFunc("POST /v1/admin/products", h.CreateProduct)
	mux.HandleFunc("PUT /v1/admin/products/{id}", h.UpdateProduct)
	mux.HandleFunc("DELETE /v1/admin/products/{id}", h.DeleteProduct)
	mux.HandleFunc("PUT /v1/admin/products/{id}/stock", h.UpdateStock)
	mux.HandleFunc("POST /v1/admin/catalog/reset", h.ResetCatalog)
	mux.HandleFunc("POST /v1/admin/catalog/sync", h.SyncCatalog)
}

func (h StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.ListProducts"
	log := slog.With("op", op)

	q, err := parseProductQuery(r)
	if err != nil {
		writeErr(w, log, err)
		return
	}

	ps := h.catalog.Query(q)
	if sub := r.URL.Query().Get("subcategory"); sub != "" {
		filtered := ps[:0]
		for _, p := range ps {
			if p.Subcategory == sub {
				filtered = append(filtered, p)
			}
		}
		ps = filtered
	}

	out := make([]StorefrontProduct, len(ps))
	for i, p := range ps {
		out[i] = h.withPrice(p)
	}
	writeData(w, http.StatusOK, out)
}

func (h StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetProduct"
	log := slog.With("op", op)

	id := r.PathValue("id")
	p, ok := h.catalog.ByID(id)
	if !ok {
		log.Warn("product not found", "id", id)
		writeJSON(w, http.StatusNotFound, Response{Error: "product not found"})
		return
	}
	writeData(w, http.StatusOK, h.withPrice(p))
}

func (h StorefrontHandler) withPrice(p domain.Product) StorefrontProduct {
	return StorefrontProduct{Product: p, DisplayPrice: h.session.Price(p.BasePrice)}
}

func (h StorefrontHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.commerceContext())
}

func (h StorefrontHandler) commerceContext() CommerceContext {
	c := h.session.Currency()
	return CommerceContext{
		CommerceContext: h.session.Context(),
		Symbol:          c.Symbol,
		Flag:            c.Flag,
		Shipping:        h.session.ShippingInfo(),
		PaymentMethods:  h.session.PaymentMethods(),
		CODEligible:     h.session.CODEligible(),
	}
}

func (h StorefrontHandler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.SetCurrency"
	log := slog.With("op", op)

	var req CurrencyRequest
	if err := decodeBody(w, r, &req); err != nil {
		badJSON(w, log, err)
		return
	}

	if err := h.session.SetCurrency(r.Context(), req.Code); err != nil {
		writeErr(w, log, err)
		return
	}
	writeData(w, http.StatusOK, h.commerceContext())
}

func (h StorefrontHandler) SetCountry(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.SetCountry"
	log := slog.With("op", op)

	var req CountryRequest
	if err := decodeBody(w, r, &req); err != nil {
		badJSON(w, log, err)
		return
	}
	if strings.TrimSpace(req.Country) == "" {
		writeJSON(w, http.StatusBadRequest, Response{Error: "country is empty"})
		return
	}

	h.session.SetCountry(req.Country)
	writeData(w, http.StatusOK, h.commerceContext())
}

// GetShipping quotes orderValue, given in the country's currency, for an
// item with baseDays of handling.
func (h StorefrontHandler) GetShipping(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetShipping"
	log := slog.With("op", op)

	orderValue, err := parseFloatParam(r, "orderValue")
	if err != nil {
		writeErr(w, log, err)
		return
	}
	baseDays, err := parseIntParam(r, "baseDays")
	if err != nil {
		writeErr(w, log, err)
		return
	}

	info := h.session.ShippingInfo()
	writeData(w, http.StatusOK, ShippingQuote{
		ShippingQuote: h.session.ShippingCost(orderValue, baseDays),
		Currency:      h.session.Context().Currency,
		DeliveryTime:  info.DeliveryTime,
	})
}

func (h StorefrontHandler) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.session.PaymentMethods())
}

func (h StorefrontHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.InitiatePayment"
	log := slog.With("op", op)

	var req domain.PaymentRequest
	if err := decodeBody(w, r, &req); err != nil {
		badJSON(w, log, err)
		return
	}

	intent, err := h.payments.Initiate(r.Context(), req)
	if err != nil {
		writeErr(w, log, err)
		return
	}
	writeData(w, http.StatusCreated, intent)
}

func (h StorefrontHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.CreateProduct"
	log := slog.With("op", op)

	var p domain.Product
	if err := decodeBody(w, r, &p); err != nil {
		badJSON(w, log, err)
		return
	}

	created, err := h.admin.Create(r.Context(), p)
	if err != nil {
		writeErr(w, log, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (h StorefrontHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.UpdateProduct"
	log := slog.With("op", op)

	var patch domain.ProductPatch
	if err := decodeBody(w, r, &patch); err != nil {
		badJSON(w, log, err)
		return
	}

	updated, err := h.admin.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeErr(w, log, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h StorefrontHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.DeleteProduct"
	log := slog.With("op", op)

	if err := h.admin.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeErr(w, log, err)
		return
	}
	writeMessage(w, http.StatusOK, "deleted")
}

func (h StorefrontHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.UpdateStock"
	log := slog.With("op", op)

	var su domain.StockUpdate
	if err := decodeBody(w, r, &su); err != nil {
		badJSON(w, log, err)
		return
	}

	if err := h.admin.UpdateStock(r.Context(), r.PathValue("id"), su); err != nil {
		writeErr(w, log, err)
		return
	}
	writeMessage(w, http.StatusOK, "stock updated")
}

func (h StorefrontHandler) ResetCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.ResetCatalog"
	log := slog.With("op", op)

	if err := h.admin.Reset(r.Context()); err != nil {
		writeErr(w, log, err)
		return
	}
	log.Info("catalog reset to defaults")
	writeMessage(w, http.StatusOK, "catalog reset")
}

func (h StorefrontHandler) SyncCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.SyncCatalog"
	log := slog.With("op", op)

	n, err := h.admin.Sync(r.Context())
	if err != nil {
		writeErr(w, log, err)
		return
	}
	log.Info("catalog synced", "products", n)
	writeData(w, http.StatusOK, SyncResult{Synced: n})
}
