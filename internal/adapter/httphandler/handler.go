package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
)

const maxBodyBytes = 1 << 20

var errBadQuery = errors.New("invalid query parameter")

// statusCoder is implemented by errors of upstream HTTP calls.
type statusCoder interface {
	StatusCode() int
}

func statusFor(err error) int {
	var sc statusCoder
	switch {
	case errors.Is(err, port.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, port.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, service.ErrUnknownCurrency),
		errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, service.ErrPaymentMethodBlocked),
		errors.Is(err, errBadQuery):
		return http.StatusBadRequest
	case errors.As(err, &sc):
		if s := sc.StatusCode(); s >= 400 && s < 500 {
			return s
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to write response body", "err", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{Success: true, Message: msg})
}

// writeErr logs server side failures and hides their details from the
// caller.
func writeErr(w http.ResponseWriter, log *slog.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "err", err)
		msg = http.StatusText(status)
	} else {
		log.Warn("request rejected", "status", status, "err", err)
	}
	writeJSON(w, status, Response{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

func badJSON(w http.ResponseWriter, log *slog.Logger, err error) {
	log.Warn("failed to parse JSON", "err", err)
	writeJSON(w, http.StatusBadRequest, Response{Error: "invalid JSON data"})
}

// parseProductQuery reads category, search, trending and limit.
func parseProductQuery(r *http.Request) (domain.ProductQuery, error) {
	values := r.URL.Query()
	q := domain.ProductQuery{
		Category: domain.Category(values.Get("category")),
		Search:   strings.TrimSpace(values.Get("search")),
	}

	if v := values.Get("trending"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return q, errors.Join(errBadQuery, err)
		}
		q.Trending = b
	}

	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return q, errors.Join(errBadQuery, errors.New("limit must be a non-negative integer"))
		}
		q.Limit = n
	}
	return q, nil
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Join(errBadQuery, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Join(errBadQuery, errors.New(name+" must be finite"))
	}
	return f, nil
}

func parseIntParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Join(errBadQuery, err)
	}
	return n, nil
}
