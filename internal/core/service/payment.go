package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var (
	ErrInvalidPayment       = errors.New("invalid payment request")
	ErrPaymentMethodBlocked = errors.New("payment method not available")
)

var _ port.PaymentInitiator = (*Payments)(nil)

// Payments starts payments for the session's country. It only issues
// references; no provider is contacted.
type Payments struct {
	session port.CommerceSession
	newID   func() string
}

func NewPayments(session port.CommerceSession) Payments {
	return Payments{session: session, newID: uuid.NewString}
}

func (p Payments) Initiate(
	ctx context.Context, req domain.PaymentRequest,
) (domain.PaymentIntent, error) {
	const op = "Payments.Initiate"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("%s: %w", op, err)
	}

	if req.Amount <= 0 {
		return domain.PaymentIntent{}, fmt.Errorf(
			"%s: %w: amount must be positive", op, ErrInvalidPayment,
		)
	}

	cc := p.session.Context()
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = cc.Currency
	}

	offered := slices.ContainsFunc(
		p.session.PaymentMethods(),
		func(m domain.PaymentMethod) bool { return m.ID == req.Method },
	)
	if !offered {
		return domain.PaymentIntent{}, fmt.Errorf(
			"%s: %q in %q: %w", op, req.Method, cc.Country, ErrPaymentMethodBlocked,
		)
	}

	intent := domain.PaymentIntent{
		Method:   req.Method,
		Amount:   req.Amount,
		Currency: currency,
		Country:  cc.Country,
	}
	if req.Method == domain.PaymentCOD {
		intent.Reference = "cod_" + p.newID()
		intent.Status = domain.PaymentAwaitingDelivery
	} else {
		intent.Reference = "pay_" + p.newID()
		intent.Status = domain.PaymentPending
	}

	log.Info("payment initiated",
		"reference", intent.Reference, "method", intent.Method,
		"amount", intent.Amount, "currency", intent.Currency)
	return intent, nil
}
