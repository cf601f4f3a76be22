package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/niksmo/storefront/internal/core/commerce"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var ErrUnknownCurrency = errors.New("unknown currency")

var _ port.CommerceSession = (*Session)(nil)

// A Session is the active currency and country of one shopper.
//
// The currency survives restarts through the PreferenceStore. The country
// is kept in memory only.
type Session struct {
	resolver commerce.Resolver
	detector commerce.Detector
	prefs    port.PreferenceStore
	signals  commerce.Signals

	mu       sync.RWMutex
	currency domain.Currency
	country  string
}

// NewSession restores the stored currency or detects one from the signals
// and stores it. Preference store failures are logged; the session falls
// back to detection.
func NewSession(
	ctx context.Context,
	resolver commerce.Resolver,
	prefs port.PreferenceStore,
	signals commerce.Signals,
) *Session {
	const op = "NewSession"
	log := slog.With("op", op)

	s := &Session{
		resolver: resolver,
		detector: commerce.NewDetector(resolver.Currencies()),
		prefs:    prefs,
		signals:  signals,
	}

	code, err := prefs.LoadCurrency(ctx)
	switch {
	case err != nil && !errors.Is(err, port.ErrNotFound):
		log.Warn("failed to load currency preference", "err", err)
	case err == nil:
		if c, ok := resolver.Currencies().Lookup(code); ok {
			s.currency = c
		} else {
			log.Warn("stored currency is unknown, detecting", "currency", code)
		}
	}

	if s.currency.Code == "" {
		detected := s.detector.Detect(signals)
		s.currency = resolver.Currencies().LookupOrDefault(detected)
		if err := prefs.SaveCurrency(ctx, s.currency.Code); err != nil {
			log.Warn("failed to save detected currency", "err", err)
		}
		log.Info("currency detected", "currency", s.currency.Code)
	}

	s.country = s.detector.Country(signals, s.currency.Code)
	return s
}

func (s *Session) Context() domain.CommerceContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CommerceContext{Currency: s.currency.Code, Country: s.country}
}

func (s *Session) Currency() domain.Currency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currency
}

func (s *Session) activeCountry() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.country
}

// SetCurrency switches the active currency and persists the choice. The
// switch holds even if persisting fails.
func (s *Session) SetCurrency(ctx context.Context, code string) error {
	const op = "Session.SetCurrency"

	c, ok := s.resolver.Currencies().Lookup(code)
	if !ok {
		return fmt.Errorf("%s: %q: %w", op, code, ErrUnknownCurrency)
	}

	s.mu.Lock()
	s.currency = c
	s.mu.Unlock()

	if err := s.prefs.SaveCurrency(ctx, c.Code); err != nil {
		slog.Warn("failed to save currency preference",
			"op", op, "currency", c.Code, "err", err)
	}
	return nil
}

// SetCountry overrides the shipping and payment country for this session.
func (s *Session) SetCountry(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.country = strings.ToUpper(strings.TrimSpace(code))
}

func (s *Session) Price(usd float64) domain.DisplayPrice {
	return s.resolver.Price(usd, s.Currency().Code)
}

func (s *Session) ShippingInfo() domain.ShippingInfo {
	return s.resolver.ShippingInfo(s.Currency().Code)
}

func (s *Session) ShippingCost(orderValue float64, baseDays int) domain.ShippingQuote {
	return s.resolver.ShippingCost(s.activeCountry(), orderValue, baseDays)
}

func (s *Session) PaymentMethods() []domain.PaymentMethod {
	return s.resolver.PaymentMethods(s.activeCountry())
}

func (s *Session) CODEligible() bool {
	return s.resolver.CODEligible(s.activeCountry())
}
