// Package kvstore persists the storefront's client state (the catalog
// snapshot and the currency preference) in a key-value store.
package kvstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/niksmo/storefront/internal/core/port"
)

const (
	CatalogKey  = "storefront:catalog"
	CurrencyKey = "storefront:currency"
)

// A KV is a string-keyed blob store. Get returns [port.ErrNotFound] for a
// missing key; Delete of a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var _ port.SnapshotStore = (*CatalogSnapshot)(nil)

// CatalogSnapshot stores the serialized catalog under [CatalogKey].
type CatalogSnapshot struct {
	kv KV
}

func NewCatalogSnapshot(kv KV) CatalogSnapshot {
	return CatalogSnapshot{kv: kv}
}

func (s CatalogSnapshot) Load(ctx context.Context) ([]byte, error) {
	const op = "CatalogSnapshot.Load"

	data, err := s.kv.Get(ctx, CatalogKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

func (s CatalogSnapshot) Save(ctx context.Context, data []byte) error {
	const op = "CatalogSnapshot.Save"

	if err := s.kv.Set(ctx, CatalogKey, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s CatalogSnapshot) Clear(ctx context.Context) error {
	const op = "CatalogSnapshot.Clear"

	if err := s.kv.Delete(ctx, CatalogKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

var _ port.PreferenceStore = (*CurrencyPreference)(nil)

// CurrencyPreference stores the selected currency code under [CurrencyKey].
type CurrencyPreference struct {
	kv KV
}

func NewCurrencyPreference(kv KV) CurrencyPreference {
	return CurrencyPreference{kv: kv}
}

func (p CurrencyPreference) LoadCurrency(ctx context.Context) (string, error) {
	const op = "CurrencyPreference.LoadCurrency"

	data, err := p.kv.Get(ctx, CurrencyKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	code := strings.TrimSpace(string(data))
	if code == "" {
		return "", fmt.Errorf("%s: %w", op, port.ErrNotFound)
	}
	return code, nil
}

func (p CurrencyPreference) SaveCurrency(ctx context.Context, code string) error {
	const op = "CurrencyPreference.SaveCurrency"

	if err := p.kv.Set(ctx, CurrencyKey, []byte(code)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
