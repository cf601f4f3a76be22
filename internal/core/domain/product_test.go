package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() Product {
	return Product{
		ID:          "fb-100",
		Name:        "Away Jersey",
		Category:    CategoryFootball,
		Subcategory: "jerseys",
		Images:      []string{"/img/1.jpg"},
		Variants: []ProductVariant{
			{ID: "fb-100-m", Size: "M", Price: 50, OriginalPrice: 60, Stock: 4, SKU: "A"},
			{ID: "fb-100-l", Size: "L", Price: 50, OriginalPrice: 60, Stock: 2, SKU: "B"},
		},
		BasePrice:     50,
		OriginalPrice: 60,
		Tags:          []string{"away"},
	}
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Product)
		ok     bool
	}{
		{"Valid", func(*Product) {}, true},
		{"NoID", func(p *Product) { p.ID = "" }, false},
		{"NoName", func(p *Product) { p.Name = "" }, false},
		{"UnknownCategory", func(p *Product) { p.Category = "books" }, false},
		{"NoVariants", func(p *Product) { p.Variants = nil }, false},
		{"NegativeStock", func(p *Product) { p.Variants[0].Stock = -1 }, false},
		{"NegativeShippingDays", func(p *Product) { p.ShippingDays = -2 }, false},
		{"PriceAboveOriginalAllowed", func(p *Product) { p.BasePrice = 99 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidProduct)
		})
	}
}

func TestProductHelpers(t *testing.T) {
	p := validProduct()

	assert.Equal(t, 6, p.TotalStock())

	v, ok := p.Variant("fb-100-l")
	require.True(t, ok)
	assert.Equal(t, "L", v.Size)
	_, ok = p.Variant("fb-100-xxl")
	assert.False(t, ok)

	assert.True(t, p.PriceConsistent())
	p.BasePrice = 61
	assert.False(t, p.PriceConsistent())
}

func TestProductClone(t *testing.T) {
	alert := 3
	p := validProduct()
	p.StockAlert = &alert
	p.SizeGuide = json.RawMessage(`{"m":"50cm"}`)

	c := p.Clone()
	c.Variants[0].Stock = 100
	c.Tags[0] = "home"
	*c.StockAlert = 9
	c.SizeGuide[2] = 'x'

	assert.Equal(t, 4, p.Variants[0].Stock)
	assert.Equal(t, "away", p.Tags[0])
	assert.Equal(t, 3, *p.StockAlert)
	assert.JSONEq(t, `{"m":"50cm"}`, string(p.SizeGuide))
}

func TestProductJSONRoundTrip(t *testing.T) {
	t.Run("EmptyValuesKept", func(t *testing.T) {
		p := validProduct()
		p.Materials = []string{}
		p.Features = []string{}
		p.Variants[0].Size = ""
		p.Variants[0].Color = ""

		data, err := json.Marshal(p)
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, []any{}, raw["materials"])
		assert.Equal(t, []any{}, raw["features"])
		variant := raw["variants"].([]any)[0].(map[string]any)
		assert.Equal(t, "", variant["size"])
		assert.Equal(t, "", variant["color"])

		var got Product
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, p, got)
	})

	t.Run("DocumentReencodesEqual", func(t *testing.T) {
		doc := `{"materials":[],"features":["breathable"],` +
			`"variants":[{"id":"v1","size":"","color":"","price":1,"originalPrice":1,"stock":0,"sku":""}]}`

		var p Product
		require.NoError(t, json.Unmarshal([]byte(doc), &p))
		data, err := json.Marshal(p)
		require.NoError(t, err)

		var want, got map[string]any
		require.NoError(t, json.Unmarshal([]byte(doc), &want))
		require.NoError(t, json.Unmarshal(data, &got))
		for k, v := range want {
			assert.Equal(t, v, got[k], k)
		}
	})
}

func TestProductPatchApply(t *testing.T) {
	p := validProduct()

	var patch ProductPatch
	require.NoError(t, json.Unmarshal(
		[]byte(`{"name":"Third Kit","basePrice":45.5,"tags":[],"isTrending":true}`),
		&patch,
	))

	got := patch.Apply(p)
	assert.Equal(t, "Third Kit", got.Name)
	assert.Equal(t, 45.5, got.BasePrice)
	assert.Empty(t, got.Tags)
	assert.True(t, got.IsTrending)

	// untouched
	assert.Equal(t, p.Category, got.Category)
	assert.Equal(t, p.Variants, got.Variants)
	assert.Equal(t, "Away Jersey", p.Name)
}
