package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidProduct = errors.New("invalid product")

type Category string

const (
	CategoryFootball   Category = "football"
	CategoryAnime      Category = "anime"
	CategoryPopCulture Category = "pop-culture"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFootball, CategoryAnime, CategoryPopCulture:
		return true
	}
	return false
}

type (
	Product struct {
		ID            string           `json:"id"`
		Name          string           `json:"name"`
		Description   string           `json:"description"`
		Category      Category         `json:"category"`
		Subcategory   string           `json:"subcategory"`
		Images        []string         `json:"images"`
		Variants      []ProductVariant `json:"variants"`
		BasePrice     float64          `json:"basePrice"`
		OriginalPrice float64          `json:"originalPrice"`
		Rating        float64          `json:"rating"`
		Reviews       int              `json:"reviews"`
		Tags          []string         `json:"tags"`
		Badges        []string         `json:"badges"`
		ShippingDays  int              `json:"shippingDays"`
		CODAvailable  bool             `json:"codAvailable"`
		IsTrending    bool             `json:"isTrending"`
		IsExclusive   bool             `json:"isExclusive"`
		StockAlert    *int             `json:"stockAlert,omitempty"`
		Brand         string           `json:"brand,omitempty"`
		Materials     []string         `json:"materials"`
		Features      []string         `json:"features"`
		SizeGuide     json.RawMessage  `json:"sizeGuide,omitempty"`
		CreatedAt     string           `json:"createdAt,omitempty"`
		UpdatedAt     string           `json:"updatedAt,omitempty"`
	}

	ProductVariant struct {
		ID            string  `json:"id"`
		Size          string  `json:"size"`
		Color         string  `json:"color"`
		Price         float64 `json:"price"`
		OriginalPrice float64 `json:"originalPrice"`
		Stock         int     `json:"stock"`
		SKU           string  `json:"sku"`
	}
)

// Clone returns a deep copy, so callers may modify the result without
// touching catalog state.
func (p Product) Clone() Product {
	c := p
	c.Images = slices.Clone(p.Images)
	c.Variants = slices.Clone(p.Variants)
	c.Tags = slices.Clone(p.Tags)
	c.Badges = slices.Clone(p.Badges)
	c.Materials = slices.Clone(p.Materials)
	c.Features = slices.Clone(p.Features)
	c.SizeGuide = slices.Clone(p.SizeGuide)
	if p.StockAlert != nil {
		v := *p.StockAlert
		c.StockAlert = &v
	}
	return c
}

// Variant returns the variant with the given id.
func (p Product) Variant(id string) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return ProductVariant{}, false
}

// TotalStock sums the stock of all variants.
func (p Product) TotalStock() int {
	var n int
	for _, v := range p.Variants {
		n += v.Stock
	}
	return n
}

// Validate checks the write-time invariants of a product.
//
// Price consistency (basePrice <= originalPrice, variant prices) is
// admin-authored data and is not checked here.
func (p Product) Validate() error {
	const op = "Product.Validate"

	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("id is empty"))
	}
	if p.Name == "" {
		errs = append(errs, errors.New("name is empty"))
	}
	if !p.Category.Valid() {
		errs = append(errs, fmt.Errorf("unknown category %q", p.Category))
	}
	if len(p.Variants) == 0 {
		errs = append(errs, errors.New("no variants"))
	}
	for _, v := range p.Variants {
		if v.Stock < 0 {
			errs = append(errs, fmt.Errorf("variant %q: negative stock", v.ID))
		}
	}
	if p.ShippingDays < 0 {
		errs = append(errs, errors.New("negative shipping days"))
	}

	if len(errs) != 0 {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidProduct, errors.Join(errs...))
	}
	return nil
}

// PriceConsistent reports whether basePrice does not exceed originalPrice.
func (p Product) PriceConsistent() bool {
	return p.OriginalPrice == 0 || p.BasePrice <= p.OriginalPrice
}

// A ProductPatch is a partial product update. Nil fields are left unchanged.
type ProductPatch struct {
	Name          *string           `json:"name,omitempty"`
	Description   *string           `json:"description,omitempty"`
	Category      *Category         `json:"category,omitempty"`
	Subcategory   *string           `json:"subcategory,omitempty"`
	Images        *[]string         `json:"images,omitempty"`
	Variants      *[]ProductVariant `json:"variants,omitempty"`
	BasePrice     *float64          `json:"basePrice,omitempty"`
	OriginalPrice *float64          `json:"originalPrice,omitempty"`
	Tags          *[]string         `json:"tags,omitempty"`
	Badges        *[]string         `json:"badges,omitempty"`
	ShippingDays  *int              `json:"shippingDays,omitempty"`
	CODAvailable  *bool             `json:"codAvailable,omitempty"`
	IsTrending    *bool             `json:"isTrending,omitempty"`
	IsExclusive   *bool             `json:"isExclusive,omitempty"`
	StockAlert    *int              `json:"stockAlert,omitempty"`
	Brand         *string           `json:"brand,omitempty"`
	Materials     *[]string         `json:"materials,omitempty"`
	Features      *[]string         `json:"features,omitempty"`
	SizeGuide     json.RawMessage   `json:"sizeGuide,omitempty"`
}

// Apply returns a copy of p with the patch fields set.
func (pp ProductPatch) Apply(p Product) Product {
	p = p.Clone()
	setIf(&p.Name, pp.Name)
	setIf(&p.Description, pp.Description)
	setIf(&p.Category, pp.Category)
	setIf(&p.Subcategory, pp.Subcategory)
	setIf(&p.BasePrice, pp.BasePrice)
	setIf(&p.OriginalPrice, pp.OriginalPrice)
	setIf(&p.ShippingDays, pp.ShippingDays)
	setIf(&p.CODAvailable, pp.CODAvailable)
	setIf(&p.IsTrending, pp.IsTrending)
	setIf(&p.IsExclusive, pp.IsExclusive)
	setIf(&p.Brand, pp.Brand)
	if pp.Images != nil {
		p.Images = slices.Clone(*pp.Images)
	}
	if pp.Variants != nil {
		p.Variants = slices.Clone(*pp.Variants)
	}
	if pp.Tags != nil {
		p.Tags = slices.Clone(*pp.Tags)
	}
	if pp.Badges != nil {
		p.Badges = slices.Clone(*pp.Badges)
	}
	if pp.Materials != nil {
		p.Materials = slices.Clone(*pp.Materials)
	}
	if pp.Features != nil {
		p.Features = slices.Clone(*pp.Features)
	}
	if pp.StockAlert != nil {
		v := *pp.StockAlert
		p.StockAlert = &v
	}
	if len(pp.SizeGuide) != 0 {
		p.SizeGuide = slices.Clone(pp.SizeGuide)
	}
	return p
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

type StockUpdate struct {
	VariantID string `json:"variantId"`
	Stock     int    `json:"stock"`
}

// A ProductQuery filters product listings. Zero values mean "any".
type ProductQuery struct {
	Category Category
	Search   string
	Trending bool
	Limit    int
}
