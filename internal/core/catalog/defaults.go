// Package catalog holds the bundled catalog the storefront seeds from when
// no snapshot has been persisted yet.
package catalog

import "github.com/niksmo/storefront/internal/core/domain"

func intPtr(v int) *int { return &v }

// Defaults returns a fresh copy of the bundled catalog on every call.
func Defaults() []domain.Product {
	return []domain.Product{
		{
			ID:          "fb-001",
			Name:        "Home Jersey 24/25",
			Description: "Breathable match-day replica jersey with embroidered crest.",
			Category:    domain.CategoryFootball,
			Subcategory: "jerseys",
			Images: []string{
				"/images/products/fb-001-front.jpg",
				"/images/products/fb-001-back.jpg",
			},
			Variants: []domain.ProductVariant{
				{ID: "fb-001-s", Size: "S", Price: 49.99, OriginalPrice: 69.99, Stock: 25, SKU: "FB-HJ24-S"},
				{ID: "fb-001-m", Size: "M", Price: 49.99, OriginalPrice: 69.99, Stock: 40, SKU: "FB-HJ24-M"},
				{ID: "fb-001-l", Size: "L", Price: 49.99, OriginalPrice: 69.99, Stock: 32, SKU: "FB-HJ24-L"},
				{ID: "fb-001-xl", Size: "XL", Price: 52.99, OriginalPrice: 72.99, Stock: 12, SKU: "FB-HJ24-XL"},
			},
			BasePrice:     49.99,
			OriginalPrice: 69.99,
			Rating:        4.7,
			Reviews:       214,
			Tags:          []string{"jersey", "home kit", "replica", "2024"},
			Badges:        []string{"bestseller"},
			ShippingDays:  5,
			CODAvailable:  true,
			IsTrending:    true,
			StockAlert:    intPtr(10),
			Brand:         "Striker Supply",
			Materials:     []string{"100% recycled polyester"},
			Features:      []string{"Moisture wicking", "Embroidered crest"},
		},
		{
			ID:          "fb-002",
			Name:        "Retro Away Jersey 1998",
			Description: "Throwback away shirt celebrating the 1998 tournament run.",
			Category:    domain.CategoryFootball,
			Subcategory: "retro",
			Images:      []string{"/images/products/fb-002-front.jpg"},
			Variants: []domain.ProductVariant{
				{ID: "fb-002-m", Size: "M", Price: 59.99, OriginalPrice: 79.99, Stock: 8, SKU: "FB-RA98-M"},
				{ID: "fb-002-l", Size: "L", Price: 59.99, OriginalPrice: 79.99, Stock: 5, SKU: "FB-RA98-L"},
			},
			BasePrice:     59.99,
			OriginalPrice: 79.99,
			Rating:        4.9,
			Reviews:       87,
			Tags:          []string{"retro", "away kit", "vintage"},
			Badges:        []string{"limited"},
			ShippingDays:  7,
			CODAvailable:  true,
			IsExclusive:   true,
			Brand:         "Striker Supply",
			Materials:     []string{"Cotton piqué"},
		},
		{
			ID:          "fb-003",
			Name:        "Training Scarf",
			Description: "Knitted supporters scarf in club colours.",
			Category:    domain.CategoryFootball,
			Subcategory: "accessories",
			Images:      []string{"/images/products/fb-003.jpg"},
			Variants: []domain.ProductVariant{
				{ID: "fb-003-os", Color: "red/white", Price: 19.99, OriginalPrice: 24.99, Stock: 120, SKU: "FB-SCF-RW"},
			},
			BasePrice:     19.99,
			OriginalPrice: 24.99,
			Rating:        4.4,
			Reviews:       51,
			Tags:          []string{"scarf", "winter", "supporters"},
			Badges:        []string{},
			ShippingDays:  4,
			CODAvailable:  true,
		},
		{
			ID:          "an-001",
			Name:        "Shonen Hero Oversized Tee",
			Description: "Oversized graphic tee with a hand-drawn shonen hero print.",
			Category:    domain.CategoryAnime,
			Subcategory: "t-shirts",
			Images:      []string{"/images/products/an-001.jpg"},
			Variants: []domain.ProductVariant{
				{ID: "an-001-m-blk", Size: "M", Color: "black", Price: 24.99, OriginalPrice: 34.99, Stock: 60, SKU: "AN-SHT-M-BLK"},
				{ID: "an-001-l-blk", Size: "L", Color: "black", Price: 24.99, OriginalPrice: 34.99, Stock: 44, SKU: "AN-SHT-L-BLK"},
				{ID: "an-001-l-wht", Size: "L", Color: "white", Price: 24.99, OriginalPrice: 34.99, Stock: 0, SKU: "AN-SHT-L-WHT"},
			},
			BasePrice:     24.99,
			OriginalPrice: 34.99,
			Rating:        4.6,
			Reviews:       332,
			Tags:          []string{"anime", "oversized", "graphic tee"},
			Badges:        []string{"new"},
			ShippingDays:  5,
			CODAvailable:  true,
			IsTrending:    true,
			Materials:     []string{"240 GSM cotton"},
		},
		{
			ID:          "an-002",
			Name:        "Spirit Blade Collector Figure",
			Description: "1/7 scale painted figure with interchangeable blade effects.",
			Category:    domain.CategoryAnime,
			Subcategory: "figures",
			Images: []string{
				"/images/products/an-002-1.jpg",
				"/images/products/an-002-2.jpg",
			},
			Variants: []domain.ProductVariant{
				{ID: "an-002-std", Price: 149.99, OriginalPrice: 179.99, Stock: 6, SKU: "AN-SBF-STD"},
			},
			BasePrice:     149.99,
			OriginalPrice: 179.99,
			Rating:        4.8,
			Reviews:       64,
			Tags:          []string{"figure", "collectible", "limited edition"},
			Badges:        []string{"exclusive"},
			ShippingDays:  10,
			CODAvailable:  false,
			IsTrending:    true,
			IsExclusive:   true,
			StockAlert:    intPtr(3),
			Features:      []string{"Interchangeable parts", "Display base"},
		},
		{
			ID:          "pc-001",
			Name:        "Galaxy Rebels Hoodie",
			Description: "Fleece hoodie with a retro sci-fi rebels insignia.",
			Category:    domain.CategoryPopCulture,
			Subcategory: "hoodies",
			Images:      []string{"/images/products/pc-001.jpg"},
			Variants: []domain.ProductVariant{
				{ID: "pc-001-m", Size: "M", Price: 44.99, OriginalPrice: 59.99, Stock: 18, SKU: "PC-GRH-M"},
				{ID: "pc-001-l", Size: "L", Price: 44.99, OriginalPrice: 59.99, Stock: 22, SKU: "PC-GRH-L"},
			},
			BasePrice:     44.99,
			OriginalPrice: 59.99,
			Rating:        4.5,
			Reviews:       129,
			Tags:          []string{"sci-fi", "hoodie", "movies"},
			Badges:        []string{},
			ShippingDays:  6,
			CODAvailable:  true,
			IsTrending:    true,
			Materials:     []string{"80% cotton", "20% polyester"},
		},
		{
			ID:          "pc-002",
			Name:        "Wizard School Mug",
			Description: "Ceramic mug that reveals a hidden crest when filled with hot drinks.",
			Category:    domain.CategoryPopCulture,
			Subcategory: "homeware",
			Images:      []string{"/images/products/pc-002.jpg"},
			Variants: []domain.ProductVariant{
				{ID: "pc-002-std", Price: 14.99, OriginalPrice: 19.99, Stock: 75, SKU: "PC-WSM-STD"},
			},
			BasePrice:     14.99,
			OriginalPrice: 19.99,
			Rating:        4.3,
			Reviews:       41,
			Tags:          []string{"mug", "heat reveal", "books"},
			Badges:        []string{"gift idea"},
			ShippingDays:  4,
			CODAvailable:  true,
		},
	}
}
