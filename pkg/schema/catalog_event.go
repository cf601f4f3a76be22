package schema

// CatalogEventSchemaTextV1 is the value schema of the catalog events topic.
//
// Timestamps are unix milliseconds. size_guide carries raw JSON, empty when
// the product has none.
const CatalogEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.catalog",
	"name": "CatalogEventV1",
	"fields": [
		{"name": "type", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "product", "type": ["null", {
			"type": "record",
			"name": "ProductV1",
			"fields": [
				{"name": "id", "type": "string"},
				{"name": "name", "type": "string"},
				{"name": "description", "type": "string"},
				{"name": "category", "type": "string"},
				{"name": "subcategory", "type": "string"},
				{"name": "images", "type": {"type": "array", "items": "string"}},
				{"name": "variants", "type": {"type": "array", "items": {
					"type": "record",
					"name": "ProductVariantV1",
					"fields": [
						{"name": "id", "type": "string"},
						{"name": "size", "type": "string"},
						{"name": "color", "type": "string"},
						{"name": "price", "type": "double"},
						{"name": "original_price", "type": "double"},
						{"name": "stock", "type": "long"},
						{"name": "sku", "type": "string"}
					]
				}}},
				{"name": "base_price", "type": "double"},
				{"name": "original_price", "type": "double"},
				{"name": "rating", "type": "double"},
				{"name": "reviews", "type": "long"},
				{"name": "tags", "type": {"type": "array", "items": "string"}},
				{"name": "badges", "type": {"type": "array", "items": "string"}},
				{"name": "shipping_days", "type": "long"},
				{"name": "cod_available", "type": "boolean"},
				{"name": "is_trending", "type": "boolean"},
				{"name": "is_exclusive", "type": "boolean"},
				{"name": "stock_alert", "type": ["null", "long"], "default": null},
				{"name": "brand", "type": "string"},
				{"name": "materials", "type": {"type": "array", "items": "string"}},
				{"name": "features", "type": {"type": "array", "items": "string"}},
				{"name": "size_guide", "type": "string"},
				{"name": "created_at", "type": "string"},
				{"name": "updated_at", "type": "string"}
			]
		}], "default": null},
		{"name": "variant_id", "type": "string"},
		{"name": "stock", "type": "long"},
		{"name": "occurred_at", "type": "long"}
	]
}`

type (
	CatalogEventV1 struct {
		Type       string     `avro:"type"`
		ProductID  string     `avro:"product_id"`
		Product    *ProductV1 `avro:"product"`
		VariantID  string     `avro:"variant_id"`
		Stock      int64      `avro:"stock"`
		OccurredAt int64      `avro:"occurred_at"`
	}

	ProductV1 struct {
		ID            string             `avro:"id"`
		Name          string             `avro:"name"`
		Description   string             `avro:"description"`
		Category      string             `avro:"category"`
		Subcategory   string             `avro:"subcategory"`
		Images        []string           `avro:"images"`
		Variants      []ProductVariantV1 `avro:"variants"`
		BasePrice     float64            `avro:"base_price"`
		OriginalPrice float64            `avro:"original_price"`
		Rating        float64            `avro:"rating"`
		Reviews       int64              `avro:"reviews"`
		Tags          []string           `avro:"tags"`
		Badges        []string           `avro:"badges"`
		ShippingDays  int64              `avro:"shipping_days"`
		CODAvailable  bool               `avro:"cod_available"`
		IsTrending    bool               `avro:"is_trending"`
		IsExclusive   bool               `avro:"is_exclusive"`
		StockAlert    *int64             `avro:"stock_alert"`
		Brand         string             `avro:"brand"`
		Materials     []string           `avro:"materials"`
		Features      []string           `avro:"features"`
		SizeGuide     string             `avro:"size_guide"`
		CreatedAt     string             `avro:"created_at"`
		UpdatedAt     string             `avro:"updated_at"`
	}

	ProductVariantV1 struct {
		ID            string  `avro:"id"`
		Size          string  `avro:"size"`
		Color         string  `avro:"color"`
		Price         float64 `avro:"price"`
		OriginalPrice float64 `avro:"original_price"`
		Stock         int64   `avro:"stock"`
		SKU           string  `avro:"sku"`
	}
)
