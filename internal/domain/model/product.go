package model

// SetComponent is one sub-product reference inside a kit definition.
type SetComponent struct {
	// SKU of the referenced sub-product.
	SKU string `json:"sku" bson:"sku"`
	// Quantity is the number of units of the sub-product per one kit unit.
	Quantity int `json:"quantity" bson:"quantity"`
}

// Product is a catalog record as returned by the product lookup.
// A product with a non-empty Set is a kit composed of other products.
type Product struct {
	SKU         string         `json:"sku" bson:"sku"`
	Name        string         `json:"name" bson:"name"`
	Weight      float64        `json:"weight,omitempty" bson:"weight,omitempty"`
	CategoryID  int            `json:"category_id,omitempty" bson:"category_id,omitempty"`
	ManualOrder int            `json:"manual_order,omitempty" bson:"manual_order,omitempty"`
	Barcode     string         `json:"barcode,omitempty" bson:"barcode,omitempty"`
	Set         []SetComponent `json:"set,omitempty" bson:"set,omitempty"`
}

// IsKit reports whether the product expands into sub-products.
func (p Product) IsKit() bool {
	return len(p.Set) > 0
}

// OrderLine is one raw order position: a SKU and the ordered quantity.
//
// @Description One position of a raw order
type OrderLine struct {
	SKU      string `json:"sku" binding:"required" example:"KIT-FAMILY"`
	Quantity int    `json:"quantity" binding:"required,gt=0" example:"2"`
} // @name OrderLine

// ExpandedItem is one atomic (non-kit) item produced by set expansion,
// with quantities aggregated across every kit branch that reached it.
type ExpandedItem struct {
	Name           string  `json:"name"`
	SKU            string  `json:"sku"`
	Barcode        string  `json:"barcode,omitempty"`
	Quantity       int     `json:"quantity"`
	UnitWeight     float64 `json:"unit_weight"`
	ExpectedWeight float64 `json:"expected_weight"`
	ManualOrder    int     `json:"manual_order,omitempty"`
}
