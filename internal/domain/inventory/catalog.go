package inventory

import "github.com/kailas-cloud/esgrid/internal/domain/catalog"

// Engine field names.
const (
	FieldItemID          = "itemId"
	FieldSKU             = "sku"
	FieldItemName        = "itemName"
	FieldCategory        = "category"
	FieldSupplier        = "supplier"
	FieldUnitPrice       = "unitPrice"
	FieldQuantityInStock = "quantityInStock"
	FieldReorderLevel    = "reorderLevel"
	FieldReorderQuantity = "reorderQuantity"
	FieldWarehouse       = "warehouse"
	FieldLastRestocked   = "lastRestocked"
	FieldStatus          = "status"
)

// NewCatalog builds the inventory field catalog. itemId is the identity field.
func NewCatalog() *catalog.Catalog {
	text := func(name string) catalog.Field {
		f, _ := catalog.NewText(name, name)
		return f
	}
	integer := func(name string) catalog.Field {
		f, _ := catalog.NewNumeric(name, name, catalog.Integer)
		return f
	}
	double := func(name string) catalog.Field {
		f, _ := catalog.NewNumeric(name, name, catalog.Double)
		return f
	}
	date := func(name string) catalog.Field {
		f, _ := catalog.NewDate(name, name)
		return f
	}

	return catalog.MustNew(
		integer(FieldItemID),
		text(FieldSKU),
		text(FieldItemName),
		text(FieldCategory),
		text(FieldSupplier),
		double(FieldUnitPrice),
		integer(FieldQuantityInStock),
		integer(FieldReorderLevel),
		integer(FieldReorderQuantity),
		text(FieldWarehouse),
		date(FieldLastRestocked),
		text(FieldStatus),
	)
}
