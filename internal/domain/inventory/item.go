// Package inventory defines the inventory stock entity, its field catalog and
// the seed data generator.
package inventory

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// IndexName is the default engine index holding inventory items.
const IndexName = "inventory-items"

// Item is one inventory stock row. JSON names match the engine document.
type Item struct {
	ItemID          int        `json:"itemId"`
	SKU             string     `json:"sku"`
	ItemName        string     `json:"itemName"`
	Category        string     `json:"category"`
	Supplier        string     `json:"supplier"`
	UnitPrice       float64    `json:"unitPrice"`
	QuantityInStock int        `json:"quantityInStock"`
	ReorderLevel    int        `json:"reorderLevel"`
	ReorderQuantity int        `json:"reorderQuantity"`
	Warehouse       string     `json:"warehouse"`
	LastRestocked   *time.Time `json:"lastRestocked,omitempty"`
	Status          string     `json:"status"`
}

// Validate checks the fields a write requires. Identity is checked by the caller
// since create and update treat it differently.
func (i *Item) Validate() error {
	if i.SKU == "" {
		return fmt.Errorf("sku is required")
	}
	if i.ItemName == "" {
		return fmt.Errorf("itemName is required")
	}
	if math.IsNaN(i.UnitPrice) || math.IsInf(i.UnitPrice, 0) || i.UnitPrice < 0 {
		return fmt.Errorf("unitPrice must be a finite non-negative number")
	}
	if i.QuantityInStock < 0 || i.ReorderLevel < 0 || i.ReorderQuantity < 0 {
		return fmt.Errorf("quantities must be >= 0")
	}
	return nil
}

// DocumentID returns the engine document id for the item.
func (i *Item) DocumentID() string { return strconv.Itoa(i.ItemID) }

// WithID returns a copy carrying the given identity.
func (i Item) WithID(id int) Item {
	i.ItemID = id
	return i
}
