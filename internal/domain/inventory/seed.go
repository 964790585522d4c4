package inventory

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
)

// FirstSeedID is the identity of the first seeded item minus one.
const FirstSeedID = 1000

var (
	warehouses = []string{"Warehouse-A", "Warehouse-B", "Warehouse-C", "Warehouse-D", "Warehouse-E"}

	itemNames = []string{
		"Dell XPS 15 Laptop", "Lenovo ThinkPad X1", "HP ProBook 450", `24" Monitor 4K`, "Mechanical Keyboard RGB",
		"Logitech Mouse MX Master", "Microsoft Office 365", "Adobe Creative Cloud", "Visual Studio Professional",
		"Office Desk Chair", `Standing Desk 60"`, "Bookshelf 5-Tier", "USB-C Hub 7-in-1", "Wireless Charger Pad",
		"USB-A Cable (3m)", "Notebook A4 100 Pages", "Ballpoint Pen (Pack of 50)", "Printer Paper Ream 500 Sheets",
		"Stapler Heavy Duty", "Filing Cabinet 4-Drawer", "Monitor Stand Adjustable", "Desk Lamp LED", "Cable Organizer",
		"External Hard Drive 2TB", "Laptop Stand Aluminum", "USB Hub 4-Port", "Screen Protector", "Keyboard Wrist Rest",
		"Mouse Pad XL", "Webcam Full HD", "Headphones Wireless", "Microphone Condenser",
	}

	categories = []string{
		"Electronics", "Hardware", "Software", "Furniture", "Office Supplies", "Accessories", "Networking", "Storage",
	}

	suppliers = []string{
		"Dell Direct", "Lenovo Corp", "HP Inc", "LG Electronics", "Corsair Gaming", "Logitech Inc", "Microsoft",
		"Adobe Systems", "Herman Miller", "Flexispot", "IKEA", "Anker", "Belkin", "AmazonBasics", "Rhodia",
		"Parker", "Xerox", "Swingline", "Steelcase", "3M", "Canon", "Epson", "Sony", "Samsung",
	}

	statuses = []string{"Active", "Inactive", "Discontinued"}
)

// Generator produces pseudo-random seed items. The same seed and clock yield the same items.
type Generator struct {
	fake faker.Faker
	now  func() time.Time
}

// NewGenerator creates a seed generator.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		now:  time.Now,
	}
}

// WithClock overrides the clock used for restock dates.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate returns n items with identities FirstSeedID+1 .. FirstSeedID+n.
// Restock dates fall 1..30 days before today, at UTC midnight.
func (g *Generator) Generate(n int) []Item {
	if n <= 0 {
		return nil
	}
	today := g.now().UTC().Truncate(24 * time.Hour)

	items := make([]Item, 0, n)
	for i := 1; i <= n; i++ {
		restocked := today.AddDate(0, 0, -g.fake.IntBetween(1, 30))
		items = append(items, Item{
			ItemID:          FirstSeedID + i,
			SKU:             fmt.Sprintf("SKU-%06d", i),
			ItemName:        g.fake.RandomStringElement(itemNames),
			Category:        g.fake.RandomStringElement(categories),
			Supplier:        g.fake.RandomStringElement(suppliers),
			UnitPrice:       round2(g.fake.Float64(2, 5, 1504)),
			QuantityInStock: g.fake.IntBetween(10, 4999),
			ReorderLevel:    g.fake.IntBetween(5, 499),
			ReorderQuantity: g.fake.IntBetween(20, 1999),
			Warehouse:       g.fake.RandomStringElement(warehouses),
			LastRestocked:   &restocked,
			Status:          g.fake.RandomStringElement(statuses),
		})
	}
	return items
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
