// Package stock models the simulated stock quotes streamed to ticker subscribers.
package stock

import (
	"math"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
)

// MaxMove is the largest relative price change per tick, in either direction.
const MaxMove = 0.02

// Quote is one stock's current state.
type Quote struct {
	StockID       int       `json:"stockId"`
	Symbol        string    `json:"symbol"`
	Company       string    `json:"company"`
	CurrentPrice  float64   `json:"currentPrice"`
	PreviousPrice float64   `json:"previousPrice"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Volume        int       `json:"volume"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

type listing struct {
	symbol  string
	company string
	price   float64
}

var listings = []listing{
	{"AAPL", "Apple Inc.", 190.50},
	{"MSFT", "Microsoft Corporation", 380.25},
	{"GOOGL", "Alphabet Inc.", 140.75},
	{"AMZN", "Amazon.com Inc.", 180.50},
	{"NVDA", "NVIDIA Corporation", 870.20},
	{"META", "Meta Platforms Inc.", 520.15},
	{"TSLA", "Tesla Inc.", 242.80},
	{"CRM", "Salesforce Inc.", 285.40},
	{"ADBE", "Adobe Inc.", 520.60},
	{"INTC", "Intel Corporation", 32.15},
	{"AMD", "Advanced Micro Devices", 210.80},
	{"QCOM", "Qualcomm Inc.", 165.30},
	{"CSCO", "Cisco Systems Inc.", 48.20},
	{"AMAT", "Applied Materials Inc.", 220.75},
	{"LRCX", "Lam Research Corporation", 780.45},
	{"ASML", "ASML Holding N.V.", 720.20},
	{"AVGO", "Broadcom Inc.", 145.60},
	{"MU", "Micron Technology Inc.", 95.40},
	{"NXPI", "NXP Semiconductors", 210.15},
	{"MCHP", "Microchip Technology Inc.", 72.85},
	{"JPM", "JPMorgan Chase & Co.", 195.75},
	{"BAC", "Bank of America Corp.", 42.50},
	{"WFC", "Wells Fargo & Company", 70.20},
	{"GS", "The Goldman Sachs Group Inc.", 510.85},
	{"MS", "Morgan Stanley", 98.40},
	{"BLK", "BlackRock Inc.", 890.15},
	{"AXP", "American Express Company", 245.60},
	{"USB", "U.S. Bancorp", 45.75},
	{"PNC", "PNC Financial Services", 185.40},
	{"TD", "Toronto-Dominion Bank", 68.90},
	{"RY", "Royal Bank of Canada", 115.20},
	{"BNS", "Scotiabank", 72.50},
	{"BMO", "Bank of Montreal", 108.75},
	{"CM", "Canadian Imperial Bank", 58.40},
	{"SLF", "Sun Life Financial Inc.", 68.20},
	{"MFC", "Manulife Financial Corporation", 23.15},
	{"GWC", "Great-West Lifeco Inc.", 32.80},
	{"TRI", "Thomson Reuters Corporation", 165.45},
	{"RCI", "Rogers Communications Inc.", 44.75},
	{"BCE", "BCE Inc.", 40.20},
}

// Book is the mutable set of quotes owned by a single ticker goroutine.
type Book struct {
	quotes []Quote
	fake   faker.Faker
}

// NewBook creates a book with up to n listings (all when n <= 0).
func NewBook(seed int64, n int, now time.Time) *Book {
	if n <= 0 || n > len(listings) {
		n = len(listings)
	}
	b := &Book{
		quotes: make([]Quote, 0, n),
		fake:   faker.NewWithSeed(rand.NewSource(seed)),
	}
	for i, l := range listings[:n] {
		b.quotes = append(b.quotes, Quote{
			StockID:       i + 1,
			Symbol:        l.symbol,
			Company:       l.company,
			CurrentPrice:  l.price,
			PreviousPrice: l.price,
			Volume:        b.volume(),
			LastUpdated:   now,
		})
	}
	return b
}

// Tick moves every quote once and returns a snapshot.
func (b *Book) Tick(now time.Time) []Quote {
	for i := range b.quotes {
		b.quotes[i] = b.quotes[i].Move(b.fake.Float64(6, 0, 1), b.volume(), now)
	}
	return b.Snapshot()
}

// Snapshot returns a copy of the current quotes.
func (b *Book) Snapshot() []Quote {
	out := make([]Quote, len(b.quotes))
	copy(out, b.quotes)
	return out
}

// Len returns the number of quotes.
func (b *Book) Len() int { return len(b.quotes) }

func (b *Book) volume() int { return b.fake.IntBetween(1_000_000, 99_999_999) }

// Move applies a relative change of (r-0.5)*2*MaxMove, where r is in [0,1].
// Prices are rounded to cents and never drop below one cent.
func (q Quote) Move(r float64, volume int, now time.Time) Quote {
	changePercent := (r - 0.5) * 2 * MaxMove

	q.PreviousPrice = q.CurrentPrice
	q.CurrentPrice = math.Max(round2(q.CurrentPrice*(1+changePercent)), 0.01)
	q.Change = round2(q.CurrentPrice - q.PreviousPrice)
	if q.PreviousPrice != 0 {
		q.ChangePercent = round2(q.Change / q.PreviousPrice * 100)
	}
	q.Volume = volume
	q.LastUpdated = now
	return q
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
