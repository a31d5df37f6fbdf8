// Package picklist turns scraped orders into per-deadline pick lists.
//
// An Order is one scraped order card. Build groups orders by deadline and
// sums quantities per item so the warehouse knows how many of each item to
// separate for every ship-by date.
package picklist

// DateLayout is the deadline format used by the portal (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// Order is a single pending-shipment line scraped from the portal.
type Order struct {
	Item     string `json:"item"`
	Quantity *int   `json:"quantidade"` // nil when the card shows no amount
	Deadline string `json:"prazo"`
}

// Qty returns the quantity, treating unknown as zero.
func (o Order) Qty() int {
	if o.Quantity == nil {
		return 0
	}
	return *o.Quantity
}

// Line is the total quantity of one item due on a deadline.
type Line struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantidade"`
}

// Summary maps a deadline to the items due on it.
type Summary map[string][]Line

// Build groups orders by deadline and sums quantities per item. Items keep
// the order in which they first appear within their deadline.
func Build(orders []Order) Summary {
	summary := make(Summary)
	index := make(map[string]map[string]int) // deadline -> item -> position in summary[deadline]

	for _, o := range orders {
		positions, ok := index[o.Deadline]
		if !ok {
			positions = make(map[string]int)
			index[o.Deadline] = positions
		}

		if pos, seen := positions[o.Item]; seen {
			summary[o.Deadline][pos].Quantity += o.Qty()
			continue
		}

		positions[o.Item] = len(summary[o.Deadline])
		summary[o.Deadline] = append(summary[o.Deadline], Line{Item: o.Item, Quantity: o.Qty()})
	}

	return summary
}

// Total returns the summed quantity of item on deadline, or 0.
func (s Summary) Total(deadline, item string) int {
	for _, l := range s[deadline] {
		if l.Item == item {
			return l.Quantity
		}
	}
	return 0
}

// Deadlines returns the deadline keys in chronological order.
func (s Summary) Deadlines() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sortDeadlines(keys)
	return keys
}

// IntPtr is a convenience for building Orders with a known quantity.
func IntPtr(n int) *int {
	return &n
}
