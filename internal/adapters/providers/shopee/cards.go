package shopee

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/eshaffer321/shopee-orders/internal/domain/picklist"
)

// Card selectors on the order list page.
const (
	cardSelector       = ".order-card-body"
	itemNameSelector   = ".item-name"
	itemDescSelector   = ".item-description"
	itemAmountSelector = ".item-amount"
	statusDescSelector = ".status-description"
)

var (
	deadlinePattern   = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	multiplierMarkers = strings.NewReplacer("x", "", "X", "", "×", "")
)

// ParseCard turns one order card's HTML into an Order. now supplies the
// fallback deadline when the status text carries no date.
func ParseCard(html string, now time.Time) (picklist.Order, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return picklist.Order{}, fmt.Errorf("invalid card html: %w", err)
	}

	name, _ := fieldText(doc, itemNameSelector)
	desc, _ := fieldText(doc, itemDescSelector)
	status, _ := fieldText(doc, statusDescSelector)

	var qty *int
	if amount, ok := fieldText(doc, itemAmountSelector); ok {
		qty, err = ParseQuantity(amount)
		if err != nil {
			return picklist.Order{}, err
		}
	}

	return picklist.Order{
		Item:     strings.TrimSpace(name + " " + desc),
		Quantity: qty,
		Deadline: ParseDeadline(status, now),
	}, nil
}

// fieldText returns the text of the first element matching sel, with runs of
// whitespace collapsed to single spaces, and whether such an element exists.
func fieldText(doc *goquery.Document, sel string) (string, bool) {
	node := doc.Find(sel).First()
	if node.Length() == 0 {
		return "", false
	}
	return strings.Join(strings.Fields(node.Text()), " "), true
}

// ParseQuantity reads an amount such as "x3" or "3x". An empty amount is
// unknown (nil); anything else that is not a non-negative integer is an error.
func ParseQuantity(raw string) (*int, error) {
	cleaned := strings.TrimSpace(multiplierMarkers.Replace(raw))
	if cleaned == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity %q: %w", raw, err)
	}
	if n < 0 {
		return nil, fmt.Errorf("invalid quantity %q: negative", raw)
	}
	return &n, nil
}

// ParseDeadline returns the first DD/MM/YYYY date in text verbatim, or now's
// calendar date in the same layout. No timezone conversion is applied.
func ParseDeadline(text string, now time.Time) string {
	if date := deadlinePattern.FindString(text); date != "" {
		return date
	}
	return now.Format(picklist.DateLayout)
}
