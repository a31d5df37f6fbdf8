package dto

import (
	"time"

	"github.com/eshaffer321/shopee-orders/internal/domain/picklist"
)

// ServiceName is reported by the health check.
const ServiceName = "Shopee Orders API"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// PickLineResponse is one item and its total quantity within a deadline.
type PickLineResponse struct {
	Item       string `json:"item"`
	Quantidade int    `json:"quantidade"`
}

// OrderResponse is a single extracted order card.
// Quantidade is null when the card showed no amount.
type OrderResponse struct {
	Item       string `json:"item"`
	Quantidade *int   `json:"quantidade"`
	Prazo      string `json:"prazo"`
}

// OrdersResponse is returned by GET /api/orders. Separacao maps each ship-by
// date (DD/MM/YYYY) to its pick list; Pedidos is the flat order list in page
// order.
type OrdersResponse struct {
	Separacao map[string][]PickLineResponse `json:"separacao"`
	Pedidos   []OrderResponse               `json:"pedidos"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Service:   ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewOrdersResponse converts a fetch result to its wire shape. Both fields
// are always non-nil so they serialise as {} and [] when empty.
func NewOrdersResponse(grouped picklist.Summary, flat []picklist.Order) OrdersResponse {
	response := OrdersResponse{
		Separacao: make(map[string][]PickLineResponse, len(grouped)),
		Pedidos:   make([]OrderResponse, 0, len(flat)),
	}

	for deadline, lines := range grouped {
		pick := make([]PickLineResponse, 0, len(lines))
		for _, l := range lines {
			pick = append(pick, PickLineResponse{Item: l.Item, Quantidade: l.Quantity})
		}
		response.Separacao[deadline] = pick
	}

	for _, order := range flat {
		response.Pedidos = append(response.Pedidos, OrderResponse{
			Item:       order.Item,
			Quantidade: order.Quantity,
			Prazo:      order.Deadline,
		})
	}

	return response
}
