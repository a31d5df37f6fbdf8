package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/eshaffer321/shopee-orders/internal/api/dto"
	"github.com/eshaffer321/shopee-orders/internal/application/fetch"
)

// Fetcher runs one scrape of the seller portal.
type Fetcher interface {
	FetchOrders(ctx context.Context) (*fetch.Result, error)
}

// OrdersHandler handles order-related HTTP requests.
type OrdersHandler struct {
	Base
	fetcher Fetcher
	logger  *slog.Logger
}

// NewOrdersHandler creates a new orders handler.
func NewOrdersHandler(fetcher Fetcher, logger *slog.Logger) *OrdersHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrdersHandler{
		fetcher: fetcher,
		logger:  logger,
	}
}

// List handles GET /api/orders - scrapes the pending orders and returns the
// per-deadline pick lists plus the flat order list.
//
// The scrape is detached from the request context: once a browser run has
// started it finishes even if the client disconnects.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.fetcher.FetchOrders(context.WithoutCancel(r.Context()))
	if err != nil {
		h.logger.Error("order fetch failed", "error", err)
		h.WriteError(w, http.StatusBadGateway, dto.FetchFailedError(err))
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.NewOrdersResponse(result.Grouped, result.Flat))
}
