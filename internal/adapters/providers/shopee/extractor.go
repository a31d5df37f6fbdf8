package shopee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eshaffer321/shopee-orders/internal/adapters/browser"
	"github.com/eshaffer321/shopee-orders/internal/domain/picklist"
)

// ExtractorConfig bounds the lazy-load scrolling.
type ExtractorConfig struct {
	ScrollDelay time.Duration
	MaxScrolls  int // 0 = unbounded
}

// Extractor scrapes the order list page.
type Extractor struct {
	cfg    ExtractorConfig
	now    func() time.Time
	logger *slog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(cfg ExtractorConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With(slog.String("component", "extractor")),
	}
}

// Extract loads every order card on the current page and parses them, in
// page order. Cards that fail to parse are logged and skipped.
func (e *Extractor) Extract(ctx context.Context, page browser.Page) ([]picklist.Order, error) {
	e.logger.Info("scrolling to load all orders")
	if _, err := e.ExhaustScroll(ctx, page); err != nil {
		return nil, err
	}

	cards, err := page.OuterHTML(ctx, cardSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to read order cards: %w", err)
	}
	e.logger.Info("order cards found", slog.Int("count", len(cards)))

	now := e.now()
	orders := make([]picklist.Order, 0, len(cards))
	for i, html := range cards {
		order, err := ParseCard(html, now)
		if err != nil {
			e.logger.Warn("skipping unparseable card", slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}
		orders = append(orders, order)
	}

	e.logger.Info("orders extracted",
		slog.Int("parsed", len(orders)),
		slog.Int("skipped", len(cards)-len(orders)),
	)
	return orders, nil
}

// ExhaustScroll scrolls to the bottom until the document height stops
// growing and returns how many scrolls it took. Reaching MaxScrolls is
// logged and ends the loop without error.
func (e *Extractor) ExhaustScroll(ctx context.Context, page browser.Page) (int, error) {
	previous, err := page.ScrollHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to measure page: %w", err)
	}

	scrolls := 0
	for {
		if e.cfg.MaxScrolls > 0 && scrolls >= e.cfg.MaxScrolls {
			e.logger.Warn("scroll limit reached before page stopped growing",
				slog.Int("max_scrolls", e.cfg.MaxScrolls),
				slog.Int64("height", previous),
			)
			return scrolls, nil
		}

		if err := page.ScrollToBottom(ctx); err != nil {
			return scrolls, fmt.Errorf("failed to scroll: %w", err)
		}
		scrolls++

		if err := browser.Sleep(ctx, e.cfg.ScrollDelay); err != nil {
			return scrolls, err
		}

		height, err := page.ScrollHeight(ctx)
		if err != nil {
			return scrolls, fmt.Errorf("failed to measure page: %w", err)
		}
		e.logger.Debug("scrolled", slog.Int("iteration", scrolls), slog.Int64("height", height))

		if height == previous {
			return scrolls, nil
		}
		previous = height
	}
}
