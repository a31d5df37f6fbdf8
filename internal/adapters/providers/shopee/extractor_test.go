package shopee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/shopee-orders/internal/adapters/browser"
)

func newTestExtractor(maxScrolls int) *Extractor {
	e := NewExtractor(ExtractorConfig{MaxScrolls: maxScrolls}, nil)
	e.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestExhaustScroll_StopsWhenHeightRepeats(t *testing.T) {
	page := browser.NewMockPage()
	page.Heights = []int64{100, 250, 250}

	scrolls, err := newTestExtractor(0).ExhaustScroll(context.Background(), page)

	require.NoError(t, err)
	assert.Equal(t, 2, scrolls)
	assert.Equal(t, 2, page.ScrollCalls)
	assert.Equal(t, 3, page.HeightCalls)
}

func TestExhaustScroll_StaticPageScrollsOnce(t *testing.T) {
	page := browser.NewMockPage()
	page.Heights = []int64{800}

	scrolls, err := newTestExtractor(0).ExhaustScroll(context.Background(), page)

	require.NoError(t, err)
	assert.Equal(t, 1, scrolls)
	assert.Equal(t, 2, page.HeightCalls)
}

func TestExhaustScroll_RespectsCap(t *testing.T) {
	page := browser.NewMockPage()
	page.Heights = []int64{100, 200, 300, 400, 500, 600, 700}

	scrolls, err := newTestExtractor(3).ExhaustScroll(context.Background(), page)

	require.NoError(t, err)
	assert.Equal(t, 3, scrolls)
	assert.Equal(t, 3, page.ScrollCalls)
}

func TestExhaustScroll_MeasureError(t *testing.T) {
	page := browser.NewMockPage()
	page.Errors["ScrollHeight"] = errors.New("target closed")

	_, err := newTestExtractor(0).ExhaustScroll(context.Background(), page)

	assert.Error(t, err)
	assert.Zero(t, page.ScrollCalls)
}

func TestExtract_ParsesCardsInPageOrder(t *testing.T) {
	page := browser.NewMockPage()
	page.Heights = []int64{100, 250, 250}
	page.Cards = []string{
		card("Mug", "Blue", "x2", "Enviar até 15/03/2025"),
		card("Plate", "", "lots", "Enviar até 15/03/2025"),
		card("Plate", "", "", "Aguardando"),
	}

	orders, err := newTestExtractor(0).Extract(context.Background(), page)

	require.NoError(t, err)
	require.Len(t, orders, 2, "unparseable card is skipped")
	assert.Equal(t, "Mug Blue", orders[0].Item)
	assert.Equal(t, 2, orders[0].Qty())
	assert.Equal(t, "15/03/2025", orders[0].Deadline)
	assert.Equal(t, "Plate", orders[1].Item)
	assert.Nil(t, orders[1].Quantity)
	assert.Equal(t, "10/03/2025", orders[1].Deadline)
	assert.Equal(t, 2, page.ScrollCalls)
}

func TestExtract_NoCards(t *testing.T) {
	page := browser.NewMockPage()

	orders, err := newTestExtractor(0).Extract(context.Background(), page)

	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestExtract_ReadError(t *testing.T) {
	page := browser.NewMockPage()
	page.Errors["OuterHTML"] = errors.New("detached")

	_, err := newTestExtractor(0).Extract(context.Background(), page)

	assert.Error(t, err)
}
