package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/shopee-orders/internal/api/dto"
	"github.com/eshaffer321/shopee-orders/internal/api/handlers"
	"github.com/eshaffer321/shopee-orders/internal/application/fetch"
	"github.com/eshaffer321/shopee-orders/internal/domain/picklist"
)

type stubFetcher struct {
	result *fetch.Result
	err    error
	ctx    context.Context
}

func (s *stubFetcher) FetchOrders(ctx context.Context) (*fetch.Result, error) {
	s.ctx = ctx
	return s.result, s.err
}

func mugPlateResult() *fetch.Result {
	flat := []picklist.Order{
		{Item: "Mug", Quantity: picklist.IntPtr(2), Deadline: "15/03/2025"},
		{Item: "Mug", Quantity: picklist.IntPtr(3), Deadline: "15/03/2025"},
		{Item: "Plate", Quantity: nil, Deadline: "16/03/2025"},
	}
	return &fetch.Result{RunID: "run-1", Grouped: picklist.Build(flat), Flat: flat}
}

func TestOrdersHandler_List(t *testing.T) {
	t.Run("returns pick lists and flat orders", func(t *testing.T) {
		handler := handlers.NewOrdersHandler(&stubFetcher{result: mugPlateResult()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response dto.OrdersResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

		assert.Equal(t, []dto.PickLineResponse{{Item: "Mug", Quantidade: 5}}, response.Separacao["15/03/2025"])
		assert.Equal(t, []dto.PickLineResponse{{Item: "Plate", Quantidade: 0}}, response.Separacao["16/03/2025"])
		require.Len(t, response.Pedidos, 3)
		assert.Equal(t, "Mug", response.Pedidos[0].Item)
		assert.Nil(t, response.Pedidos[2].Quantidade)
		assert.Equal(t, "16/03/2025", response.Pedidos[2].Prazo)
	})

	t.Run("uses the wire field names", func(t *testing.T) {
		handler := handlers.NewOrdersHandler(&stubFetcher{result: mugPlateResult()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		body := rec.Body.String()
		for _, key := range []string{`"separacao"`, `"pedidos"`, `"item"`, `"quantidade":null`, `"prazo"`} {
			assert.True(t, strings.Contains(body, key), "missing %s in %s", key, body)
		}
	})

	t.Run("empty result still returns both keys", func(t *testing.T) {
		handler := handlers.NewOrdersHandler(&stubFetcher{result: &fetch.Result{Grouped: picklist.Build(nil)}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"separacao":{},"pedidos":[]}`, rec.Body.String())
	})

	t.Run("fetch failure returns 502", func(t *testing.T) {
		handler := handlers.NewOrdersHandler(&stubFetcher{err: errors.New("login failed: login submit button not found")}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)

		var response dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, dto.ErrCodeFetchFailed, response.Code)
		assert.Contains(t, response.Message, "login submit button not found")
	})

	t.Run("fetch survives client disconnect", func(t *testing.T) {
		fetcher := &stubFetcher{result: mugPlateResult()}
		handler := handlers.NewOrdersHandler(fetcher, nil)

		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		cancel()

		handler.List(rec, req)

		require.NotNil(t, fetcher.ctx)
		assert.NoError(t, fetcher.ctx.Err())
	})
}
