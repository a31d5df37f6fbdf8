package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/shopee-orders/internal/application/fetch"
	"github.com/eshaffer321/shopee-orders/internal/domain/picklist"
	"github.com/eshaffer321/shopee-orders/internal/infrastructure/config"
)

func sampleResult() *fetch.Result {
	flat := []picklist.Order{
		{Item: "Mug", Quantity: picklist.IntPtr(2), Deadline: "16/03/2025"},
		{Item: "Plate", Quantity: picklist.IntPtr(1), Deadline: "15/03/2025"},
		{Item: "Mug", Quantity: picklist.IntPtr(3), Deadline: "16/03/2025"},
	}
	return &fetch.Result{RunID: "r1", Grouped: picklist.Build(flat), Flat: flat}
}

func TestPrintJSON(t *testing.T) {
	t.Run("compact", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, PrintJSON(&buf, sampleResult(), false))

		assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
		assert.JSONEq(t, `{
			"separacao": {
				"15/03/2025": [{"item": "Plate", "quantidade": 1}],
				"16/03/2025": [{"item": "Mug", "quantidade": 5}]
			},
			"pedidos": [
				{"item": "Mug", "quantidade": 2, "prazo": "16/03/2025"},
				{"item": "Plate", "quantidade": 1, "prazo": "15/03/2025"},
				{"item": "Mug", "quantidade": 3, "prazo": "16/03/2025"}
			]
		}`, buf.String())
	})

	t.Run("pretty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, PrintJSON(&buf, sampleResult(), true))

		assert.Contains(t, buf.String(), "\n  \"separacao\"")
	})
}

func TestPrintPickList(t *testing.T) {
	t.Run("deadlines earliest first", func(t *testing.T) {
		var buf bytes.Buffer
		PrintPickList(&buf, sampleResult().Grouped)

		out := buf.String()
		assert.Less(t, strings.Index(out, "Ship by 15/03/2025"), strings.Index(out, "Ship by 16/03/2025"))
		assert.Contains(t, out, "   5  Mug")
		assert.Contains(t, out, "   1  Plate")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		PrintPickList(&buf, picklist.Build(nil))

		assert.Equal(t, "No pending orders.\n", buf.String())
	})
}

func TestNewApp(t *testing.T) {
	app := NewApp()

	assert.Equal(t, "shopee-orders", app.Name)
	require.NotNil(t, app.Command("serve"))
	require.NotNil(t, app.Command("fetch"))

	names := func(cmd string) []string {
		var out []string
		for _, f := range app.Command(cmd).Flags {
			out = append(out, f.Names()[0])
		}
		return out
	}
	assert.ElementsMatch(t, []string{"config", "verbose", "port"}, names("serve"))
	assert.ElementsMatch(t, []string{"config", "verbose", "pretty", "summary"}, names("fetch"))
}

func TestNewOrchestrator_WiresFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Session.CookieFile = t.TempDir() + "/cookies.json"

	assert.NotNil(t, NewOrchestrator(cfg, nil))
}
