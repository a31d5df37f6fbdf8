package cli

import (
	"os"

	ucli "github.com/urfave/cli/v2"
)

// FetchCommand runs a single scrape and prints the result.
func FetchCommand() *ucli.Command {
	return &ucli.Command{
		Name:   "fetch",
		Usage:  "Fetch pending orders once and print them",
		Flags:  fetchFlags(),
		Action: FetchAction,
	}
}

// FetchAction scrapes once. Logs go to stderr; stdout carries the same JSON
// body GET /api/orders returns, or a pick list with --summary.
func FetchAction(c *ucli.Context) error {
	cfg := loadConfig(c)
	logger := newLogger(os.Stderr, cfg, "fetch")

	result, err := NewOrchestrator(cfg, logger).FetchOrders(c.Context)
	if err != nil {
		return ucli.Exit(err.Error(), 1)
	}

	out := c.App.Writer
	if c.Bool(flagSummary) {
		PrintPickList(out, result.Grouped)
		return nil
	}
	return PrintJSON(out, result, c.Bool(flagPretty))
}
