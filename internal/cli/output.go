package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/eshaffer321/shopee-orders/internal/api/dto"
	"github.com/eshaffer321/shopee-orders/internal/application/fetch"
	"github.com/eshaffer321/shopee-orders/internal/domain/picklist"
)

// PrintJSON writes the result in the API's wire shape.
func PrintJSON(w io.Writer, result *fetch.Result, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(dto.NewOrdersResponse(result.Grouped, result.Flat))
}

// PrintPickList prints one block per deadline, earliest first.
func PrintPickList(w io.Writer, summary picklist.Summary) {
	deadlines := summary.Deadlines()
	if len(deadlines) == 0 {
		fmt.Fprintln(w, "No pending orders.")
		return
	}

	for i, deadline := range deadlines {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Ship by %s\n", deadline)
		fmt.Fprintln(w, strings.Repeat("-", 40))
		for _, line := range summary[deadline] {
			fmt.Fprintf(w, "%4d  %s\n", line.Quantity, line.Item)
		}
	}
}
