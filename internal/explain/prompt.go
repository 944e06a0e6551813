package explain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SystemPrompt constrains the generator to the numbers it was given.
// Validation still runs on whatever comes back; the prompt just raises the
// odds the first attempt passes.
const SystemPrompt = `You are a retail analytics assistant. Write a short, plain-language summary of the insights you are given. You may only cite numbers that appear in the provided allowed_numbers list; never invent, derive, or combine figures. Do not mention individual transactions.`

// UserPrompt renders the context as the generation request body.
func UserPrompt(ec Context) string {
	var b strings.Builder
	b.WriteString("Summarize these business insights for a shop owner.\n\n")

	payload, err := json.Marshal(ec.Insights)
	if err == nil {
		b.WriteString("Insights:\n")
		b.Write(payload)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Dataset totals: revenue %s across %d records.\n",
		strconv.FormatFloat(ec.TotalRevenue, 'f', -1, 64), ec.RecordCount)

	nums := make([]string, len(ec.AllowedNumbers))
	for i, n := range ec.AllowedNumbers {
		nums[i] = strconv.FormatFloat(n, 'f', -1, 64)
	}
	b.WriteString("allowed_numbers: [" + strings.Join(nums, ", ") + "]\n")
	return b.String()
}
