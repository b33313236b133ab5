package analysis

import (
	"fmt"
	"strings"

	"orderdesk/store"
)

const promptTemplate = `You are a sales analysis assistant for a small business.
Analyze the raw data of the last %d orders below and return a summary with actionable insights.

Format your answer as 3 to 5 short bullet points.

Expected insights (where the data allows):
* Which product sold the most (by total quantity)?
* What is the average order value across these orders?
* Does any customer stand out (buying more, or placing higher-value orders)?
* Any other interesting pattern you notice (e.g. products bought together).

Answer ONLY with the insights.

---
[ORDER DATA]
%s---
[/ORDER DATA]`

func buildPrompt(orders []store.RecentOrder) string {
	return fmt.Sprintf(promptTemplate, recentOrderLimit, formatOrders(orders))
}

func formatOrders(orders []store.RecentOrder) string {
	if len(orders) == 0 {
		return "No orders found for analysis.\n"
	}
	var b strings.Builder
	for _, o := range orders {
		fmt.Fprintf(&b, "Order ID: %d (Customer: %s, Date: %s, Total: %.2f)\n",
			o.ID, o.Customer, o.Date, o.Total)
		if len(o.Items) == 0 {
			b.WriteString("  - (order has no recorded items)\n")
		}
		for _, item := range o.Items {
			fmt.Fprintf(&b, "  - Item: %s, Qty: %d, Unit price: %.2f\n",
				item.Product, item.Quantity, item.UnitPrice)
		}
		b.WriteString("---\n")
	}
	return b.String()
}
