package notifications

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aldousari/sooqfresh-backend/pkg/db/models"
	"github.com/aldousari/sooqfresh-backend/internal/pricing"
)

// buildVendorMessage renders the SMS/WhatsApp body for one vendor's share of
// an order: one line per purchased item plus the vendor's total.
func buildVendorMessage(order *models.Order, items []models.OrderItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SooqFresh: new order #%s\n", order.ShortID())

	var total float64
	for _, item := range items {
		fmt.Fprintf(&b, "%s %s %s (%s): %.2f KWD\n",
			formatQuantity(item.Quantity), item.Unit, item.ProductName, item.Origin, item.TotalPrice)
		total += item.TotalPrice
	}

	fmt.Fprintf(&b, "Your total: %.2f KWD", pricing.Round2(total))
	return b.String()
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
