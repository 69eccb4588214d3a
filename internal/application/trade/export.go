package trade

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/storefront/backend/internal/domain/trade"
)

// ExportFilename is the attachment name of the order export
const ExportFilename = "orders.csv"

const exportBatchSize = 500

var exportHeader = []string{
	"Order ID", "Date", "Customer", "Email", "Phone", "Address", "City", "State",
	"Pincode", "Items", "Total Amount", "Payment Method", "Payment Status", "Order Status",
}

// Export writes every order matching the query as CSV. Paging fields of the
// query are ignored.
func (s *OrderService) Export(ctx context.Context, query OrderListQuery, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	filter := query.toFilter()
	filter.PageSize = exportBatchSize
	for page := 1; ; page++ {
		filter.Page = page
		orders, err := s.orderRepo.FindAll(ctx, filter)
		if err != nil {
			return err
		}
		for i := range orders {
			if err := writer.Write(exportRow(&orders[i])); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
		if len(orders) < exportBatchSize {
			break
		}
	}

	writer.Flush()
	return writer.Error()
}

func exportRow(o *trade.Order) []string {
	items := make([]string, len(o.Items))
	for i, item := range o.Items {
		items[i] = fmt.Sprintf("%dx %s", item.Quantity, item.ProductName)
	}

	return []string{
		o.ID.String(),
		o.CreatedAt.Format("2006-01-02 15:04"),
		o.FullName,
		o.Email,
		o.Phone,
		flatten(o.Address),
		o.City,
		o.State,
		o.Pincode,
		strings.Join(items, "; "),
		o.TotalAmount.StringFixed(2),
		o.PaymentMethod.Label(),
		o.PaymentStatusLabel(),
		o.Status.Label(),
	}
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
