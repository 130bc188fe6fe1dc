package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
)

var productCSVHeader = []string{"ID", "SKU", "Name", "Category", "Price", "Stock Quantity", "Items Sold", "Description"}

// ExportProductsCSV writes the filtered product list as CSV with a header row.
func (s *Service) ExportProductsCSV(ctx context.Context, w io.Writer, filter domain.ProductFilter) error {
	products, err := s.ListProducts(ctx, filter)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(productCSVHeader); err != nil {
		return err
	}
	for _, p := range products {
		record := []string{
			strconv.FormatInt(p.ID, 10),
			p.SKU,
			p.Name,
			p.Category,
			p.Price.StringFixed(2),
			strconv.Itoa(p.StockQuantity),
			strconv.Itoa(p.ItemsSold),
			p.Description,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
