package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionSale    TransactionType = "sale"
	TransactionRestock TransactionType = "restock"
	TransactionReturn  TransactionType = "return"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionSale, TransactionRestock, TransactionReturn:
		return true
	}
	return false
}

// Validate lets the request validator check the value through the enum tag.
func (t TransactionType) Validate() error {
	if !t.Valid() {
		return fmt.Errorf("unknown transaction type %q", string(t))
	}
	return nil
}

// LowStockThreshold is the stock level at or below which a product counts as low.
const LowStockThreshold = 10

// Bounds keep every value inside the Postgres column types. A maximal price
// times a maximal quantity still fits total_price NUMERIC(14,2).
const (
	MaxQuantity = 1_000_000
	// MaxCounter bounds stock_quantity and items_sold in both directions.
	MaxCounter = math.MaxInt32
)

var MaxPrice = decimal.RequireFromString("999999.99")

type StockStatus string

const (
	StockCritical    StockStatus = "critical"
	StockLow         StockStatus = "low"
	StockNormal      StockStatus = "normal"
	StockOverstocked StockStatus = "overstocked"
)

func StockStatusOf(qty int) StockStatus {
	switch {
	case qty <= 5:
		return StockCritical
	case qty <= LowStockThreshold:
		return StockLow
	case qty > 100:
		return StockOverstocked
	default:
		return StockNormal
	}
}

func ParseStockStatus(raw string) (StockStatus, bool) {
	status := StockStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case StockCritical, StockLow, StockNormal, StockOverstocked:
		return status, true
	}
	return "", false
}

const CategoryOther = "Other"

// Categories lists the recognized product categories in display order.
var Categories = []string{
	"Dairy & Eggs",
	"Bakery",
	"Produce",
	"Meat & Seafood",
	"Beverages",
	CategoryOther,
}

// NormalizeCategory returns the canonical spelling of a recognized category,
// matching case-insensitively, and CategoryOther for anything else.
func NormalizeCategory(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(c, trimmed) {
			return c
		}
	}
	return CategoryOther
}

type ProductSort string

const (
	SortDefault   ProductSort = ""
	SortName      ProductSort = "name"
	SortPriceAsc  ProductSort = "price-asc"
	SortPriceDesc ProductSort = "price-desc"
	SortStockAsc  ProductSort = "stock-asc"
	SortStockDesc ProductSort = "stock-desc"
	SortSoldDesc  ProductSort = "sold-desc"
)

func ParseProductSort(raw string) (ProductSort, bool) {
	sort := ProductSort(strings.ToLower(strings.TrimSpace(raw)))
	switch sort {
	case SortDefault, SortName, SortPriceAsc, SortPriceDesc, SortStockAsc, SortStockDesc, SortSoldDesc:
		return sort, true
	}
	return "", false
}
