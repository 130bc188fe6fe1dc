package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockStatusOf(t *testing.T) {
	tests := []struct {
		qty  int
		want StockStatus
	}{
		{qty: -2, want: StockCritical},
		{qty: 0, want: StockCritical},
		{qty: 5, want: StockCritical},
		{qty: 6, want: StockLow},
		{qty: 10, want: StockLow},
		{qty: 11, want: StockNormal},
		{qty: 100, want: StockNormal},
		{qty: 101, want: StockOverstocked},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StockStatusOf(tt.qty), "qty %d", tt.qty)
	}
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "Dairy & Eggs", NormalizeCategory("  dairy & eggs "))
	assert.Equal(t, "Beverages", NormalizeCategory("Beverages"))
	assert.Equal(t, CategoryOther, NormalizeCategory("Electronics"))
	assert.Equal(t, CategoryOther, NormalizeCategory(""))
}

func TestTransactionTypeValidate(t *testing.T) {
	for _, tt := range []TransactionType{TransactionSale, TransactionRestock, TransactionReturn} {
		assert.NoError(t, tt.Validate())
	}
	assert.Error(t, TransactionType("refund").Validate())
	assert.Error(t, TransactionType("").Validate())
}

func TestParseProductSort(t *testing.T) {
	sort, ok := ParseProductSort("Price-Desc")
	assert.True(t, ok)
	assert.Equal(t, SortPriceDesc, sort)

	_, ok = ParseProductSort("random")
	assert.False(t, ok)
}
