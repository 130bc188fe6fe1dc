package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
	"github.com/Amar9nani/Stock-inventory-management/internal/store"
	"github.com/Amar9nani/Stock-inventory-management/internal/store/memory"
)

func newTestLedger(t *testing.T) (*Ledger, *memory.Store) {
	t.Helper()
	repo := memory.New()
	return New(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func createMilk(t *testing.T, repo *memory.Store) *domain.Product {
	t.Helper()
	p, err := repo.CreateProduct(context.Background(), domain.Product{
		Name:          "Milk",
		Category:      "Dairy & Eggs",
		Price:         decimal.RequireFromString("48.50"),
		StockQuantity: 100,
	})
	require.NoError(t, err)
	return p
}

func TestSaleUpdatesStockAndFreezesTotal(t *testing.T) {
	ctx := context.Background()
	l, repo := newTestLedger(t)
	milk := createMilk(t, repo)

	receipt, err := l.RecordTransaction(ctx, milk.ID, 10, domain.TransactionSale)
	require.NoError(t, err)

	assert.Equal(t, 90, receipt.Product.StockQuantity)
	assert.Equal(t, 10, receipt.Product.ItemsSold)
	assert.Equal(t, "485.00", receipt.Transaction.TotalPrice.StringFixed(2))
	assert.Equal(t, domain.TransactionSale, receipt.Transaction.Type)
	assert.Equal(t, milk.ID, receipt.Transaction.ProductID)
	assert.NotZero(t, receipt.Transaction.ID)

	// A later price change does not touch the recorded total.
	price := decimal.NewFromInt(60)
	_, err = repo.UpdateProduct(ctx, milk.ID, domain.ProductPatch{Price: &price})
	require.NoError(t, err)
	txs, err := repo.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "485.00", txs[0].TotalPrice.StringFixed(2))
}

func TestRestockThenReturn(t *testing.T) {
	ctx := context.Background()
	l, repo := newTestLedger(t)
	milk := createMilk(t, repo)

	_, err := l.RecordTransaction(ctx, milk.ID, 10, domain.TransactionSale)
	require.NoError(t, err)

	receipt, err := l.RecordTransaction(ctx, milk.ID, 5, domain.TransactionRestock)
	require.NoError(t, err)
	assert.Equal(t, 95, receipt.Product.StockQuantity)
	assert.Equal(t, 10, receipt.Product.ItemsSold)

	receipt, err = l.RecordTransaction(ctx, milk.ID, 3, domain.TransactionReturn)
	require.NoError(t, err)
	assert.Equal(t, 98, receipt.Product.StockQuantity)
	assert.Equal(t, 7, receipt.Product.ItemsSold)
}

func TestReturnMayDriveItemsSoldNegative(t *testing.T) {
	l, repo := newTestLedger(t)
	milk := createMilk(t, repo)

	receipt, err := l.RecordTransaction(context.Background(), milk.ID, 4, domain.TransactionReturn)
	require.NoError(t, err)
	assert.Equal(t, 104, receipt.Product.StockQuantity)
	assert.Equal(t, -4, receipt.Product.ItemsSold)
}

func TestRecordTransactionRejectsBadInputWithoutSideEffects(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		productID func(milk int64) int64
		quantity  int
		txType    domain.TransactionType
		wantErr   error
	}{
		{name: "zero quantity", quantity: 0, txType: domain.TransactionSale, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", quantity: -3, txType: domain.TransactionRestock, wantErr: ErrInvalidQuantity},
		{name: "quantity above limit", quantity: domain.MaxQuantity + 1, txType: domain.TransactionRestock, wantErr: ErrInvalidQuantity},
		{name: "unknown type", quantity: 1, txType: "refund", wantErr: ErrInvalidTransactionType},
		{name: "missing product", productID: func(int64) int64 { return 999 }, quantity: 5, txType: domain.TransactionSale, wantErr: store.ErrNotFound},
		{name: "insufficient stock", quantity: 101, txType: domain.TransactionSale, wantErr: store.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, repo := newTestLedger(t)
			milk := createMilk(t, repo)
			id := milk.ID
			if tt.productID != nil {
				id = tt.productID(milk.ID)
			}

			_, err := l.RecordTransaction(ctx, id, tt.quantity, tt.txType)
			require.ErrorIs(t, err, tt.wantErr)

			after, err := repo.GetProduct(ctx, milk.ID)
			require.NoError(t, err)
			assert.Equal(t, 100, after.StockQuantity)
			assert.Equal(t, 0, after.ItemsSold)

			txs, err := repo.ListTransactions(ctx)
			require.NoError(t, err)
			assert.Empty(t, txs)
		})
	}
}

func TestInvalidInputErrorsAreInvalidInput(t *testing.T) {
	assert.True(t, errors.Is(ErrInvalidQuantity, store.ErrInvalidInput))
	assert.True(t, errors.Is(ErrInvalidTransactionType, store.ErrInvalidInput))
	assert.True(t, errors.Is(ErrCounterOverflow, store.ErrInvalidInput))
}

func TestCountersNeverWrap(t *testing.T) {
	ctx := context.Background()
	l, repo := newTestLedger(t)
	full, err := repo.CreateProduct(ctx, domain.Product{
		Name:          "Rice",
		Price:         decimal.NewFromInt(1),
		StockQuantity: domain.MaxCounter - 50,
	})
	require.NoError(t, err)

	_, err = l.RecordTransaction(ctx, full.ID, 100, domain.TransactionRestock)
	require.ErrorIs(t, err, ErrCounterOverflow)
	_, err = l.RecordTransaction(ctx, full.ID, 100, domain.TransactionReturn)
	require.ErrorIs(t, err, ErrCounterOverflow)

	after, err := repo.GetProduct(ctx, full.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxCounter-50, after.StockQuantity)
	txs, err := repo.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)

	// Filling up to the limit exactly is allowed.
	receipt, err := l.RecordTransaction(ctx, full.ID, 50, domain.TransactionRestock)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxCounter, receipt.Product.StockQuantity)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	sold := domain.Product{ID: 7, StockQuantity: 10, ItemsSold: domain.MaxCounter - 1}
	_, err = Apply(&sold, 2, domain.TransactionSale, at)
	require.ErrorIs(t, err, ErrCounterOverflow)
	assert.Equal(t, 10, sold.StockQuantity)
	assert.Equal(t, domain.MaxCounter-1, sold.ItemsSold)

	returned := domain.Product{ID: 8, ItemsSold: 1 - domain.MaxCounter}
	_, err = Apply(&returned, 2, domain.TransactionReturn, at)
	require.ErrorIs(t, err, ErrCounterOverflow)
	assert.Equal(t, 0, returned.StockQuantity)
}

func TestMaximalTotalFitsColumn(t *testing.T) {
	p := domain.Product{ID: 1, Price: domain.MaxPrice, StockQuantity: domain.MaxQuantity}
	tx, err := Apply(&p, domain.MaxQuantity, domain.TransactionSale, time.Now())
	require.NoError(t, err)
	// total_price is NUMERIC(14,2): at most twelve integer digits.
	assert.True(t, tx.TotalPrice.LessThan(decimal.New(1, 12)), tx.TotalPrice.String())
}

func TestStockEqualsInitialPlusSignedSum(t *testing.T) {
	ctx := context.Background()
	l, repo := newTestLedger(t)
	milk := createMilk(t, repo)

	ops := []struct {
		qty    int
		txType domain.TransactionType
	}{
		{12, domain.TransactionSale},
		{30, domain.TransactionRestock},
		{2, domain.TransactionReturn},
		{50, domain.TransactionSale},
		{1, domain.TransactionReturn},
	}
	for _, op := range ops {
		_, err := l.RecordTransaction(ctx, milk.ID, op.qty, op.txType)
		require.NoError(t, err)
	}

	txs, err := repo.ListTransactions(ctx)
	require.NoError(t, err)

	stock, sold := 100, 0
	for _, tx := range txs {
		switch tx.Type {
		case domain.TransactionSale:
			stock -= tx.Quantity
			sold += tx.Quantity
		case domain.TransactionRestock:
			stock += tx.Quantity
		case domain.TransactionReturn:
			stock += tx.Quantity
			sold -= tx.Quantity
		}
	}

	after, err := repo.GetProduct(ctx, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, stock, after.StockQuantity)
	assert.Equal(t, sold, after.ItemsSold)
	assert.Equal(t, 71, after.StockQuantity)
	assert.Equal(t, 59, after.ItemsSold)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	ctx := context.Background()
	l, repo := newTestLedger(t)
	p, err := repo.CreateProduct(ctx, domain.Product{Name: "Eggs", Price: decimal.NewFromInt(2), StockQuantity: 50})
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.RecordTransaction(ctx, p.ID, 1, domain.TransactionSale)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, store.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, succeeded)
	assert.Equal(t, 50, rejected)

	after, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.StockQuantity)
	assert.Equal(t, 50, after.ItemsSold)

	txs, err := repo.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 50)
	for i, tx := range txs {
		assert.Equal(t, int64(i+1), tx.ID)
	}
}

func TestApplyRoundsTotalToCents(t *testing.T) {
	p := &domain.Product{ID: 1, Price: decimal.RequireFromString("0.333"), StockQuantity: 10}
	tx, err := Apply(p, 3, domain.TransactionSale, time.Unix(0, 0).UTC())
	require.NoError(t, err)
	assert.Equal(t, "1.00", tx.TotalPrice.StringFixed(2))
	assert.Equal(t, 7, p.StockQuantity)
}
