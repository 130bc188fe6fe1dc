package analytics

import (
	"cmp"
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
	"github.com/Amar9nani/Stock-inventory-management/internal/store"
)

const DefaultTopProducts = 5

// SalesFilter selects which transactions feed the daily sales series.
// The zero value counts sales only.
type SalesFilter struct {
	AllTypes bool
}

// Engine derives read-only views from the store on every call. Nothing is cached.
type Engine struct {
	repo store.SnapshotReader
}

func NewEngine(repo store.SnapshotReader) *Engine {
	return &Engine{repo: repo}
}

func (e *Engine) StockOverview(ctx context.Context) (domain.StockOverview, error) {
	products, transactions, err := e.repo.Snapshot(ctx)
	if err != nil {
		return domain.StockOverview{}, err
	}

	overview := domain.StockOverview{
		TotalProducts: len(products),
		TotalRevenue:  decimal.Zero,
	}
	for _, p := range products {
		if p.StockQuantity <= domain.LowStockThreshold {
			overview.LowStockCount++
		}
		overview.TotalItemsSold += p.ItemsSold
	}
	for _, tx := range transactions {
		overview.TotalRevenue = overview.TotalRevenue.Add(tx.TotalPrice)
	}
	return overview, nil
}

// SalesByDay groups transactions by the UTC calendar date they were recorded
// on, oldest first. Days without transactions are omitted.
func (e *Engine) SalesByDay(ctx context.Context, filter SalesFilter) ([]domain.DailySales, error) {
	_, transactions, err := e.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*domain.DailySales)
	for _, tx := range transactions {
		if !filter.AllTypes && tx.Type != domain.TransactionSale {
			continue
		}
		date := tx.Date.UTC().Format("2006-01-02")
		day, ok := byDate[date]
		if !ok {
			day = &domain.DailySales{Date: date, Revenue: decimal.Zero}
			byDate[date] = day
		}
		day.Revenue = day.Revenue.Add(tx.TotalPrice)
		day.ItemsSold += tx.Quantity
	}

	series := make([]domain.DailySales, 0, len(byDate))
	for _, day := range byDate {
		series = append(series, *day)
	}
	// ISO dates sort lexically.
	slices.SortFunc(series, func(a, b domain.DailySales) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return series, nil
}

// TopProducts ranks products by items sold, ties keeping catalogue order.
// Revenue is items sold at the current price.
func (e *Engine) TopProducts(ctx context.Context, n int) ([]domain.TopProduct, error) {
	if n <= 0 {
		n = DefaultTopProducts
	}
	products, _, err := e.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	ranked := slices.Clone(products)
	slices.SortStableFunc(ranked, func(a, b domain.Product) int {
		return cmp.Compare(b.ItemsSold, a.ItemsSold)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	top := make([]domain.TopProduct, 0, len(ranked))
	for _, p := range ranked {
		top = append(top, domain.TopProduct{
			ID:        p.ID,
			Name:      p.Name,
			ItemsSold: p.ItemsSold,
			Revenue:   p.Price.Mul(decimal.NewFromInt(int64(p.ItemsSold))).Round(2),
		})
	}
	return top, nil
}
