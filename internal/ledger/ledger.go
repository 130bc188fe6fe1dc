// Package ledger applies stock-affecting operations to products and records
// them as immutable transactions.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
	"github.com/Amar9nani/Stock-inventory-management/internal/store"
)

var (
	ErrInvalidQuantity        = fmt.Errorf("%w: quantity must be between 1 and %d", store.ErrInvalidInput, domain.MaxQuantity)
	ErrInvalidTransactionType = fmt.Errorf("%w: transaction type must be sale, restock or return", store.ErrInvalidInput)
	ErrCounterOverflow        = fmt.Errorf("%w: counter would leave the range of %d", store.ErrInvalidInput, domain.MaxCounter)
)

type Receipt struct {
	Transaction domain.Transaction `json:"transaction"`
	Product     domain.Product     `json:"product"`
}

type Ledger struct {
	repo   store.TransactionRepository
	logger *slog.Logger
	now    func() time.Time
}

func New(repo store.TransactionRepository, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		repo:   repo,
		logger: logger.With(slog.String("component", "ledger")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RecordTransaction applies one sale, restock or return to a product. The
// product update and the transaction record are stored together or not at all.
func (l *Ledger) RecordTransaction(ctx context.Context, productID int64, quantity int, txType domain.TransactionType) (*Receipt, error) {
	if quantity <= 0 || quantity > domain.MaxQuantity {
		return nil, ErrInvalidQuantity
	}
	if !txType.Valid() {
		return nil, ErrInvalidTransactionType
	}

	at := l.now()
	tx, product, err := l.repo.RecordTransaction(ctx, productID, func(p *domain.Product) (domain.Transaction, error) {
		return Apply(p, quantity, txType, at)
	})
	if err != nil {
		return nil, err
	}

	if product.ItemsSold < 0 {
		l.logger.WarnContext(ctx, "items sold went negative after return",
			slog.Int64("product_id", product.ID),
			slog.Int("items_sold", product.ItemsSold),
			slog.Int64("transaction_id", tx.ID))
	}
	l.logger.InfoContext(ctx, "transaction recorded",
		slog.Int64("transaction_id", tx.ID),
		slog.Int64("product_id", product.ID),
		slog.String("type", string(tx.Type)),
		slog.Int("quantity", tx.Quantity),
		slog.Int("stock_quantity", product.StockQuantity))

	return &Receipt{Transaction: *tx, Product: *product}, nil
}

// Apply mutates product for one transaction and returns the record to store.
// The total is the product's current price times quantity, rounded to cents.
func Apply(product *domain.Product, quantity int, txType domain.TransactionType, at time.Time) (domain.Transaction, error) {
	if quantity <= 0 || quantity > domain.MaxQuantity {
		return domain.Transaction{}, ErrInvalidQuantity
	}

	switch txType {
	case domain.TransactionSale:
		if product.StockQuantity < quantity {
			return domain.Transaction{}, fmt.Errorf("%w: product %d has %d in stock, %d requested",
				store.ErrInsufficientStock, product.ID, product.StockQuantity, quantity)
		}
		if product.ItemsSold > domain.MaxCounter-quantity {
			return domain.Transaction{}, fmt.Errorf("%w: items sold of product %d", ErrCounterOverflow, product.ID)
		}
		product.StockQuantity -= quantity
		product.ItemsSold += quantity
	case domain.TransactionRestock:
		if product.StockQuantity > domain.MaxCounter-quantity {
			return domain.Transaction{}, fmt.Errorf("%w: stock of product %d", ErrCounterOverflow, product.ID)
		}
		product.StockQuantity += quantity
	case domain.TransactionReturn:
		if product.StockQuantity > domain.MaxCounter-quantity {
			return domain.Transaction{}, fmt.Errorf("%w: stock of product %d", ErrCounterOverflow, product.ID)
		}
		if product.ItemsSold < quantity-domain.MaxCounter {
			return domain.Transaction{}, fmt.Errorf("%w: items sold of product %d", ErrCounterOverflow, product.ID)
		}
		product.StockQuantity += quantity
		product.ItemsSold -= quantity
	default:
		return domain.Transaction{}, ErrInvalidTransactionType
	}

	return domain.Transaction{
		ProductID:  product.ID,
		Quantity:   quantity,
		Type:       txType,
		TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		Date:       at,
	}, nil
}
