package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
	"github.com/Amar9nani/Stock-inventory-management/internal/store"
)

var _ store.Repository = (*Store)(nil)

// Store keeps every collection in process memory behind one lock. Ids come
// from per-collection counters that only move forward, so a deleted id is
// never handed out again.
type Store struct {
	mu           sync.RWMutex
	products     map[int64]domain.Product
	transactions []domain.Transaction
	users        map[int64]domain.User

	nextProductID     int64
	nextTransactionID int64
	nextUserID        int64
}

func New() *Store {
	return &Store{
		products:          make(map[int64]domain.Product),
		transactions:      make([]domain.Transaction, 0, 64),
		users:             make(map[int64]domain.User),
		nextProductID:     1,
		nextTransactionID: 1,
		nextUserID:        1,
	}
}

// NewSeeded returns a store preloaded with the demo catalogue and a few days
// of sales history.
func NewSeeded() *Store {
	s := New()

	products := []domain.Product{
		{SKU: "PRD001", Name: "Organic Whole Milk", Category: "Dairy & Eggs", Price: decimal.RequireFromString("399.00"), StockQuantity: 42, ItemsSold: 86, Description: "Farm fresh organic whole milk"},
		{SKU: "PRD002", Name: "Fresh French Baguette", Category: "Bakery", Price: decimal.RequireFromString("249.00"), StockQuantity: 8, ItemsSold: 54, Description: "Freshly baked French baguette"},
		{SKU: "PRD003", Name: "Organic Banana Bunch", Category: "Produce", Price: decimal.RequireFromString("129.00"), StockQuantity: 124, ItemsSold: 210, Description: "Organic banana bunch"},
		{SKU: "PRD004", Name: "Premium Ground Beef", Category: "Meat & Seafood", Price: decimal.RequireFromString("699.00"), StockQuantity: 32, ItemsSold: 45, Description: "Premium ground beef, 1lb package"},
		{SKU: "PRD005", Name: "Sparkling Water 12-Pack", Category: "Beverages", Price: decimal.RequireFromString("99.00"), StockQuantity: 5, ItemsSold: 78, Description: "12-pack of sparkling water"},
	}
	for _, p := range products {
		p.ID = s.nextProductID
		s.nextProductID++
		s.products[p.ID] = p
	}

	// History only: the counters above already account for these sales.
	now := time.Now().UTC()
	history := []struct {
		productID int64
		qty       int
		total     string
		daysAgo   int
	}{
		{1, 5, "1995.00", 1},
		{2, 3, "747.00", 2},
		{3, 10, "1290.00", 3},
		{4, 2, "1998.00", 4},
		{5, 7, "693.00", 0},
	}
	for _, h := range history {
		s.transactions = append(s.transactions, domain.Transaction{
			ID:         s.nextTransactionID,
			ProductID:  h.productID,
			Quantity:   h.qty,
			Type:       domain.TransactionSale,
			TotalPrice: decimal.RequireFromString(h.total),
			Date:       now.AddDate(0, 0, -h.daysAgo),
		})
		s.nextTransactionID++
	}

	return s
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, id := range slices.Sorted(maps.Keys(s.products)) {
		products = append(products, s.products[id])
	}
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", store.ErrNotFound, id)
	}
	return &product, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.SKU != "" && s.skuTaken(product.SKU, 0) {
		return nil, fmt.Errorf("%w: sku %s already exists", store.ErrConflict, product.SKU)
	}

	product.ID = s.nextProductID
	if product.SKU == "" {
		product.SKU = fmt.Sprintf("PRD%03d", product.ID)
		if s.skuTaken(product.SKU, 0) {
			return nil, fmt.Errorf("%w: sku %s already exists", store.ErrConflict, product.SKU)
		}
	}
	s.nextProductID++
	s.products[product.ID] = product

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", store.ErrNotFound, id)
	}
	if patch.SKU != nil && *patch.SKU != product.SKU && s.skuTaken(*patch.SKU, id) {
		return nil, fmt.Errorf("%w: sku %s already exists", store.ErrConflict, *patch.SKU)
	}

	applyPatch(&product, patch)
	s.products[id] = product

	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("%w: product %d", store.ErrNotFound, id)
	}
	delete(s.products, id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.transactions), nil
}

func (s *Store) Snapshot(_ context.Context) ([]domain.Product, []domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, id := range slices.Sorted(maps.Keys(s.products)) {
		products = append(products, s.products[id])
	}
	return products, slices.Clone(s.transactions), nil
}

func (s *Store) RecordTransaction(_ context.Context, productID int64, apply store.ApplyFunc) (*domain.Transaction, *domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[productID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: product %d", store.ErrNotFound, productID)
	}

	// apply works on a copy; nothing is written back unless it succeeds.
	working := current
	tx, err := apply(&working)
	if err != nil {
		return nil, nil, err
	}

	tx.ID = s.nextTransactionID
	tx.ProductID = productID
	s.nextTransactionID++
	s.transactions = append(s.transactions, tx)
	s.products[productID] = working

	recorded := tx
	product := working
	return &recorded, &product, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.Username == "" || user.PasswordHash == "" {
		return nil, fmt.Errorf("%w: username and password are required", store.ErrInvalidInput)
	}
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return nil, fmt.Errorf("%w: username %s already exists", store.ErrConflict, user.Username)
		}
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = user

	created := user
	return &created, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", store.ErrNotFound, id)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, username)
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, id := range slices.Sorted(maps.Keys(s.users)) {
		users = append(users, s.users[id])
	}
	return users, nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("%w: user %d", store.ErrNotFound, id)
	}
	delete(s.users, id)
	return nil
}

func (s *Store) skuTaken(sku string, exceptID int64) bool {
	for id, p := range s.products {
		if id != exceptID && p.SKU == sku {
			return true
		}
	}
	return false
}

func applyPatch(product *domain.Product, patch domain.ProductPatch) {
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.SKU != nil {
		product.SKU = *patch.SKU
	}
}
