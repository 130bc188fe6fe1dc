package store

import (
	"context"
	"errors"

	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
)

// ApplyFunc mutates a locked product in place and returns the transaction to
// record for it. Returning an error aborts the whole operation.
type ApplyFunc func(product *domain.Product) (domain.Transaction, error)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type TransactionRepository interface {
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	// RecordTransaction runs apply against the product and persists the mutated
	// product together with the returned transaction, or neither.
	RecordTransaction(ctx context.Context, productID int64, apply ApplyFunc) (*domain.Transaction, *domain.Product, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// SnapshotReader returns products and transactions as of one point in time,
// so derived figures never mix pre- and post-transaction state.
type SnapshotReader interface {
	Snapshot(ctx context.Context) ([]domain.Product, []domain.Transaction, error)
}

type Repository interface {
	ProductRepository
	TransactionRepository
	UserRepository
	SnapshotReader
}
